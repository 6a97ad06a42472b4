package dfs

import (
	"fmt"
	"strconv"
	"strings"
)

// VolumeSelector names a mountable volume: a disc surface plus,
// for Opus DDOS media only, a sub-volume letter A-H.
type VolumeSelector struct {
	Surface   int
	Subvolume byte // 0 means "none specified"
}

// String renders the selector the way a DFS command line expects it:
// "1" or "1C".
func (v VolumeSelector) String() string {
	s := strconv.Itoa(v.Surface)
	if v.Subvolume != 0 {
		s += string(v.Subvolume)
	}
	return s
}

// EffectiveSubvolume returns the selector's subvolume, defaulting to
// 'A' (Opus DDOS's default volume) when none was specified.
func (v VolumeSelector) EffectiveSubvolume() byte {
	if v.Subvolume == 0 {
		return 'A'
	}
	return v.Subvolume
}

// ParseVolumeSelector parses a whole "N" or "N[A-H]" string (as typed
// on a command line's --drive flag) into a VolumeSelector.
func ParseVolumeSelector(s string) (VolumeSelector, error) {
	v, n, err := parseVolumeSelector(s)
	if err != nil {
		return VolumeSelector{}, err
	}
	if n != len(s) {
		return VolumeSelector{}, fmt.Errorf("unexpected trailing characters in drive selector %q", s)
	}
	return v, nil
}

// parseVolumeSelector parses a leading "N" or "N[A-H]" from s,
// returning the selector and the number of bytes consumed.
func parseVolumeSelector(s string) (VolumeSelector, int, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return VolumeSelector{}, 0, fmt.Errorf("no drive number in %q", s)
	}
	surface, err := strconv.Atoi(s[:i])
	if err != nil {
		return VolumeSelector{}, 0, err
	}
	v := VolumeSelector{Surface: surface}
	if i < len(s) && s[i] >= 'A' && s[i] <= 'H' {
		v.Subvolume = s[i]
		i++
	}
	return v, i, nil
}

// ParsedFileName is a fully-qualified "DRIVE.DIR.NAME" reference,
// resolved against a Context's current volume and directory when
// those fields are omitted from the input.
type ParsedFileName struct {
	Vol  VolumeSelector
	Dir  byte
	Name string
}

// Context carries the ambient drive/directory a bare or partial file
// specification is resolved against.
type Context struct {
	CurrentVolume    VolumeSelector
	CurrentDirectory byte
}

// ParseFileName parses a fully- or partially-qualified file
// specification (no wildcards) into a ParsedFileName, filling in
// ctx's current volume/directory for any field left unspecified.
func ParseFileName(ctx Context, fsp string) (ParsedFileName, error) {
	qualified, err := qualify(ctx.CurrentVolume, ctx.CurrentDirectory, fsp, false)
	if err != nil {
		return ParsedFileName{}, err
	}
	return splitQualified(qualified)
}

// splitQualified parses a fully-qualified ":N[A-H].D.NAME" string
// (as produced by qualify) back into its three fields.
func splitQualified(qualified string) (ParsedFileName, error) {
	if !strings.HasPrefix(qualified, ":") {
		return ParsedFileName{}, fmt.Errorf("not a valid file name: %q", qualified)
	}
	rest := qualified[1:]
	vol, n, err := parseVolumeSelector(rest)
	if err != nil {
		return ParsedFileName{}, err
	}
	rest = rest[n:]
	if !strings.HasPrefix(rest, ".") {
		return ParsedFileName{}, fmt.Errorf("non-digit after drive number in %q", qualified)
	}
	rest = rest[1:]
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 || len(parts[0]) != 1 {
		return ParsedFileName{}, fmt.Errorf("not a valid file name: %q", qualified)
	}
	return ParsedFileName{Vol: vol, Dir: parts[0][0], Name: parts[1]}, nil
}
