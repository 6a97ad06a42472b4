package dfs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bbcmicro/dfstools/dfserrors"
)

// qualifyPattern and extendPattern match a (possibly partial)
// "DRIVE.DIR.NAME" reference. Drive and directory are optional and
// filled in from context by transformWithPattern. qualifyPattern
// (used by qualify) rejects ":", "#" and "*" in the directory and
// name; extendPattern (used by extendWildcard) accepts them and
// leaves wildcard characters untouched.
var (
	qualifyPattern = regexp.MustCompile(`^(:[0-9]+[A-H]?[.])?([^.:#*][.])?([^.:#*]+)$`)
	extendPattern  = regexp.MustCompile(`^(:[0-9]+[A-H]?[.])?([^.][.])?([^.]+)$`)
)

func transformWithPattern(vol VolumeSelector, dir byte, input string, pat *regexp.Regexp) (string, error) {
	groups := pat.FindStringSubmatch(input)
	if groups == nil {
		return "", fmt.Errorf("not a valid file name: %q", input)
	}
	drive := groups[1]
	if drive == "" {
		drive = fmt.Sprintf(":%s.", vol.String())
	}
	directory := groups[2]
	if directory == "" {
		directory = string(dir) + "."
	}
	name := groups[3]
	if name == "" {
		return "", fmt.Errorf("not a valid file name: %q", input)
	}
	return drive + directory + name, nil
}

// qualify resolves a (possibly partial) file specification into its
// canonical ":N[A-H].D.NAME" form, filling drive and directory from
// vol/dir when the input omits them. wildcardsAllowed selects between
// the strict (no "#"/"*"/"." in name) and permissive patterns.
func qualify(vol VolumeSelector, dir byte, name string, wildcardsAllowed bool) (string, error) {
	trimmed := strings.TrimRight(name, " ")
	if wildcardsAllowed {
		return transformWithPattern(vol, dir, trimmed, extendPattern)
	}
	return transformWithPattern(vol, dir, trimmed, qualifyPattern)
}

// extendWildcard is qualify with wildcard characters permitted in the
// name component, used when compiling an AFSP pattern rather than
// resolving a literal file specification.
func extendWildcard(vol VolumeSelector, dir byte, wild string) (string, error) {
	return qualify(vol, dir, wild, true)
}

// compileToRegex turns a fully-extended wildcard (":N.D.NAME", where
// NAME may contain "#"/"*") into an anchored, case-insensitive regular
// expression, and returns the volume it names.
func compileToRegex(vol VolumeSelector, dir byte, wild string) (*regexp.Regexp, VolumeSelector, error) {
	full, err := extendWildcard(vol, dir, wild)
	if err != nil {
		return nil, VolumeSelector{}, err
	}
	if len(full) < 2 || full[0] != ':' {
		return nil, VolumeSelector{}, fmt.Errorf("no drive number in %q", full)
	}
	parsedVol, n, err := parseVolumeSelector(full[1:])
	if err != nil {
		return nil, VolumeSelector{}, err
	}
	rest := full[1+n:]
	if !strings.HasPrefix(rest, ".") {
		return nil, VolumeSelector{}, fmt.Errorf("non-digit after drive number in %q, specifically %q", full, rest)
	}

	var b strings.Builder
	b.WriteString("^")
	for _, w := range full {
		switch w {
		case ':':
			b.WriteString(`:`)
		case '#':
			b.WriteString(`[^.]`)
		case '*':
			b.WriteString(`[^.]*`)
		case '.':
			b.WriteString(`[.]`)
		default:
			up := strings.ToUpper(string(w))
			down := strings.ToLower(string(w))
			if up != down {
				b.WriteString("[" + up + down + "]")
			} else {
				b.WriteString(regexp.QuoteMeta(string(w)))
			}
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, VolumeSelector{}, fmt.Errorf("failed to compile wildcard %q: %w", wild, err)
	}
	return re, parsedVol, nil
}

// Matcher is a compiled ambiguous file specification ("AFSP"):
// a pattern like "P*" or "$.*" that a catalog entry either matches
// or doesn't, tested by qualifying the candidate name the same way
// the pattern itself was qualified and comparing structurally.
type Matcher struct {
	re  *regexp.Regexp
	vol VolumeSelector
}

// NewMatcher compiles pattern (as typed by a user, relative to ctx's
// current volume and directory) into a Matcher.
func NewMatcher(ctx Context, pattern string) (*Matcher, error) {
	re, vol, err := compileToRegex(ctx.CurrentVolume, ctx.CurrentDirectory, pattern)
	if err != nil {
		return nil, dfserrors.BadFileSystemf("%v", err)
	}
	return &Matcher{re: re, vol: vol}, nil
}

// Volume is the single, non-wildcardable drive the pattern names.
func (m *Matcher) Volume() VolumeSelector { return m.vol }

// Matches reports whether (vol, dir, name) satisfies the pattern.
func (m *Matcher) Matches(vol VolumeSelector, dir byte, name string) bool {
	full, err := qualify(vol, dir, name, false)
	if err != nil {
		return false
	}
	return m.re.MatchString(full)
}

// Qualify is the public entry point for the "qualify(qualify(x)) =
// qualify(x)" idempotence property: resolving a literal (non-wildcard)
// file specification against ctx into canonical form.
func Qualify(ctx Context, name string) (string, error) {
	return qualify(ctx.CurrentVolume, ctx.CurrentDirectory, name, false)
}
