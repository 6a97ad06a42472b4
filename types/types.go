// Package types holds various types that are needed all over the place. They're
// in their own package to avoid circular dependencies between disk/,
// dfs/ and cmd/.
package types

// Globals holds flags and configuration that are shared globally.
type Globals struct {
	// Debug level. No code in this module reads it; nothing emits debug output.
	Debug int
}

// Encoding names a track's recording encoding.
type Encoding int

const (
	// EncodingFM is single-density Frequency Modulation.
	EncodingFM Encoding = iota
	// EncodingMFM is double-density Modified Frequency Modulation.
	EncodingMFM
)

func (e Encoding) String() string {
	if e == EncodingMFM {
		return "MFM"
	}
	return "FM"
}

// Format names a filesystem variant recognized on Acorn media.
type Format int

const (
	// FormatAcorn is the standard Acorn DFS catalog layout.
	FormatAcorn Format = iota
	// FormatWatford is Watford DFS's doubled catalog (sectors 0-3, up to 62 entries).
	FormatWatford
	// FormatHDFS is Opus/Acorn HDFS (hard-disc-style catalog extension).
	FormatHDFS
	// FormatOpusDDOS is Opus DDOS, with a sub-volume catalog at sector 16.
	FormatOpusDDOS
)

func (f Format) String() string {
	switch f {
	case FormatWatford:
		return "Watford DFS"
	case FormatHDFS:
		return "HDFS"
	case FormatOpusDDOS:
		return "Opus DDOS"
	default:
		return "Acorn DFS"
	}
}

// Geometry describes a disc's physical sector layout.
type Geometry struct {
	Cylinders       int
	Heads           int
	SectorsPerTrack int
	Encoding        Encoding
	Interleaved     bool
}

// TotalSectors returns cylinders * heads * sectors-per-track.
func (g Geometry) TotalSectors() int {
	return g.Cylinders * g.Heads * g.SectorsPerTrack
}
