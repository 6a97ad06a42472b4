// Package track decodes raw FM/MFM bitstreams (as stored in HFE and
// HxC container images) into Acorn DFS sectors.
package track

import (
	"sort"

	"github.com/bbcmicro/dfstools/types"
)

// Address identifies a sector's physical location as recorded in its
// address mark: cylinder, head (side), and record (0-based sector
// number within the track).
type Address struct {
	Cylinder byte
	Head     byte
	Record   byte
}

// Sector is one decoded sector, still carrying its stored CRC bytes.
type Sector struct {
	Address Address
	Data    []byte
	CRC     [2]byte
}

// Decoder decodes a raw bit sequence into zero or more sectors.
type Decoder interface {
	Decode(rawBits []byte) []Sector
}

// NewDecoder returns the decoder appropriate to enc.
func NewDecoder(enc types.Encoding, verbose bool) Decoder {
	if enc == types.EncodingMFM {
		return &mfmDecoder{verbose: verbose}
	}
	return &fmDecoder{verbose: verbose}
}

func decodeSectorSize(code byte) (int, bool) {
	switch code {
	case 0:
		return 128, true
	case 1:
		return 256, true
	case 2:
		return 512, true
	case 3:
		return 1024, true
	default:
		return 0, false
	}
}

// ValidateTrack checks the post-decode invariants from the design: no
// duplicate record numbers, no gap in the subset of records actually
// read, every sector belongs to the track being read, and every
// sector's length matches the container's nominal block size.
func ValidateTrack(sectors []Sector, wantCylinder, wantHead byte, nominalSize int) []Sector {
	seen := make(map[byte]bool)
	var result []Sector
	for _, s := range sectors {
		if s.Address.Cylinder != wantCylinder || s.Address.Head != wantHead {
			continue
		}
		if len(s.Data) != nominalSize {
			continue
		}
		if seen[s.Address.Record] {
			continue
		}
		seen[s.Address.Record] = true
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Address.Record < result[j].Address.Record })
	for i := 1; i < len(result); i++ {
		if result[i].Address.Record != result[i-1].Address.Record+1 {
			return nil
		}
	}
	return result
}
