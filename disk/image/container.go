// Package image opens the disc-image container formats this module
// reads - plain sector dumps, interleaved dumps, MMB multi-disc files,
// and HFE/HxC flux-level captures - and exposes each as one
// BlockDevice per physical surface (or, for MMB, per slot).
package image

import (
	"path/filepath"
	"strings"

	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

// Kind names a recognized container format.
type Kind int

const (
	// KindRaw covers SSD/SDD/DSD/DDD: plain or track-interleaved
	// concatenations of 256-byte sectors.
	KindRaw Kind = iota
	// KindMMB is a 511-slot multi-disc container.
	KindMMB
	// KindHFE is an HFE v1/v3 flux-level capture.
	KindHFE
	// KindHxCMFM is the HxC MFM flux-level capture format.
	KindHxCMFM
)

func (k Kind) String() string {
	switch k {
	case KindMMB:
		return "MMB"
	case KindHFE:
		return "HFE"
	case KindHxCMFM:
		return "HxC MFM"
	default:
		return "raw"
	}
}

// sizedDevice is the subset of blockdev types that both OSFileDevice
// and GzipDevice satisfy: a BlockDevice that also reports its byte
// length. Open sniffs header bytes with ReadBlock alone and does not
// call Size.
type sizedDevice interface {
	blockdev.BlockDevice
	Size() int64
}

// Container is an opened disc-image file. Surface addresses one
// physical side of the medium (or, for MMB, one of its 511 slots) as
// a BlockDevice, given the geometry that applies to it.
type Container interface {
	Kind() Kind
	Surfaces() int
	Surface(n int, geom types.Geometry) (blockdev.BlockDevice, error)
	Close() error
}

// Open identifies path's container format from its extension and
// magic bytes (transparently inflating a ".gz" suffix first) and
// returns the matching Container.
func Open(path string) (Container, error) {
	bare := path
	gzipped := strings.EqualFold(filepath.Ext(path), ".gz")
	if gzipped {
		bare = strings.TrimSuffix(path, filepath.Ext(path))
	}
	ext := strings.ToLower(filepath.Ext(bare))

	var dev sizedDevice
	var closer func() error
	if gzipped {
		gz, err := blockdev.OpenGzip(path)
		if err != nil {
			return nil, err
		}
		dev = gz
		closer = gz.Close
	} else {
		f, err := blockdev.Open(path)
		if err != nil {
			return nil, err
		}
		dev = f
		closer = f.Close
	}

	header, _, err := dev.ReadBlock(0)
	if err != nil {
		return nil, err
	}

	switch {
	case len(header) >= 8 && (string(header[:8]) == hfeV1Signature || string(header[:8]) == hfeV3Signature):
		return newHFEContainer(dev, closer)
	case len(header) >= 7 && string(header[:7]) == hxcSignature:
		return newHxCContainer(dev, closer)
	case ext == ".mmb":
		return &mmbContainer{dev: dev, close: closer}, nil
	default:
		// .ssd/.sdd/.dsd/.ddd/.adl and anything unrecognized: a plain
		// or interleaved sector dump. Whether it's interleaved isn't
		// decided here - that's part of what the geometry prober
		// tries, using the extension only as a hint (see disk/geometry).
		return &rawContainer{dev: dev, close: closer}, nil
	}
}
