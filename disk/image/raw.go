package image

import (
	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

// rawContainer is a plain or track-interleaved concatenation of
// sectors (SSD/SDD/DSD/DDD). Which of the two layouts applies isn't
// decided at open time: it's part of the geometry a candidate in the
// prober is testing (geom.Interleaved), since the same bytes are
// legal under either reading and the extension is only ever a hint.
// For a non-interleaved image, side n's sectors are a contiguous run
// after side n-1's; for an interleaved image, each track contributes
// one side-0 run immediately followed by one side-1 run, and so on
// for every head.
type rawContainer struct {
	dev   sizedDevice
	close func() error
}

func (c *rawContainer) Kind() Kind { return KindRaw }

// Surfaces always reports 2, the most sides a raw image can hold; it
// does not look at the file's size. Whether a side is actually present
// depends on the geometry passed to Surface, which is side-effect-free
// on a short file.
func (c *rawContainer) Surfaces() int { return 2 }

func (c *rawContainer) Surface(n int, geom types.Geometry) (blockdev.BlockDevice, error) {
	if n < 0 || n >= geom.Heads {
		return nil, dfserrors.MediaNotPresentf("surface %d is not present on this medium", n)
	}
	perSide := uint32(geom.Cylinders * geom.SectorsPerTrack)
	spt := uint32(geom.SectorsPerTrack)

	if !geom.Interleaved {
		return &blockdev.FileView{
			Underlying:  c.dev,
			InitialSkip: uint32(n) * perSide,
			Take:        perSide,
			Leave:       0,
			Total:       perSide,
		}, nil
	}

	return &blockdev.FileView{
		Underlying:  c.dev,
		InitialSkip: uint32(n) * spt,
		Take:        spt,
		Leave:       spt * uint32(geom.Heads-1),
		Total:       perSide,
	}, nil
}

func (c *rawContainer) Close() error { return c.close() }

var _ Container = (*rawContainer)(nil)
