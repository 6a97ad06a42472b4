package geometry

import (
	"testing"

	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/disk/image"
	"github.com/bbcmicro/dfstools/types"
)

type memDevice struct {
	sectors [][]byte
}

func (m *memDevice) ReadBlock(lba uint32) ([]byte, bool, error) {
	if int(lba) >= len(m.sectors) {
		return nil, false, nil
	}
	return m.sectors[lba], true, nil
}

// fakeContainer mirrors rawContainer's plain/non-interleaved and
// interleaved sector-to-surface mapping, over an in-memory device
// instead of an opened file.
type fakeContainer struct {
	dev blockdev.BlockDevice
}

func (c *fakeContainer) Kind() image.Kind  { return image.KindRaw }
func (c *fakeContainer) Surfaces() int     { return 2 }
func (c *fakeContainer) Close() error      { return nil }
func (c *fakeContainer) Surface(n int, geom types.Geometry) (blockdev.BlockDevice, error) {
	perSide := uint32(geom.Cylinders * geom.SectorsPerTrack)
	spt := uint32(geom.SectorsPerTrack)
	if !geom.Interleaved {
		return &blockdev.FileView{Underlying: c.dev, InitialSkip: uint32(n) * perSide, Take: perSide, Leave: 0, Total: perSide}, nil
	}
	return &blockdev.FileView{Underlying: c.dev, InitialSkip: uint32(n) * spt, Take: spt, Leave: spt * uint32(geom.Heads-1), Total: perSide}, nil
}

var _ image.Container = (*fakeContainer)(nil)

// writeCatalog fills sectors[0] and sectors[1] with a minimal valid
// Acorn DFS root catalog declaring totalSectors, with no files.
func writeCatalog(sectors [][]byte, totalSectors int) {
	sec0 := make([]byte, 256)
	copy(sec0, "TEST    ")
	sec1 := make([]byte, 256)
	sec1[4] = 0 // sequence number
	sec1[5] = 0 // last entry offset: no files
	sec1[6] = byte((totalSectors >> 8) & 3)
	sec1[7] = byte(totalSectors & 0xFF)
	sectors[0] = sec0
	sectors[1] = sec1
}

func newImage(numSectors int) *memDevice {
	dev := &memDevice{sectors: make([][]byte, numSectors)}
	for i := range dev.sectors {
		dev.sectors[i] = make([]byte, 256)
	}
	return dev
}

// TestProbeIdentifies40TrackSingleSided builds an exactly-sized
// 40-track, single-sided, FM image and checks Probe recovers that
// geometry rather than some larger candidate.
func TestProbeIdentifies40TrackSingleSided(t *testing.T) {
	dev := newImage(400) // 40 * 10 spt
	writeCatalog(dev.sectors, 400)

	result, err := Probe(&fakeContainer{dev: dev}, "disk.ssd")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if result.Format != types.FormatAcorn {
		t.Errorf("Format = %v, want Acorn", result.Format)
	}
	if result.Geom.Cylinders != 40 || result.Geom.Heads != 1 || result.Geom.SectorsPerTrack != 10 {
		t.Errorf("Geom = %+v, want 40 cylinders/1 head/10 spt", result.Geom)
	}
}

// TestProbeIdentifies80TrackSingleSided is the same image format but
// an exactly-sized 80-track single-sided disk, distinguishing the two
// purely by size since a shorter candidate's declared total sectors
// wouldn't fit.
func TestProbeIdentifies80TrackSingleSided(t *testing.T) {
	dev := newImage(800) // 80 * 10 spt
	writeCatalog(dev.sectors, 800)

	result, err := Probe(&fakeContainer{dev: dev}, "disk.ssd")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if result.Format != types.FormatAcorn {
		t.Errorf("Format = %v, want Acorn", result.Format)
	}
	if result.Geom.Cylinders != 80 || result.Geom.Heads != 1 || result.Geom.SectorsPerTrack != 10 {
		t.Errorf("Geom = %+v, want 80 cylinders/1 head/10 spt", result.Geom)
	}
}
