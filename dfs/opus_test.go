package dfs

import (
	"testing"

	"github.com/bbcmicro/dfstools/types"
)

// opusDisc builds a sector-16 Opus DDOS volume table declaring two
// sub-volumes: 'A' starting at track 2, 'B' starting at track 5, on
// an 8-cylinder/10-sectors-per-track/80-total-sector medium.
func opusDisc() *fakeDevice {
	sec16 := make([]byte, 256)
	sec16[1] = 0  // total sectors hi
	sec16[2] = 80 // total sectors lo
	sec16[3] = 10 // sectors per track

	offset := 8
	for _, lbl := range "ABCDEFGH" {
		switch lbl {
		case 'A':
			sec16[offset] = 2
		case 'B':
			sec16[offset] = 5
		}
		offset += 2
	}
	return &fakeDevice{sectors: map[uint32][]byte{16: sec16}}
}

func TestReadOpusDiscCatalogueExtents(t *testing.T) {
	geom := types.Geometry{Cylinders: 8, Heads: 1, SectorsPerTrack: 10, Encoding: types.EncodingFM}
	disc, err := ReadOpusDiscCatalogue(opusDisc(), &geom)
	if err != nil {
		t.Fatalf("ReadOpusDiscCatalogue: %v", err)
	}
	if len(disc.Volumes) != 2 {
		t.Fatalf("len(Volumes) = %d, want 2", len(disc.Volumes))
	}

	a, ok := disc.Find('A')
	if !ok {
		t.Fatalf("Find('A'): not found")
	}
	if a.StartSector != 20 || a.SectorCount != 30 {
		t.Errorf("volume A = %+v, want StartSector=20 SectorCount=30", a)
	}

	b, ok := disc.Find('B')
	if !ok {
		t.Fatalf("Find('B'): not found")
	}
	if b.StartSector != 50 || b.SectorCount != 30 {
		t.Errorf("volume B = %+v, want StartSector=50 SectorCount=30", b)
	}

	if _, ok := disc.Find('C'); ok {
		t.Errorf("Find('C'): found a volume that was never declared")
	}
}

// TestReadOpusDiscCatalogueRejectsDoubleSided checks that a
// double-sided geometry is rejected outright, since sector 16's track
// numbers address a single linear surface.
func TestReadOpusDiscCatalogueRejectsDoubleSided(t *testing.T) {
	geom := types.Geometry{Cylinders: 8, Heads: 2, SectorsPerTrack: 10, Encoding: types.EncodingFM}
	_, err := ReadOpusDiscCatalogue(opusDisc(), &geom)
	if err == nil {
		t.Fatalf("ReadOpusDiscCatalogue: expected an error for a double-sided geometry")
	}
}
