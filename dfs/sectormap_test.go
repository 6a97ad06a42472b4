package dfs

import (
	"testing"

	"github.com/bbcmicro/dfstools/types"
)

// TestSectorMapMinimalDisc walks the same minimal-disc fixture
// catalog_test.go uses (catalog at sectors 0-1, one file's single
// sector at 2, 80 total sectors) through a full Mount and checks the
// resulting sector-ownership view marks exactly those and nothing
// else.
func TestSectorMapMinimalDisc(t *testing.T) {
	dev := minimalDisc()
	geom := types.Geometry{Cylinders: 8, Heads: 1, SectorsPerTrack: 10, Encoding: types.EncodingFM}
	fs, err := Mount(dev, types.FormatAcorn, geom)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	view := fs.SectorMap()
	if len(view) != 80 {
		t.Fatalf("len(SectorMap()) = %d, want 80", len(view))
	}
	for i, o := range view {
		switch {
		case i == 0 || i == 1:
			if !o.Self {
				t.Errorf("sector %d: Self = false, want true (catalog)", i)
			}
		case i == 2:
			if o.Entry == nil {
				t.Errorf("sector %d: Entry = nil, want the file entry", i)
			}
		default:
			if o.Self || o.Entry != nil {
				t.Errorf("sector %d: want free, got Self=%v Entry=%v", i, o.Self, o.Entry)
			}
		}
	}

	if free := FreeSectors(view); free != 77 {
		t.Errorf("FreeSectors() = %d, want 77", free)
	}
}
