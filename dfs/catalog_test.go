package dfs

import (
	"testing"

	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

type fakeDevice struct {
	sectors map[uint32][]byte
}

func (f *fakeDevice) ReadBlock(lba uint32) ([]byte, bool, error) {
	s, ok := f.sectors[lba]
	if !ok {
		return nil, false, nil
	}
	return s, true, nil
}

// minimalDisc builds the exact fixture from the catalog-parse
// end-to-end scenario: title "HELLO", one entry "$.PROG", load/exec
// 0x1900, length 0x100, start sector 2, total sectors 0x050.
func minimalDisc() blockdev.BlockDevice {
	sec0 := make([]byte, 256)
	copy(sec0, "HELLO   ")
	copy(sec0[8:16], "PROG   $") // name "PROG   " + dir '$'

	sec1 := make([]byte, 256)
	// title continuation: none
	sec1[4] = 0          // sequence number
	sec1[5] = 8          // last entry offset
	sec1[6] = 0          // boot=0, total-sectors hi bits = 0
	sec1[7] = 0x50       // total sectors lo = 0x050
	// entry metadata at offset 8: load=0x1900, exec=0x1900, length=0x100, start=2
	sec1[8] = 0x00  // load lo
	sec1[9] = 0x19  // load hi byte of word
	sec1[10] = 0x00 // exec lo
	sec1[11] = 0x19 // exec hi byte of word
	sec1[12] = 0x00 // length lo
	sec1[13] = 0x01 // length hi byte of word
	sec1[14] = 0x00 // packed hi-bits: start/load/length/exec all fit in 16 bits already
	sec1[15] = 0x02 // start sector lo = 2

	return &fakeDevice{sectors: map[uint32][]byte{0: sec0, 1: sec1}}
}

func TestCatalogMinimalDiscScenario(t *testing.T) {
	dev := minimalDisc()
	cat, err := ReadCatalog(dev, types.FormatAcorn, 0)
	if err != nil {
		t.Fatalf("ReadCatalog: %v", err)
	}
	if cat.Title() != "HELLO" {
		t.Errorf("Title() = %q, want %q", cat.Title(), "HELLO")
	}
	if cat.TotalSectors() != 0x050 {
		t.Errorf("TotalSectors() = %#x, want %#x", cat.TotalSectors(), 0x050)
	}
	entries := cat.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Name() != "PROG" || e.Directory() != '$' {
		t.Errorf("entry = %c.%s, want $.PROG", e.Directory(), e.Name())
	}
	if e.LoadAddress() != 0x1900 || e.ExecAddress() != 0x1900 {
		t.Errorf("load/exec = %#x/%#x, want 0x1900/0x1900", e.LoadAddress(), e.ExecAddress())
	}
	if e.Length() != 0x100 {
		t.Errorf("Length() = %#x, want 0x100", e.Length())
	}
	if e.StartSector() != 2 {
		t.Errorf("StartSector() = %d, want 2", e.StartSector())
	}
	if e.SectorCount() != 1 {
		t.Errorf("SectorCount() = %d, want 1 (0x100 bytes fits one sector)", e.SectorCount())
	}

	if err := cat.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	// *FREE's definition of "used": the position just past the last
	// file, not the sum of each file's own sector count - here both
	// give 2 sectors (catalog) + 1 (the file) = 3, a coincidence only
	// because the file starts immediately after the catalog.
	usedSectors := catalogSectorsForFormat
	for _, e := range entries {
		if last := e.StartSector() + e.SectorCount(); last > usedSectors {
			usedSectors = last
		}
	}
	freeSectors := cat.TotalSectors() - usedSectors
	if usedSectors != 3 {
		t.Errorf("used sectors = %d, want 3", usedSectors)
	}
	if freeSectors != 0x050-3 {
		t.Errorf("free sectors = %d, want %d", freeSectors, 0x050-3)
	}
}

// TestCatalogValidateCatchesOverrun checks the universal invariant
// that every entry's sectors fit within the catalog's total.
func TestCatalogValidateCatchesOverrun(t *testing.T) {
	dev := minimalDisc().(*fakeDevice)
	sec1 := dev.sectors[1]
	sec1[7] = 2 // shrink total sectors to below the entry's own extent
	cat, err := ReadCatalog(dev, types.FormatAcorn, 0)
	if err != nil {
		t.Fatalf("ReadCatalog: %v", err)
	}
	if err := cat.Validate(); err == nil {
		t.Errorf("Validate() = nil, want an overrun error")
	}
}
