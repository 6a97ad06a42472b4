package dfs

import (
	"strings"
	"testing"

	"github.com/bbcmicro/dfstools/types"
	"github.com/kr/pretty"
)

// TestVolumeFreeSpaceMinimalDisc is spec scenario 3: a single 256-byte
// file at start sector 2 on an 0x050-sector disc reports 3 sectors
// used (the catalog, extended to cover the file) and 77 free.
func TestVolumeFreeSpaceMinimalDisc(t *testing.T) {
	dev := minimalDisc()
	cat, err := ReadCatalog(dev, types.FormatAcorn, 0)
	if err != nil {
		t.Fatalf("ReadCatalog: %v", err)
	}
	vol := &Volume{
		Format:       types.FormatAcorn,
		TotalSectors: cat.TotalSectors(),
		Root:         cat,
	}

	used, free := vol.FreeSpace()
	type result struct{ Used, Free int }
	got := result{used, free}
	want := result{Used: 3, Free: 0x050 - 3}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("FreeSpace() mismatch: %s", strings.Join(diff, "; "))
	}
}
