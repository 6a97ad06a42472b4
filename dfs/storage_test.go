package dfs

import (
	"reflect"
	"testing"

	"github.com/bbcmicro/dfstools/types"
)

func TestConnectDrivesAllocationFirst(t *testing.T) {
	sc := NewStorageConfiguration()
	ok := sc.ConnectDrives([]*DriveConfig{{}, {}}, types.AllocationFirst)
	if !ok {
		t.Fatalf("ConnectDrives: expected success")
	}
	if got := sc.OccupiedSurfaces(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("OccupiedSurfaces() = %v, want [0 1]", got)
	}

	ok = sc.ConnectDrives([]*DriveConfig{{}}, types.AllocationFirst)
	if !ok {
		t.Fatalf("ConnectDrives (second call): expected success")
	}
	if got := sc.OccupiedSurfaces(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("OccupiedSurfaces() after second connect = %v, want [0 1 2]", got)
	}
}

// TestConnectDrivesAllocationPhysical checks that a double-sided
// drive occupies an (n, n+2) pair the way a physical BBC drive
// numbering does, and that a second drive is placed at the next free
// pair rather than interleaving into the first's surfaces.
func TestConnectDrivesAllocationPhysical(t *testing.T) {
	sc := NewStorageConfiguration()
	if ok := sc.ConnectDrives([]*DriveConfig{{}, {}}, types.AllocationPhysical); !ok {
		t.Fatalf("ConnectDrives: expected success")
	}
	if got := sc.OccupiedSurfaces(); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("OccupiedSurfaces() = %v, want [0 2]", got)
	}

	if ok := sc.ConnectDrives([]*DriveConfig{{}, {}}, types.AllocationPhysical); !ok {
		t.Fatalf("ConnectDrives (second drive): expected success")
	}
	if got := sc.OccupiedSurfaces(); !reflect.DeepEqual(got, []int{0, 2, 4, 6}) {
		t.Errorf("OccupiedSurfaces() after second drive = %v, want [0 2 4 6]", got)
	}
}

// TestMountNonOpus wires the minimal-disc fixture through a
// StorageConfiguration end to end: connect, Mount, check the mounted
// volume and that Subvolumes is empty for a non-Opus format.
func TestMountNonOpus(t *testing.T) {
	dev := minimalDisc()
	format := types.FormatAcorn
	sc := NewStorageConfiguration()
	sc.ConnectDrives([]*DriveConfig{{
		Format: &format,
		Geom:   types.Geometry{Cylinders: 40, Heads: 1, SectorsPerTrack: 10, Encoding: types.EncodingFM},
		Device: dev,
	}}, types.AllocationFirst)

	fs, vol, err := sc.Mount(VolumeSelector{Surface: 0})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if vol.Root.Title() != "HELLO" {
		t.Errorf("Title() = %q, want HELLO", vol.Root.Title())
	}
	if subs := fs.Subvolumes(); subs != nil {
		t.Errorf("Subvolumes() = %v, want nil for a non-Opus format", subs)
	}

	if _, _, err := sc.Mount(VolumeSelector{Surface: 1}); err == nil {
		t.Errorf("Mount(surface 1): expected an error, no disc connected there")
	}
}
