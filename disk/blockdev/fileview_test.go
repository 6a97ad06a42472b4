package blockdev

import (
	"reflect"
	"testing"
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

func newMemDevice(n int) *memDevice {
	m := &memDevice{sectors: make([][]byte, n)}
	for i := range m.sectors {
		sec := make([]byte, SectorSize)
		for j := range sec {
			sec[j] = byte(i)
		}
		m.sectors[i] = sec
	}
	return m
}

// TestFileViewIdentity checks that FileView(skip=0, take=N, leave=0,
// total=N) is the identity transform: view.ReadBlock(i) ==
// underlying.ReadBlock(i) for all i < N.
func TestFileViewIdentity(t *testing.T) {
	const n = 40
	underlying := newMemDevice(n)
	view := &FileView{Underlying: underlying, InitialSkip: 0, Take: n, Leave: 0, Total: n}

	for i := 0; i < n; i++ {
		want, _, err := underlying.ReadBlock(uint32(i))
		if err != nil {
			t.Fatalf("underlying.ReadBlock(%d): %v", i, err)
		}
		got, ok, err := view.ReadBlock(uint32(i))
		if err != nil {
			t.Fatalf("view.ReadBlock(%d): %v", i, err)
		}
		if !ok {
			t.Fatalf("view.ReadBlock(%d): ok=false", i)
		}
		if !reflect.DeepEqual(want, got) {
			t.Errorf("sector %d: view and underlying differ: %v != %v", i, want, got)
		}
	}

	if _, ok, _ := view.ReadBlock(n); ok {
		t.Errorf("ReadBlock(%d): expected ok=false past end of media", n)
	}
}

// TestFileViewInterleave checks the track-interleaved mapping used
// for DSD/DDD images: side 1's track 0 sits right after side 0's.
func TestFileViewInterleave(t *testing.T) {
	const spt = 10
	const tracks = 4
	underlying := newMemDevice(spt * tracks * 2)

	side0 := &FileView{Underlying: underlying, InitialSkip: 0, Take: spt, Leave: spt, Total: spt * tracks}
	side1 := &FileView{Underlying: underlying, InitialSkip: spt, Take: spt, Leave: spt, Total: spt * tracks}

	// Side 0 track 1, sector 0 should be underlying sector 2*spt (after
	// side 0 track 0's spt sectors and side 1 track 0's spt sectors).
	got, ok, err := side0.ReadBlock(spt)
	if err != nil || !ok {
		t.Fatalf("side0.ReadBlock(%d): ok=%v err=%v", spt, ok, err)
	}
	want, _, _ := underlying.ReadBlock(2 * spt)
	if !reflect.DeepEqual(want, got) {
		t.Errorf("side0 track 1 sector 0: %v != %v", want, got)
	}

	got, ok, err = side1.ReadBlock(0)
	if err != nil || !ok {
		t.Fatalf("side1.ReadBlock(0): ok=%v err=%v", ok, err)
	}
	want, _, _ = underlying.ReadBlock(spt)
	if !reflect.DeepEqual(want, got) {
		t.Errorf("side1 track 0 sector 0: %v != %v", want, got)
	}
}
