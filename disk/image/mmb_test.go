package image

import (
	"bytes"
	"os"
	"testing"

	"github.com/bbcmicro/dfstools/types"
)

// TestMMBSlotMapping checks the slot-addressing scenario: a header
// marking slot 3 read-write (status 0x0F), and slot 3's data starting
// at sector 32 + 3*800, per the MMB container layout.
func TestMMBSlotMapping(t *testing.T) {
	const slot = 3
	const slotDataSector = mmbReservedSectors + slot*mmbSlotSectors
	fileSectors := slotDataSector + 1

	buf := make([]byte, fileSectors*256)
	recordOffset := mmbSlotRecordBytes + slot*mmbSlotRecordBytes
	buf[recordOffset+15] = byte(SlotReadWrite)

	marker := bytes.Repeat([]byte{0xA5}, 256)
	copy(buf[slotDataSector*256:], marker)

	f, err := os.CreateTemp(t.TempDir(), "disk*.mmb")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	if _, err := f.Write(buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if c.Kind() != KindMMB {
		t.Fatalf("Kind() = %v, want KindMMB", c.Kind())
	}

	dev, err := c.Surface(slot, types.Geometry{Cylinders: 80, Heads: 1, SectorsPerTrack: 10, Encoding: types.EncodingFM})
	if err != nil {
		t.Fatalf("Surface(%d): %v", slot, err)
	}
	data, ok, err := dev.ReadBlock(0)
	if err != nil || !ok {
		t.Fatalf("ReadBlock(0): ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, marker) {
		t.Errorf("slot %d sector 0 = %v, want %v", slot, data, marker)
	}
}
