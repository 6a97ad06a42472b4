package image

import (
	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

// MMB layout constants: 32 reserved sectors hold a header plus one
// 16-byte slot record per disc image, followed by 511 slots of
// 80 tracks * 10 sectors each.
const (
	mmbReservedSectors = 32
	mmbSlotSectors     = 80 * 10
	mmbNumSlots        = 511
	mmbSlotRecordBytes = 16
)

// SlotStatus is the byte-15 value of an MMB slot record.
type SlotStatus byte

const (
	SlotReadOnly    SlotStatus = 0x00
	SlotReadWrite   SlotStatus = 0x0F
	SlotUnformatted SlotStatus = 0xF0
	SlotMissing     SlotStatus = 0xFF
)

func (s SlotStatus) String() string {
	switch s {
	case SlotReadOnly:
		return "read-only"
	case SlotReadWrite:
		return "read-write"
	case SlotUnformatted:
		return "unformatted"
	default:
		return "missing"
	}
}

type mmbContainer struct {
	dev   sizedDevice
	close func() error
}

func (c *mmbContainer) Kind() Kind    { return KindMMB }
func (c *mmbContainer) Surfaces() int { return mmbNumSlots }
func (c *mmbContainer) Close() error  { return c.close() }

// SlotStatusOf reads the status byte for slot n (0-based, 0..510)
// without materializing a BlockDevice for it.
func (c *mmbContainer) SlotStatusOf(n int) (SlotStatus, error) {
	if n < 0 || n >= mmbNumSlots {
		return 0, dfserrors.MediaNotPresentf("MMB slot %d out of range", n)
	}
	recordOffset := mmbSlotRecordBytes + n*mmbSlotRecordBytes
	sector := uint32(recordOffset / blockdev.SectorSize)
	byteInSector := recordOffset % blockdev.SectorSize
	data, ok, err := c.dev.ReadBlock(sector)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, dfserrors.BadFileSystemf("MMB header is truncated before slot %d's record", n)
	}
	return SlotStatus(data[byteInSector+15]), nil
}

// Surface treats slot n as a single-sided surface of the fixed
// 80-track/10-sector extent every MMB slot occupies. geom is not
// consulted: every slot is exposed as 800 sectors whatever geometry
// is passed.
func (c *mmbContainer) Surface(n int, geom types.Geometry) (blockdev.BlockDevice, error) {
	if n < 0 || n >= mmbNumSlots {
		return nil, dfserrors.MediaNotPresentf("MMB slot %d out of range", n)
	}
	status, err := c.SlotStatusOf(n)
	if err != nil {
		return nil, err
	}
	if status == SlotMissing || status == SlotUnformatted {
		return nil, dfserrors.MediaNotPresentf("MMB slot %d is %s", n, status)
	}
	return &blockdev.FileView{
		Underlying:  c.dev,
		InitialSkip: mmbReservedSectors + uint32(n)*mmbSlotSectors,
		Take:        mmbSlotSectors,
		Leave:       0,
		Total:       mmbSlotSectors,
	}, nil
}

var _ Container = (*mmbContainer)(nil)
