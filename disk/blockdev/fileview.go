package blockdev

// FileView presents a windowed/interleaved transform of an underlying
// BlockDevice as its own BlockDevice. The mapping is:
//
//	lba -> initialSkip + (lba/take)*(take+leave) + lba%take
//
// This single parametrization supports:
//   - plain SSD:        take=total, leave=0
//   - interleaved DSD:  take=sectorsPerTrack, leave=sectorsPerTrack,
//     skip=0 for side 0, skip=sectorsPerTrack for side 1
//   - MMB slot N:       initialSkip = reservedHeaderSectors + N*slotSectors
//   - unformatted:      take=0; all reads return ok=false
type FileView struct {
	Underlying  BlockDevice
	InitialSkip uint32
	Take        uint32
	Leave       uint32
	Total       uint32
}

// ReadBlock implements BlockDevice.
func (v *FileView) ReadBlock(lba uint32) ([]byte, bool, error) {
	if v.Take == 0 {
		return nil, false, nil
	}
	if lba >= v.Total {
		return nil, false, nil
	}
	underlyingLBA := v.InitialSkip + (lba/v.Take)*(v.Take+v.Leave) + lba%v.Take
	return v.Underlying.ReadBlock(underlyingLBA)
}

var _ BlockDevice = (*FileView)(nil)
