// Package blockdev provides the block-device abstraction that every
// container opener and filesystem reader in this module is built on:
// read_block(lba) -> Option<[256]byte>, where the option's "none" case
// means "past end of media" rather than an error.
package blockdev

import (
	"io"
	"os"

	"github.com/bbcmicro/dfstools/dfserrors"
)

// SectorSize is the fixed size of an Acorn DFS sector.
const SectorSize = 256

// BlockDevice is the contract every container opener and filesystem
// reader is built on.
type BlockDevice interface {
	// ReadBlock reads the sector at the given logical block address.
	// ok is false, with a nil error, when lba is past the end of the
	// media - that is not itself an error condition.
	ReadBlock(lba uint32) (data []byte, ok bool, err error)
}

// OSFileDevice reads sectors directly from an *os.File (or any
// ReaderAt), treating the file as a flat run of SectorSize-byte
// sectors. A short read at EOF yields ok=false; a partial read at a
// non-EOF offset is padded with zero bytes, matching how emulator
// tools treat truncated images.
type OSFileDevice struct {
	r      io.ReaderAt
	closer io.Closer
	path   string
	size   int64
}

// NewOSFileDevice wraps an open file as a BlockDevice. path is used
// only to annotate I/O errors. If r also implements io.Closer (as
// *os.File does), Close releases it; otherwise Close is a no-op.
func NewOSFileDevice(r io.ReaderAt, path string, size int64) *OSFileDevice {
	d := &OSFileDevice{r: r, path: path, size: size}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}
	return d
}

// Open opens path and wraps it as an OSFileDevice.
func Open(path string) (*OSFileDevice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dfserrors.FileIOErrorf(path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, dfserrors.FileIOErrorf(path, err)
	}
	return NewOSFileDevice(f, path, info.Size()), nil
}

// Close releases the underlying OS file handle, if any.
func (d *OSFileDevice) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// ReadBlock implements BlockDevice.
func (d *OSFileDevice) ReadBlock(lba uint32) ([]byte, bool, error) {
	offset := int64(lba) * SectorSize
	if offset >= d.size {
		return nil, false, nil
	}
	buf := make([]byte, SectorSize)
	n, err := d.r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, false, dfserrors.FileIOErrorf(d.path, err)
	}
	if n < SectorSize {
		// Partial read at a non-EOF offset: zero-pad, per spec.
		for i := n; i < SectorSize; i++ {
			buf[i] = 0
		}
	}
	return buf, true, nil
}

// Size returns the total byte length of the underlying device.
func (d *OSFileDevice) Size() int64 {
	return d.size
}

// MemoryDevice is a BlockDevice backed entirely by an in-memory byte
// slice. A final partial sector is returned zero-padded.
type MemoryDevice struct {
	Data []byte
}

// NewMemoryDevice wraps data as a BlockDevice.
func NewMemoryDevice(data []byte) *MemoryDevice {
	return &MemoryDevice{Data: data}
}

// ReadBlock implements BlockDevice.
func (d *MemoryDevice) ReadBlock(lba uint32) ([]byte, bool, error) {
	start := int(lba) * SectorSize
	if start >= len(d.Data) {
		return nil, false, nil
	}
	end := start + SectorSize
	buf := make([]byte, SectorSize)
	if end > len(d.Data) {
		copy(buf, d.Data[start:])
	} else {
		copy(buf, d.Data[start:end])
	}
	return buf, true, nil
}

// Size returns the total byte length of the underlying buffer.
func (d *MemoryDevice) Size() int64 {
	return int64(len(d.Data))
}

var _ BlockDevice = (*OSFileDevice)(nil)
var _ BlockDevice = (*MemoryDevice)(nil)
