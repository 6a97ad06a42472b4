package blockdev

import (
	"compress/gzip"
	"io"
	"os"

	"github.com/bbcmicro/dfstools/dfserrors"
)

// GzipDevice inflates a gzip-compressed container once, into a temp
// file, and then behaves exactly like an OSFileDevice over the
// inflated contents.
type GzipDevice struct {
	*OSFileDevice
	tempFile *os.File
}

// OpenGzip inflates the gzip stream at path into a temp file and wraps
// it as a BlockDevice.
func OpenGzip(path string) (*GzipDevice, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, dfserrors.FileIOErrorf(path, err)
	}
	defer src.Close()

	zr, err := gzip.NewReader(src)
	if err != nil {
		return nil, dfserrors.FileIOErrorf(path, err)
	}
	defer zr.Close()

	tmp, err := os.CreateTemp("", "dfstools-gunzip-*")
	if err != nil {
		return nil, dfserrors.NonFileOsErrorf(err)
	}
	if _, err := io.Copy(tmp, zr); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, dfserrors.FileIOErrorf(path, err)
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, dfserrors.NonFileOsErrorf(err)
	}
	return &GzipDevice{
		OSFileDevice: NewOSFileDevice(tmp, tmp.Name(), info.Size()),
		tempFile:     tmp,
	}, nil
}

// Close removes the backing temp file.
func (d *GzipDevice) Close() error {
	d.tempFile.Close()
	return os.Remove(d.tempFile.Name())
}
