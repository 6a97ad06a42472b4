package dfs

import (
	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

// windowedDevice restricts reads to [origin, origin+total), used to
// give each Opus DDOS sub-volume its own view of the surface even
// though its catalog lives at a disc-relative sector.
type windowedDevice struct {
	origin     uint32
	total      uint32
	underlying blockdev.BlockDevice
}

func (w *windowedDevice) ReadBlock(lba uint32) ([]byte, bool, error) {
	if lba >= w.total {
		return nil, false, nil
	}
	return w.underlying.ReadBlock(w.origin + lba)
}

// Volume is one mountable root: a catalog plus the data region its
// entries' sectors are read from. Every format but Opus DDOS has
// exactly one Volume per surface; Opus DDOS has up to eight, one per
// lettered sub-volume.
type Volume struct {
	Format         types.Format
	CatalogLoc     uint32
	DataOrigin     uint32
	TotalSectors   int
	Root           *Catalog
	dataRegion     blockdev.BlockDevice
}

// DataRegion is this volume's data-sector block device, windowed so
// that sector 0 of the view is the volume's first data sector
// (volume_data_origin in spec terms).
func (v *Volume) DataRegion() blockdev.BlockDevice { return v.dataRegion }

// FreeSpace reports sectors used and free the way *FREE does: used is
// the position just past the last file on the volume, not the sum of
// each file's own sector count, so sectors freed by a deleted file
// still count as used when a later file follows them. Used always
// covers at least the catalog itself.
func (v *Volume) FreeSpace() (usedSectors, freeSectors int) {
	used := catalogSectorsForFormat * len(v.Root.Fragments)
	for _, e := range v.Root.Entries() {
		if last := e.StartSector() + e.SectorCount(); last > used {
			used = last
		}
	}
	free := v.TotalSectors - used
	if free < 0 {
		free = 0
	}
	return used, free
}

// newVolume mounts one catalog at catalogLoc, with a data region
// windowed to [dataOrigin, dataOrigin+totalSectors).
func newVolume(dev blockdev.BlockDevice, format types.Format, catalogLoc uint32, dataOrigin uint32, totalSectors int) (*Volume, error) {
	cat, err := ReadCatalog(dev, format, catalogLoc)
	if err != nil {
		return nil, err
	}
	return &Volume{
		Format:       format,
		CatalogLoc:   catalogLoc,
		DataOrigin:   dataOrigin,
		TotalSectors: totalSectors,
		Root:         cat,
		dataRegion: &windowedDevice{
			origin:     dataOrigin,
			total:      uint32(totalSectors),
			underlying: dev,
		},
	}, nil
}

// FileSystem is a mounted surface: its format, geometry, the whole
// surface as a block device, and a map from subvolume letter to
// Volume (a single nil-keyed entry for every format but Opus DDOS).
type FileSystem struct {
	Format  types.Format
	Geom    types.Geometry
	Device  blockdev.BlockDevice
	volumes map[byte]*Volume // key 0 for the single unnamed volume
}

// DefaultVolumeLetter is Opus DDOS's default sub-volume when none is given.
const DefaultVolumeLetter = 'A'

// Mount builds a FileSystem for dev under the given format/geometry,
// initializing either a single unnamed Volume (Acorn/Watford/HDFS) or
// one Volume per listed Opus DDOS sub-volume.
func Mount(dev blockdev.BlockDevice, format types.Format, geom types.Geometry) (*FileSystem, error) {
	fs := &FileSystem{Format: format, Geom: geom, Device: dev, volumes: map[byte]*Volume{}}
	if format != types.FormatOpusDDOS {
		vol, err := newVolume(dev, format, 0, 0, geom.TotalSectors())
		if err != nil {
			return nil, err
		}
		fs.volumes[0] = vol
		return fs, nil
	}

	disc, err := ReadOpusDiscCatalogue(dev, &geom)
	if err != nil {
		return nil, err
	}
	for _, v := range disc.Volumes {
		vol, err := newVolume(dev, format, uint32(v.StartSector), uint32(v.StartSector), v.SectorCount)
		if err != nil {
			return nil, err
		}
		fs.volumes[v.Label] = vol
	}
	return fs, nil
}

// Subvolume returns the named volume (nil letter picks the single
// unnamed volume of a non-Opus filesystem; for Opus DDOS a 0 letter
// defaults to 'A').
func (fs *FileSystem) Subvolume(letter byte) (*Volume, error) {
	if fs.Format != types.FormatOpusDDOS {
		v, ok := fs.volumes[0]
		if !ok {
			return nil, dfserrors.MediaNotPresentf("no volume mounted")
		}
		return v, nil
	}
	if letter == 0 {
		letter = DefaultVolumeLetter
	}
	v, ok := fs.volumes[letter]
	if !ok {
		return nil, dfserrors.MediaNotPresentf("no Opus DDOS sub-volume %c on this disc", letter)
	}
	return v, nil
}

// Subvolumes lists the available subvolume letters (empty for
// non-Opus formats, since those have a single unnamed volume).
func (fs *FileSystem) Subvolumes() []byte {
	if fs.Format != types.FormatOpusDDOS {
		return nil
	}
	var out []byte
	for letter := range fs.volumes {
		out = append(out, letter)
	}
	return out
}
