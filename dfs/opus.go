package dfs

import (
	"sort"

	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

// OpusVolume is one of an Opus DDOS disc's up to eight sub-volumes, as
// listed in the per-volume catalog at sector 16.
type OpusVolume struct {
	Label             byte // 'A'..'H'
	CatalogSector     int  // within the sector-16 list, 2 bytes apart
	StartSector       int
	SectorCount       int
}

// OpusDiscCatalogue is the parsed sector-16 volume table: the
// starting track of each of up to eight lettered sub-volumes, sorted
// by start sector, with each volume's extent computed as "up to the
// next volume's start, or the end of the disc".
type OpusDiscCatalogue struct {
	TotalSectors    int
	SectorsPerTrack int
	Volumes         []OpusVolume
}

// ReadOpusDiscCatalogue reads and validates sector 16. When geom is
// non-nil it rejects a geometry with more than one head and
// cross-checks the catalogue's declared total sectors and
// sectors-per-track against it.
func ReadOpusDiscCatalogue(dev blockdev.BlockDevice, geom *types.Geometry) (*OpusDiscCatalogue, error) {
	sector, ok, err := dev.ReadBlock(16)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dfserrors.BadFileSystemf("inaccessible Opus DDOS disc catalogue")
	}

	total := int(sector[1])<<8 | int(sector[2])
	spt := int(sector[3])

	if geom != nil {
		if geom.Heads > 1 {
			return nil, dfserrors.OpusUnsupportedf("Opus DDOS on a %d-head medium is not supported; its track numbers address a single linear surface", geom.Heads)
		}
		if total != geom.TotalSectors() {
			return nil, dfserrors.BadFileSystemf(
				"inconsistent total sector count (%d from sector 16, %d from geometry) in Opus DDOS disc catalogue",
				total, geom.TotalSectors())
		}
		if spt != geom.SectorsPerTrack {
			return nil, dfserrors.BadFileSystemf("inconsistent sectors-per-track in Opus DDOS disc catalogue")
		}
	}

	c := &OpusDiscCatalogue{TotalSectors: total, SectorsPerTrack: spt}
	labels := "ABCDEFGH"
	offset := 8
	for i := 0; i < len(labels); i++ {
		track := int(sector[offset])
		offset += 2
		if track == 0 {
			continue
		}
		if geom != nil && track >= geom.Cylinders {
			return nil, dfserrors.BadFileSystemf(
				"Opus DDOS volume %c has starting track %d but the disc only has %d tracks",
				labels[i], track, geom.Cylinders)
		}
		c.Volumes = append(c.Volumes, OpusVolume{
			Label:         labels[i],
			CatalogSector: i * 2,
			StartSector:   track * spt,
		})
	}

	sort.Slice(c.Volumes, func(i, j int) bool {
		return c.Volumes[i].StartSector < c.Volumes[j].StartSector
	})

	next := total
	for i := len(c.Volumes) - 1; i >= 0; i-- {
		v := &c.Volumes[i]
		if next < v.StartSector {
			return nil, dfserrors.BadFileSystemf(
				"Opus DDOS volume %c has starting sector %d but the disc only has %d sectors",
				v.Label, v.StartSector, total)
		}
		v.SectorCount = next - v.StartSector
		next = v.StartSector
	}

	return c, nil
}

// Find returns the volume with the given label, if present.
func (c *OpusDiscCatalogue) Find(label byte) (OpusVolume, bool) {
	for _, v := range c.Volumes {
		if v.Label == label {
			return v, true
		}
	}
	return OpusVolume{}, false
}

// MapSectors marks sector 16 (the disc catalogue) and sector 17
// (reserved) in the sector-ownership view; each volume's own catalog
// registers itself separately via Catalog.MapSectors.
func (c *OpusDiscCatalogue) MapSectors(out []SectorOwner) {
	if len(out) > 16 {
		out[16] = SectorOwner{Self: true}
	}
	if len(out) > 17 {
		out[17] = SectorOwner{Self: true}
	}
}
