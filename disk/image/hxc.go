package image

import (
	"encoding/binary"

	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/disk/track"
	"github.com/bbcmicro/dfstools/types"
)

const (
	hxcSignature   = "HXCMFM\x00"
	hxcHeaderBytes = 19
	hxcEntryBytes  = 11
)

type hxcTrackEntry struct {
	track  uint16
	side   byte
	size   uint32
	offset uint32
}

type hxcContainer struct {
	dev     sizedDevice
	close   func() error
	tracks  int
	sides   int
	entries []hxcTrackEntry
	cache   map[int][]track.Sector
}

func newHxCContainer(dev sizedDevice, closer func() error) (*hxcContainer, error) {
	header, ok, err := dev.ReadBlock(0)
	if err != nil {
		return nil, err
	}
	if !ok || len(header) < hxcHeaderBytes {
		return nil, dfserrors.BadFileSystemf("HxC MFM header is truncated")
	}
	tracks := int(binary.LittleEndian.Uint16(header[7:9]))
	sides := int(header[9])
	listOffset := binary.LittleEndian.Uint32(header[15:19])

	n := tracks * sides
	entries := make([]hxcTrackEntry, 0, n)
	needed := int(listOffset) + n*hxcEntryBytes
	buf := make([]byte, 0, needed)
	for sector := uint32(0); len(buf) < needed; sector++ {
		data, ok, err := dev.ReadBlock(sector)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, dfserrors.BadFileSystemf("HxC MFM track list runs past end of file")
		}
		buf = append(buf, data...)
	}
	list := buf[listOffset:needed]
	for i := 0; i < n; i++ {
		e := list[i*hxcEntryBytes : (i+1)*hxcEntryBytes]
		entries = append(entries, hxcTrackEntry{
			track:  binary.LittleEndian.Uint16(e[0:2]),
			side:   e[2],
			size:   binary.LittleEndian.Uint32(e[3:7]),
			offset: binary.LittleEndian.Uint32(e[7:11]),
		})
	}

	return &hxcContainer{
		dev: dev, close: closer, tracks: tracks, sides: sides,
		entries: entries, cache: make(map[int][]track.Sector),
	}, nil
}

func (c *hxcContainer) Kind() Kind    { return KindHxCMFM }
func (c *hxcContainer) Surfaces() int { return c.sides }
func (c *hxcContainer) Close() error  { return c.close() }

func (c *hxcContainer) findEntry(cylinder, side int) (hxcTrackEntry, bool) {
	for _, e := range c.entries {
		if int(e.track) == cylinder && int(e.side) == side {
			return e, true
		}
	}
	return hxcTrackEntry{}, false
}

func (c *hxcContainer) readTrackRaw(cylinder, side int) ([]byte, error) {
	e, ok := c.findEntry(cylinder, side)
	if !ok {
		return nil, dfserrors.BadFileSystemf("HxC MFM track %d side %d not found", cylinder, side)
	}
	startSector := e.offset / blockdev.SectorSize
	nSectors := (e.size + blockdev.SectorSize - 1) / blockdev.SectorSize
	raw := make([]byte, 0, e.size)
	for i := uint32(0); i < nSectors; i++ {
		sector, ok, err := c.dev.ReadBlock(startSector + i)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, dfserrors.BadFileSystemf("HxC MFM track %d side %d data runs past end of file", cylinder, side)
		}
		raw = append(raw, sector...)
	}
	if uint32(len(raw)) > e.size {
		raw = raw[:e.size]
	}
	for i, b := range raw {
		raw[i] = reverseBits(b)
	}
	return raw, nil
}

func (c *hxcContainer) decodedTrack(cylinder, side int) ([]track.Sector, error) {
	key := cylinder*c.sides + side
	if sectors, ok := c.cache[key]; ok {
		return sectors, nil
	}
	raw, err := c.readTrackRaw(cylinder, side)
	if err != nil {
		return nil, err
	}
	dec := track.NewDecoder(types.EncodingMFM, false)
	sectors := dec.Decode(raw)
	sectors = track.ValidateTrack(sectors, byte(cylinder), byte(side), blockdev.SectorSize)
	c.cache[key] = sectors
	return sectors, nil
}

type hxcDevice struct {
	c    *hxcContainer
	side int
	geom types.Geometry
}

func (d *hxcDevice) ReadBlock(lba uint32) ([]byte, bool, error) {
	spt := uint32(d.geom.SectorsPerTrack)
	cylinder := int(lba / spt)
	record := byte(lba % spt)
	if cylinder >= d.geom.Cylinders {
		return nil, false, nil
	}
	sectors, err := d.c.decodedTrack(cylinder, d.side)
	if err != nil {
		return nil, false, err
	}
	for _, s := range sectors {
		if s.Address.Record == record {
			return s.Data, true, nil
		}
	}
	return nil, false, dfserrors.BadFileSystemf("no sector %d found on cylinder %d side %d", record, cylinder, d.side)
}

func (c *hxcContainer) Surface(n int, geom types.Geometry) (blockdev.BlockDevice, error) {
	if n < 0 || n >= c.sides {
		return nil, dfserrors.MediaNotPresentf("HxC MFM side %d is not present on this medium", n)
	}
	return &hxcDevice{c: c, side: n, geom: geom}, nil
}

var _ Container = (*hxcContainer)(nil)
