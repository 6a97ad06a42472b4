package image

import (
	"encoding/binary"

	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/disk/track"
	"github.com/bbcmicro/dfstools/types"
)

const (
	hfeV1Signature = "HXCPICFE"
	hfeV3Signature = "HXCHFEV3"
	hfeHeaderBytes = 512
	hfeLUTOffset   = 512
	hfeBlockBytes  = 256 // one side's chunk within a track's interleaved data
)

// HFE global track-encoding ids that matter here; everything else is
// rejected, since this module only decodes Acorn FM/MFM discs.
const (
	hfeEncISOIBMFM  = 0x00
	hfeEncISOIBMMFM = 0x02
	hfeEncUnknown   = 0xFF
)

type hfeContainer struct {
	dev     sizedDevice
	close   func() error
	v3      bool
	tracks  int
	sides   int
	enc     types.Encoding
	lutOff  []uint32 // byte offset of each track's data
	lutLen  []uint32 // byte length of each track's data
	cache   map[int][]track.Sector // keyed by cylinder*sides+side
}

func newHFEContainer(dev sizedDevice, closer func() error) (*hfeContainer, error) {
	header, ok, err := dev.ReadBlock(0)
	if err != nil {
		return nil, err
	}
	if !ok || len(header) < hfeHeaderBytes {
		return nil, dfserrors.BadFileSystemf("HFE header is truncated")
	}
	v3 := string(header[:8]) == hfeV3Signature
	tracks := int(header[9])
	sides := int(header[10])
	encID := header[11]

	var enc types.Encoding
	switch encID {
	case hfeEncISOIBMFM:
		enc = types.EncodingFM
	case hfeEncISOIBMMFM:
		enc = types.EncodingMFM
	default:
		return nil, dfserrors.Unrecognizedf("HFE global encoding id 0x%02X is not an Acorn-compatible FM/MFM encoding", encID)
	}

	lutSector, ok, err := dev.ReadBlock(hfeLUTOffset / blockdev.SectorSize)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dfserrors.BadFileSystemf("HFE track LUT is missing")
	}
	lutOff := make([]uint32, tracks)
	lutLen := make([]uint32, tracks)
	for i := 0; i < tracks; i++ {
		entry := lutSector[i*4 : i*4+4]
		lutOff[i] = uint32(binary.LittleEndian.Uint16(entry[0:2])) * 512
		lutLen[i] = uint32(binary.LittleEndian.Uint16(entry[2:4]))
	}

	return &hfeContainer{
		dev: dev, close: closer, v3: v3, tracks: tracks, sides: sides,
		enc: enc, lutOff: lutOff, lutLen: lutLen,
		cache: make(map[int][]track.Sector),
	}, nil
}

func (c *hfeContainer) Kind() Kind    { return KindHFE }
func (c *hfeContainer) Surfaces() int { return c.sides }
func (c *hfeContainer) Close() error  { return c.close() }

// readTrackRaw reads and bit-reverses one track's interleaved raw
// bytes (HFE stores bits LSB-first; every decoder in this module
// expects MSB-first), returning the requested side's bytes only.
func (c *hfeContainer) readTrackRaw(cylinder, side int) ([]byte, error) {
	if cylinder < 0 || cylinder >= c.tracks {
		return nil, dfserrors.BadFileSystemf("HFE track %d out of range", cylinder)
	}
	length := c.lutLen[cylinder]
	offset := c.lutOff[cylinder]
	startSector := offset / blockdev.SectorSize
	nSectors := (length + blockdev.SectorSize - 1) / blockdev.SectorSize
	raw := make([]byte, 0, length)
	for i := uint32(0); i < nSectors; i++ {
		sector, ok, err := c.dev.ReadBlock(startSector + i)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, dfserrors.BadFileSystemf("HFE track %d data runs past end of file", cylinder)
		}
		raw = append(raw, sector...)
	}
	if uint32(len(raw)) > length {
		raw = raw[:length]
	}

	var sideBytes []byte
	for pos := 0; pos < len(raw); pos += hfeBlockBytes * 2 {
		end0 := pos + hfeBlockBytes
		if end0 > len(raw) {
			end0 = len(raw)
		}
		if side == 0 {
			sideBytes = append(sideBytes, raw[pos:end0]...)
		}
		start1 := pos + hfeBlockBytes
		if start1 >= len(raw) {
			break
		}
		end1 := start1 + hfeBlockBytes
		if end1 > len(raw) {
			end1 = len(raw)
		}
		if side == 1 {
			sideBytes = append(sideBytes, raw[start1:end1]...)
		}
	}

	for i, b := range sideBytes {
		sideBytes[i] = reverseBits(b)
	}
	if c.v3 {
		sideBytes = stripHFEv3Opcodes(sideBytes)
	}
	return sideBytes, nil
}

// reverseBits reverses the bit order of one byte.
func reverseBits(b byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		out <<= 1
		out |= b & 1
		b >>= 1
	}
	return out
}

// stripHFEv3Opcodes removes HFE v3's in-band control opcodes from an
// already bit-reversed track byte stream, leaving pure flux data
// bytes for the FM/MFM decoder.
func stripHFEv3Opcodes(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case 0xF0: // NOP
		case 0xF1: // SETINDEX
		case 0xF2: // SETBITRATE, one following byte
			i++
		case 0xF3: // SKIPBITS, skip-count byte then one data byte
			i += 2
		case 0xF4: // RAND, replaced with deterministic zero data
			out = append(out, 0x00)
		default:
			out = append(out, data[i])
		}
	}
	return out
}

func (c *hfeContainer) decodedTrack(cylinder, side int, geom types.Geometry) ([]track.Sector, error) {
	key := cylinder*c.sides + side
	if sectors, ok := c.cache[key]; ok {
		return sectors, nil
	}
	raw, err := c.readTrackRaw(cylinder, side)
	if err != nil {
		return nil, err
	}
	dec := track.NewDecoder(c.enc, false)
	sectors := dec.Decode(raw)
	sectors = track.ValidateTrack(sectors, byte(cylinder), byte(side), blockdev.SectorSize)
	c.cache[key] = sectors
	return sectors, nil
}

// hfeDevice exposes one surface of an HFE container as a BlockDevice,
// decoding (and caching) one track at a time.
type hfeDevice struct {
	c    *hfeContainer
	side int
	geom types.Geometry
}

func (d *hfeDevice) ReadBlock(lba uint32) ([]byte, bool, error) {
	spt := uint32(d.geom.SectorsPerTrack)
	cylinder := int(lba / spt)
	record := byte(lba % spt)
	if cylinder >= d.geom.Cylinders {
		return nil, false, nil
	}
	sectors, err := d.c.decodedTrack(cylinder, d.side, d.geom)
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

func (c *hfeContainer) Surface(n int, geom types.Geometry) (blockdev.BlockDevice, error) {
	if n < 0 || n >= c.sides {
		return nil, dfserrors.MediaNotPresentf("HFE side %d is not present on this medium", n)
	}
	return &hfeDevice{c: c, side: n, geom: geom}, nil
}

var _ Container = (*hfeContainer)(nil)
