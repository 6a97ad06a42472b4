package track

import (
	"github.com/bbcmicro/dfstools/disk/bitstream"
)

// FM address marks. Clock bits are abnormal (0xC7); the data byte
// names the mark.
const (
	fmIDAddressMark      = 0xFE
	fmDataAddressMark    = 0xFB
	fmDeletedAddressMark = 0xF8

	fmSyncPattern    = 0xAAAA // clock=0xFF, data=0x00, repeated
	fmAddressMark1   = 0xF57E // encoded bits for the sector-ID address mark
	fmRecordMarkBits = 0xF56A // encoded bits common to data/deleted-data marks
)

type decodeState int

const (
	stateDesynced decodeState = iota
	stateLookingForAddress
	stateLookingForRecord
)

type fmDecoder struct {
	verbose bool
}

// readFMByte reads one FM-encoded byte (16 bits: c d c d c d c d ...)
// starting at *pos, and returns the separated (clock, data) pair.
func readFMByte(bits *bitstream.BitStream, pos *int) (clock, data byte, ok bool) {
	if *pos+16 > bits.Size() {
		return 0, 0, false
	}
	var c, d uint32
	for i := 0; i < 8; i++ {
		c = (c << 1) | uint32(bits.GetBit(*pos))
		*pos++
		d = (d << 1) | uint32(bits.GetBit(*pos))
		*pos++
	}
	return byte(c), byte(d), true
}

// copyFMBytes reads n FM-encoded bytes, requiring a normal clock
// (0xFF) on every one; on any desync it returns false.
func copyFMBytes(bits *bitstream.BitStream, pos *int, out []byte) bool {
	for i := range out {
		clock, data, ok := readFMByte(bits, pos)
		if !ok || clock != 0xFF {
			return false
		}
		out[i] = data
	}
	return true
}

// Decode implements Decoder for FM-encoded tracks, following the state
// machine Desynced -> LookingForAddress -> LookingForRecord.
func (d *fmDecoder) Decode(rawBits []byte) []Sector {
	bits := bitstream.New(rawBits)
	bitsAvail := bits.Size()
	pos := 0
	state := stateDesynced
	var result []Sector
	var sec Sector
	var secSize int

	findRecordAddressMark := func() (int, uint32, bool) {
		for pos < bitsAvail {
			searchFrom := pos
			value, found := bits.ScanFor(&pos, fmRecordMarkBits, 0xFFFA)
			if !found {
				pos = bitsAvail
				return 0, 0, false
			}
			value &= 0xFFFF
			if value == 0xF56A || value == 0xF56F {
				return pos, value, true
			}
			pos = searchFrom + 1
		}
		return 0, 0, false
	}

	for pos < bitsAvail {
		switch state {
		case stateDesynced:
			_, found := bits.ScanFor(&pos, fmSyncPattern, 0xFFFF)
			if !found {
				return result
			}
			state = stateLookingForAddress

		case stateLookingForAddress:
			_, found := bits.ScanFor(&pos, fmAddressMark1, 0xFFFF)
			if !found {
				return result
			}
			id := make([]byte, 7)
			id[0] = fmIDAddressMark
			if !copyFMBytes(bits, &pos, id[1:]) {
				state = stateDesynced
				continue
			}
			crc := bitstream.NewCCITTCRC16()
			crc.UpdateBytes(id)
			if crc.Get() != 0 {
				state = stateDesynced
				continue
			}
			sec.Address = Address{Cylinder: id[1], Head: id[2], Record: id[3]}
			size, ok := decodeSectorSize(id[4])
			if !ok {
				state = stateDesynced
				continue
			}
			secSize = size
			state = stateLookingForRecord

		case stateLookingForRecord:
			_, markValue, found := findRecordAddressMark()
			if !found {
				return result
			}
			discard := markValue == 0xF56A
			sizeWithCRC := secSize + 2
			data := make([]byte, sizeWithCRC)
			if !copyFMBytes(bits, &pos, data) {
				state = stateDesynced
				continue
			}
			mark := byte(fmDeletedAddressMark)
			if !discard {
				mark = fmDataAddressMark
			}
			crc := bitstream.NewCCITTCRC16()
			crc.Update(mark)
			crc.UpdateBytes(data)
			if crc.Get() != 0 && !discard {
				state = stateDesynced
				continue
			}
			sec.CRC = [2]byte{data[secSize], data[secSize+1]}
			sec.Data = data[:secSize]
			if !discard {
				result = append(result, sec)
			}
			state = stateDesynced
		}
	}
	return result
}
