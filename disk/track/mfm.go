package track

import (
	"github.com/bbcmicro/dfstools/disk/bitstream"
)

// MFM synchronises to the A1 pre-mark: the byte 0xA1 written with a
// deliberately missing clock transition, which appears on disc as the
// 16-bit pattern 0x4489. Three consecutive A1 marks introduce a
// header or data field; clock bits are not checked byte-by-byte once
// synchronised (unlike FM).
const mfmSyncMark = 0x4489

type mfmDecoder struct {
	verbose bool
}

func readMFMByte(bits *bitstream.BitStream, pos *int) (byte, bool) {
	if *pos+16 > bits.Size() {
		return 0, false
	}
	var d uint32
	for i := 0; i < 8; i++ {
		*pos++ // clock bit, not verified
		d = (d << 1) | uint32(bits.GetBit(*pos))
		*pos++
	}
	return byte(d), true
}

func copyMFMBytes(bits *bitstream.BitStream, pos *int, out []byte) bool {
	for i := range out {
		b, ok := readMFMByte(bits, pos)
		if !ok {
			return false
		}
		out[i] = b
	}
	return true
}

// Decode implements Decoder for MFM-encoded tracks. The header/record
// framing mirrors the FM decoder once synchronised: a sector-ID
// address mark (0xFE) introduces cylinder/head/record/size-code/CRC,
// followed by a data or deleted-data mark (0xFB/0xF8) introducing the
// sector body and its CRC.
func (d *mfmDecoder) Decode(rawBits []byte) []Sector {
	bits := bitstream.New(rawBits)
	bitsAvail := bits.Size()
	pos := 0
	var result []Sector

	syncToMark := func() bool {
		for {
			_, found := bits.ScanFor(&pos, mfmSyncMark, 0xFFFF)
			if !found {
				return false
			}
			return true
		}
	}

	for pos < bitsAvail {
		if !syncToMark() {
			return result
		}
		// Two more A1 sync words follow the first.
		if !syncToMark() || !syncToMark() {
			return result
		}
		markByte, ok := readMFMByte(bits, &pos)
		if !ok {
			return result
		}
		if markByte != fmIDAddressMark {
			continue
		}
		header := make([]byte, 6)
		if !copyMFMBytes(bits, &pos, header) {
			continue
		}
		crc := bitstream.NewCCITTCRC16()
		crc.Update(0xA1)
		crc.Update(0xA1)
		crc.Update(0xA1)
		crc.Update(markByte)
		crc.UpdateBytes(header)
		if crc.Get() != 0 {
			continue
		}
		addr := Address{Cylinder: header[0], Head: header[1], Record: header[2]}
		secSize, ok := decodeSectorSize(header[3])
		if !ok {
			continue
		}

		if !syncToMark() || !syncToMark() || !syncToMark() {
			return result
		}
		dataMark, ok := readMFMByte(bits, &pos)
		if !ok {
			return result
		}
		discard := dataMark == fmDeletedAddressMark
		if dataMark != fmDataAddressMark && !discard {
			continue
		}
		sizeWithCRC := secSize + 2
		data := make([]byte, sizeWithCRC)
		if !copyMFMBytes(bits, &pos, data) {
			continue
		}
		dcrc := bitstream.NewCCITTCRC16()
		dcrc.Update(0xA1)
		dcrc.Update(0xA1)
		dcrc.Update(0xA1)
		dcrc.Update(dataMark)
		dcrc.UpdateBytes(data)
		if dcrc.Get() != 0 && !discard {
			continue
		}
		if !discard {
			result = append(result, Sector{
				Address: addr,
				Data:    data[:secSize],
				CRC:     [2]byte{data[secSize], data[secSize+1]},
			})
		}
	}
	return result
}
