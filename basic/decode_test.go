package basic

import (
	"testing"

	"github.com/bbcmicro/dfstools/basic/tables"
)

// TestDecodeOneLinerPrint is the one-line 6502-dialect PRINT "HI"
// scenario: CR-leading framing, LISTO=1 (one leading space after the
// line number).
func TestDecodeOneLinerPrint(t *testing.T) {
	data := []byte{
		0x0D, 0x00, 0x0A, 0x0A, 0xF1, 0x20, 0x22, 0x48, 0x49, 0x22,
		0x0D, 0xFF,
	}
	listing, err := Decode(data, tables.Dialect6502, FramingCRLeading, 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "   10 PRINT \"HI\"\n"
	if got := listing.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestDecodeLineNumberReference is the GOTO-followed-by-packed-line-100
// scenario: token 0x8D introduces a 3-byte packed line number, here
// encoding 100.
func TestDecodeLineNumberReference(t *testing.T) {
	data := []byte{
		0x0D, 0x00, 0x14, 0x0A, 0xE5, 0x20, 0x8D, 0x00, 0x64, 0x00,
		0x0D, 0xFF,
	}
	listing, err := Decode(data, tables.Dialect6502, FramingCRLeading, 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "   20 GOTO 100\n"
	if got := listing.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestDecodeDeterministic checks that decoding the same bytes twice
// yields byte-for-byte identical output.
func TestDecodeDeterministic(t *testing.T) {
	data := []byte{
		0x0D, 0x00, 0x0A, 0x0A, 0xF1, 0x20, 0x22, 0x48, 0x49, 0x22,
		0x0D, 0xFF,
	}
	first, err := Decode(data, tables.Dialect6502, FramingCRLeading, 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := Decode(data, tables.Dialect6502, FramingCRLeading, 1)
	if err != nil {
		t.Fatalf("Decode (second call): %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("Decode is not deterministic: %q != %q", first.String(), second.String())
	}
}

// TestBaseMappingTotal checks that every dialect has a defined entry
// (either literal text or a sentinel) for every byte value 0-255 - no
// base-table slot is left as the Go zero value.
func TestBaseMappingTotal(t *testing.T) {
	dialects := []tables.Dialect{
		tables.Dialect6502, tables.DialectZ80, tables.DialectARM,
		tables.DialectWindows, tables.DialectMac, tables.DialectPDP11,
	}
	for _, d := range dialects {
		m := tables.For(d)
		for i := 0; i < 256; i++ {
			e := m.Base[i]
			if e.Literal == "" && e.Sentinel == tables.SentinelNone {
				t.Errorf("dialect %s: base entry for byte 0x%02X is undefined", d, i)
			}
		}
	}
}
