// Package basic detokenizes BBC BASIC programs stored in either of
// the two on-disc line framings, expanding tokens through a
// per-dialect tables.ExpansionMap.
package basic

import (
	"fmt"
	"strings"

	"github.com/bbcmicro/dfstools/basic/tables"
)

// Framing selects which of the two line-header layouts a program
// uses. Dialect alone does not determine this - both framings are
// used by 6502/32000 and PDP11 files in the wild - so callers choose
// explicitly (typically from a command-line flag).
type Framing int

const (
	FramingLengthLeading Framing = iota
	FramingCRLeading
)

func (f Framing) String() string {
	if f == FramingCRLeading {
		return "cr-leading"
	}
	return "length-leading"
}

// DefaultListo is the LISTO bitmask assumed when the caller doesn't
// specify one: bit 0 set, so a space follows the line number.
const DefaultListo = 1

// Listing is a fully decoded program.
type Listing struct {
	Dialect tables.Dialect
	Listo   int
	Lines   []Line
}

// Line is one decoded program line. Text holds the rendered body
// (indent spaces plus expanded tokens), excluding the line-number
// column and the trailing newline - both are added by String.
type Line struct {
	Number int
	Text   string
}

// String renders the full listing the way the original interpreter's
// LIST command would.
func (l Listing) String() string {
	var b strings.Builder
	for _, ln := range l.Lines {
		fmt.Fprintf(&b, "%5d", ln.Number)
		if l.Listo&1 != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(ln.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Decode detokenizes a whole program.
func Decode(data []byte, dialect tables.Dialect, framing Framing, listo int) (Listing, error) {
	var lines []Line
	var err error
	if framing == FramingCRLeading {
		lines, err = decodeCRLeadingProgram(data, dialect, listo)
	} else {
		lines, err = decodeLenLeadingProgram(data, dialect, listo)
	}
	if err != nil {
		return Listing{}, err
	}
	return Listing{Dialect: dialect, Listo: listo, Lines: lines}, nil
}

// decodeLenLeadingProgram reads the length-leading framing:
//
//	<len> <lo> <hi> tokens... 0x0D
//
// where len counts itself plus lo, hi and the tokens (including the
// trailing 0x0D). End of program is a zero length byte followed by
// 0xFF 0xFF; any bytes after that are tolerated, not validated.
func decodeLenLeadingProgram(data []byte, dialect tables.Dialect, listo int) ([]Line, error) {
	indent := 0
	var lines []Line
	pos := 0
	for {
		if pos >= len(data) {
			if len(lines) == 0 {
				return lines, nil
			}
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		length := int(data[pos])
		headerPos := pos
		pos++
		if length == 0 {
			if pos+2 > len(data) || data[pos] != 0xFF || data[pos+1] != 0xFF {
				return nil, fmt.Errorf("malformed end-of-program marker at offset %d", pos)
			}
			return lines, nil
		}
		if length < 3 {
			return nil, fmt.Errorf("line at offset %d has impossibly short length %d, check the dialect", headerPos, length)
		}
		if pos+2 > len(data) {
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		lo, hi := data[pos], data[pos+1]
		pos += 2
		bodyLen := length - 3
		if pos+bodyLen > len(data) {
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		raw := data[pos : pos+bodyLen]
		pos += bodyLen
		if bodyLen == 0 || raw[bodyLen-1] != 0x0D {
			return nil, fmt.Errorf("expected 0x0D at the end of the line at offset %d, check the dialect", pos-1)
		}
		number := int(hi)*256 + int(lo)
		// Listing.String supplies the newline, so the trailing 0x0D
		// isn't passed to decodeLine.
		text, err := decodeLine(dialect, number, raw[:bodyLen-1], &indent, listo)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Number: number, Text: text})
	}
}

// decodeCRLeadingProgram reads the CR-leading framing:
//
//	0x0D <hi> <lo> <len> tokens...
//
// where len counts from the initial 0x0D (so the token count is
// len-4). End of program is 0x0D 0xFF.
func decodeCRLeadingProgram(data []byte, dialect tables.Dialect, listo int) ([]Line, error) {
	indent := 0
	var lines []Line
	pos := 0
	for {
		if pos >= len(data) {
			if len(lines) == 0 {
				return lines, nil
			}
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		if data[pos] != 0x0D {
			return nil, fmt.Errorf("line at offset %d did not start with 0x0D, check the format", pos)
		}
		pos++
		if pos >= len(data) {
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		hi := data[pos]
		pos++
		if hi == 0xFF {
			if pos >= len(data) {
				return lines, nil
			}
			// Slightly unexpected (perhaps a very large line number);
			// the source just warns and keeps going.
		}
		if pos >= len(data) {
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		lo := data[pos]
		pos++
		if pos >= len(data) {
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		length := int(data[pos])
		pos++
		if length < 4 {
			return nil, fmt.Errorf("line at offset %d has impossibly short length %d, check the format", pos-1, length)
		}
		bodyLen := length - 4
		if pos+bodyLen > len(data) {
			return nil, fmt.Errorf("premature end of file at offset %d", pos)
		}
		raw := data[pos : pos+bodyLen]
		pos += bodyLen
		number := int(hi)*256 + int(lo)
		text, err := decodeLine(dialect, number, raw, &indent, listo)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Number: number, Text: text})
	}
}

func countByte(body []byte, want byte) int {
	n := 0
	for _, b := range body {
		if b == want {
			n++
		}
	}
	return n
}

// decodeLine expands one line's raw token bytes, applying the
// FOR/NEXT and REPEAT/UNTIL indent bookkeeping gated by listo bits 1
// and 2 and tracking in-string state so control bytes inside string
// literals (e.g. mode 7 colour codes) pass through literally.
func decodeLine(dialect tables.Dialect, number int, body []byte, indent *int, listo int) (string, error) {
	var out strings.Builder

	outdent := 0
	if listo&2 != 0 {
		outdent += 2 * countByte(body, 0xED) // NEXT
	}
	if listo&4 != 0 {
		outdent += 2 * countByte(body, 0xFD) // UNTIL
	}
	*indent -= outdent
	if *indent > 0 {
		out.WriteString(strings.Repeat(" ", *indent))
	}

	m := tables.For(dialect)
	inString := false
	i := 0
	for i < len(body) {
		uch := body[i]
		i++
		switch {
		case inString:
			out.WriteByte(uch)
		case uch == 0xC6 || uch == 0xC7 || uch == 0xC8:
			text, err := handleSpecialToken(dialect, uch, body, &i)
			if err != nil {
				return "", fmt.Errorf("line %d: %w", number, err)
			}
			out.WriteString(text)
		default:
			entry := m.Base[uch]
			switch entry.Sentinel {
			case tables.SentinelInvalid:
				return "", fmt.Errorf("saw unexpected token 0x%02X in line %d, check the dialect", uch, number)
			case tables.SentinelLineNum:
				if i+3 > len(body) {
					return "", fmt.Errorf("line %d: end-of-line in the middle of a line number reference", number)
				}
				b1, b2, b3 := body[i], body[i+1], body[i+2]
				i += 3
				lo := b2 ^ ((b1 * 4) & 0xC0)
				hi := b3 ^ (b1 * 16)
				fmt.Fprintf(&out, "%d", int(hi)*256+int(lo))
			case tables.SentinelIdentity, tables.SentinelFastVar:
				// Neither dialect column carries a literal for these
				// bytes (0x18-0x1F): outside Windows they're plain
				// control bytes, not tokens, so the original byte is
				// what should appear in the listing. Windows dialect
				// names them separately (fast variable references) but
				// this detokenizer doesn't resolve the variable name
				// that follows, so it likewise emits the raw byte.
				out.WriteByte(uch)
			default:
				out.WriteString(entry.Literal)
			}
		}
		if uch == '"' {
			inString = !inString
		}
	}

	if listo&2 != 0 {
		*indent += 2 * countByte(body, 0xE3) // FOR
	}
	if listo&4 != 0 {
		*indent += 2 * countByte(body, 0xF5) // REPEAT
	}
	return out.String(), nil
}

// handleSpecialToken expands the three extension-introducer tokens.
// Their behavior is dialect-specific rather than table-driven: the
// 6502/Z80 dialects use fixed literals without consuming a byte, Mac
// only does that for 0xC7/0xC8 (0xC6 still consumes an index), and
// every other dialect (ARM, Windows, PDP11) always consumes an index
// byte and looks it up in the matching extension table.
func handleSpecialToken(dialect tables.Dialect, tok byte, body []byte, i *int) (string, error) {
	switch dialect {
	case tables.Dialect6502, tables.DialectZ80:
		switch tok {
		case 0xC6:
			return "AUTO", nil
		case 0xC7:
			return "DELETE", nil
		case 0xC8:
			return "LOAD", nil
		}
	case tables.DialectMac:
		switch tok {
		case 0xC6:
			b, ok := consumeByte(body, i)
			if !ok {
				return "", fmt.Errorf("unexpected end-of-line immediately after token 0x%02X", tok)
			}
			return tables.For(dialect).C6[b].Literal, nil
		case 0xC7:
			return "DELETE", nil
		case 0xC8:
			return "LOAD", nil
		}
	default:
		b, ok := consumeByte(body, i)
		if !ok {
			return "", fmt.Errorf("unexpected end-of-line immediately after token 0x%02X", tok)
		}
		m := tables.For(dialect)
		switch tok {
		case 0xC6:
			return m.C6[b].Literal, nil
		case 0xC7:
			return m.C7[b].Literal, nil
		case 0xC8:
			return m.C8[b].Literal, nil
		}
	}
	return "", fmt.Errorf("token 0x%02X is marked for special handling, but there is no defined handler for dialect %s", tok, dialect)
}

func consumeByte(body []byte, i *int) (byte, bool) {
	if *i >= len(body) {
		return 0, false
	}
	b := body[*i]
	*i++
	return b, true
}
