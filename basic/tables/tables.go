// Package tables holds the per-dialect BBC BASIC token expansion
// tables: one base mapping (byte 0x00-0xFF) per dialect, plus that
// dialect's three extension tables (C6/C7/C8), indexed by the byte
// that follows a 0xC6/0xC7/0xC8 token in the dialects whose decoder
// consumes one.
package tables

import "strings"

// Sentinel marks a base-table entry that needs special handling by the
// detokenizer rather than a literal text substitution.
type Sentinel string

// The closed set of sentinels an Entry can carry, named after the
// C string constants of the same purpose in the source this was
// ported from.
const (
	SentinelNone     Sentinel = ""
	SentinelInvalid  Sentinel = "invalid"
	SentinelLineNum  Sentinel = "line_num"
	SentinelFastVar  Sentinel = "fastvar"
	SentinelIdentity Sentinel = "identity"
	SentinelExtC6    Sentinel = "ext_c6"
	SentinelExtC7    Sentinel = "ext_c7"
	SentinelExtC8    Sentinel = "ext_c8"
)

// Entry is one base-table slot: either literal text to emit verbatim,
// or a Sentinel the detokenizer must interpret specially.
type Entry struct {
	Literal  string
	Sentinel Sentinel
}

func lit(s string) Entry { return Entry{Literal: s} }

var (
	entInvalid  = Entry{Sentinel: SentinelInvalid}
	entLineNum  = Entry{Sentinel: SentinelLineNum}
	entFastVar  = Entry{Sentinel: SentinelFastVar}
	entIdentity = Entry{Sentinel: SentinelIdentity}
	entExtC6    = Entry{Sentinel: SentinelExtC6}
	entExtC7    = Entry{Sentinel: SentinelExtC7}
	entExtC8    = Entry{Sentinel: SentinelExtC8}
)

// Dialect names the six historical BBC BASIC token dialects.
type Dialect int

const (
	Dialect6502 Dialect = iota
	DialectZ80
	DialectARM
	DialectWindows
	DialectMac
	DialectPDP11
)

func (d Dialect) String() string {
	switch d {
	case Dialect6502:
		return "mos6502_32000"
	case DialectZ80:
		return "Z80_80x86"
	case DialectARM:
		return "ARM"
	case DialectWindows:
		return "Windows"
	case DialectMac:
		return "Mac"
	case DialectPDP11:
		return "PDP11"
	default:
		return "unknown"
	}
}

type dialectName struct {
	name       string
	synonymFor string // "" if this is a canonical name
	dialect    Dialect
}

var dialectNames = []dialectName{
	{name: "6502", dialect: Dialect6502},
	{name: "PDP11", dialect: DialectPDP11},
	{name: "32000", synonymFor: "6502", dialect: Dialect6502},
	{name: "Z80", dialect: DialectZ80},
	{name: "8086", synonymFor: "Z80", dialect: DialectZ80},
	{name: "ARM", dialect: DialectARM},
	{name: "Windows", dialect: DialectWindows},
	{name: "SDL", synonymFor: "Windows", dialect: DialectWindows},
	{name: "MacOSX", synonymFor: "Windows", dialect: DialectWindows},
	{name: "Mac", dialect: DialectMac},
}

// ParseDialect resolves a dialect name or synonym (case-sensitive, as
// in the source) to its canonical Dialect.
func ParseDialect(name string) (Dialect, bool) {
	name = NormalizeName(name)
	for _, d := range dialectNames {
		if d.name == name {
			return d.dialect, true
		}
	}
	return 0, false
}

// Dialects lists the known dialect and synonym names in declaration
// order, each synonym after its canonical name - used for
// --dialect=list style help.
func Dialects() []string {
	names := make([]string, len(dialectNames))
	for i, d := range dialectNames {
		names[i] = d.name
	}
	return names
}

// baseMapDialect is the subset of Dialect values that appear as direct
// columns in the literal base-token table; Mac and PDP11 are derived
// from ARM and 6502 respectively (see buildBase).
type baseMapDialect int

const (
	baseCol6502 baseMapDialect = iota
	baseColZ80
	baseColARM
	baseColWindows
	numBaseCols
)

type baseRow struct {
	token byte
	cols  [numBaseCols]Entry
}

func everywhere(s string) [numBaseCols]Entry {
	e := lit(s)
	return [numBaseCols]Entry{e, e, e, e}
}

// baseRows is a direct transcription of the base_map table: one row
// per token value that has a non-default mapping in at least one of
// the four base dialects. Byte 0x0D (end of line) is never consulted
// through this table - it is handled as a line-framing delimiter.
// Token 0xFB is given the single chosen spelling "COLOUR" (the later
// of two overlapping C initializers in the source, which wins there
// by assignment order); see DESIGN.md.
var baseRows = []baseRow{
	{0x01, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("CIRCLE")}},
	{0x02, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("ELLIPSE")}},
	{0x03, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("FILL")}},
	{0x04, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("MOUSE")}},
	{0x05, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("ORIGIN")}},
	{0x06, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("QUIT")}},
	{0x07, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("RECTANGLE")}},
	{0x08, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("SWAP")}},
	{0x09, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("SYS")}},
	{0x0A, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("TINT")}},
	{0x0B, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("WAIT")}},
	{0x0C, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("INSTALL")}},
	{0x0E, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("PRIVATE")}},
	{0x0F, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("BY")}},
	{0x10, [numBaseCols]Entry{entInvalid, entInvalid, entInvalid, lit("EXIT")}},
	{0x18, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x19, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x1A, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x1B, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x1C, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x1D, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x1E, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x1F, [numBaseCols]Entry{entIdentity, entIdentity, entIdentity, entFastVar}},
	{0x7F, [numBaseCols]Entry{entInvalid, entInvalid, lit("OTHERWISE"), entInvalid}},
	{0x80, everywhere("AND")},
	{0x81, everywhere("DIV")},
	{0x82, everywhere("EOR")},
	{0x83, everywhere("MOD")},
	{0x84, everywhere("OR")},
	{0x85, everywhere("ERROR")},
	{0x86, everywhere("LINE")},
	{0x87, everywhere("OFF")},
	{0x88, everywhere("STEP")},
	{0x89, everywhere("SPC")},
	{0x8A, everywhere("TAB(")},
	{0x8B, everywhere("ELSE")},
	{0x8C, everywhere("THEN")},
	{0x8D, [numBaseCols]Entry{entLineNum, entLineNum, entLineNum, entLineNum}},
	{0x8E, everywhere("OPENIN")},
	{0x8F, everywhere("PTR")},
	{0x90, everywhere("PAGE")},
	{0x91, everywhere("TIME")},
	{0x92, everywhere("LOMEM")},
	{0x93, everywhere("HIMEM")},
	{0x94, everywhere("ABS")},
	{0x95, everywhere("ACS")},
	{0x96, everywhere("ADVAL")},
	{0x97, everywhere("ASC")},
	{0x98, everywhere("ASN")},
	{0x99, everywhere("ATN")},
	{0x9A, everywhere("BGET")},
	{0x9B, everywhere("COS")},
	{0x9C, everywhere("COUNT")},
	{0x9D, everywhere("DEG")},
	{0x9E, everywhere("ERL")},
	{0x9F, everywhere("ERR")},
	{0xA0, everywhere("EVAL")},
	{0xA1, everywhere("EXP")},
	{0xA2, everywhere("EXT")},
	{0xA3, everywhere("FALSE")},
	{0xA4, everywhere("FN")},
	{0xA5, everywhere("GET")},
	{0xA6, everywhere("INKEY")},
	{0xA7, everywhere("INSTR(")},
	{0xA8, everywhere("INT")},
	{0xA9, everywhere("LEN")},
	{0xAA, everywhere("LN")},
	{0xAB, everywhere("LOG")},
	{0xAC, everywhere("NOT")},
	{0xAD, everywhere("OPENUP")},
	{0xAE, everywhere("OPENOUT")},
	{0xAF, everywhere("PI")},
	{0xB0, everywhere("POINT(")},
	{0xB1, everywhere("POS")},
	{0xB2, everywhere("RAD")},
	{0xB3, everywhere("RND")},
	{0xB4, everywhere("SGN")},
	{0xB5, everywhere("SIN")},
	{0xB6, everywhere("SQR")},
	{0xB7, everywhere("TAN")},
	{0xB8, everywhere("TO")},
	{0xB9, everywhere("TRUE")},
	{0xBA, everywhere("USR")},
	{0xBB, everywhere("VAL")},
	{0xBC, everywhere("VPOS")},
	{0xBD, everywhere("CHR$")},
	{0xBE, everywhere("GET$")},
	{0xBF, everywhere("INKEY$")},
	{0xC0, everywhere("LEFT$(")},
	{0xC1, everywhere("MID$(")},
	{0xC2, everywhere("RIGHT$(")},
	{0xC3, everywhere("STR$")},
	{0xC4, everywhere("STRING$(")},
	{0xC5, everywhere("EOF")},
	{0xC6, [numBaseCols]Entry{lit("AUTO"), lit("AUTO"), entExtC6, lit("SUM")}},
	{0xC7, [numBaseCols]Entry{lit("DELETE"), lit("DELETE"), entExtC7, lit("WHILE")}},
	{0xC8, [numBaseCols]Entry{lit("LOAD"), lit("LOAD"), entExtC8, lit("CASE")}},
	{0xC9, [numBaseCols]Entry{lit("LIST"), lit("LIST"), lit("WHEN"), lit("WHEN")}},
	{0xCA, [numBaseCols]Entry{lit("NEW"), lit("NEW"), lit("OF"), lit("OF")}},
	{0xCB, [numBaseCols]Entry{lit("OLD"), lit("OLD"), lit("ENDCASE"), lit("ENDCASE")}},
	{0xCC, [numBaseCols]Entry{lit("RENUMBER"), lit("RENUMBER"), lit("ELSE"), lit("OTHERWISE")}},
	{0xCD, [numBaseCols]Entry{lit("SAVE"), lit("SAVE"), lit("ENDIF"), lit("ENDIF")}},
	{0xCE, [numBaseCols]Entry{lit("EDIT"), lit("PUT"), lit("ENDWHILE"), lit("ENDWHILE")}},
	{0xCF, everywhere("PTR")},
	{0xD0, everywhere("PAGE")},
	{0xD1, everywhere("TIME")},
	{0xD2, everywhere("LOMEM")},
	{0xD3, everywhere("HIMEM")},
	{0xD4, everywhere("SOUND")},
	{0xD5, everywhere("BPUT")},
	{0xD6, everywhere("CALL")},
	{0xD7, everywhere("CHAIN")},
	{0xD8, everywhere("CLEAR")},
	{0xD9, everywhere("CLOSE")},
	{0xDA, everywhere("CLG")},
	{0xDB, everywhere("CLS")},
	{0xDC, everywhere("DATA")},
	{0xDD, everywhere("DEF")},
	{0xDE, everywhere("DIM")},
	{0xDF, everywhere("DRAW")},
	{0xE0, everywhere("END")},
	{0xE1, everywhere("ENDPROC")},
	{0xE2, everywhere("ENVELOPE")},
	{0xE3, everywhere("FOR")},
	{0xE4, everywhere("GOSUB")},
	{0xE5, everywhere("GOTO")},
	{0xE6, everywhere("GCOL")},
	{0xE7, everywhere("IF")},
	{0xE8, everywhere("INPUT")},
	{0xE9, everywhere("LET")},
	{0xEA, everywhere("LOCAL")},
	{0xEB, everywhere("MODE")},
	{0xEC, everywhere("MOVE")},
	{0xED, everywhere("NEXT")},
	{0xEE, everywhere("ON")},
	{0xEF, everywhere("VDU")},
	{0xF0, everywhere("PLOT")},
	{0xF1, everywhere("PRINT")},
	{0xF2, everywhere("PROC")},
	{0xF3, everywhere("READ")},
	{0xF4, everywhere("REM")},
	{0xF5, everywhere("REPEAT")},
	{0xF6, everywhere("REPORT")},
	{0xF7, everywhere("RESTORE")},
	{0xF8, everywhere("RETURN")},
	{0xF9, everywhere("RUN")},
	{0xFA, everywhere("STOP")},
	{0xFB, everywhere("COLOUR")},
	{0xFC, everywhere("TRACE")},
	{0xFD, everywhere("UNTIL")},
	{0xFE, everywhere("WIDTH")},
	{0xFF, everywhere("OSCLI")},
}

// ExpansionMap is the fully-built token table for one dialect.
type ExpansionMap struct {
	Base [256]Entry
	C6   [256]Entry
	C7   [256]Entry
	C8   [256]Entry
}

var builtMaps = map[Dialect]*ExpansionMap{}

func init() {
	for _, d := range []Dialect{Dialect6502, DialectZ80, DialectARM, DialectWindows, DialectMac, DialectPDP11} {
		builtMaps[d] = buildMapping(d)
	}
}

// For returns the ExpansionMap for a dialect, built once at package
// initialization.
func For(d Dialect) *ExpansionMap {
	return builtMaps[d]
}

func buildMapping(d Dialect) *ExpansionMap {
	m := &ExpansionMap{}
	for i := range m.Base {
		m.Base[i] = entInvalid
	}

	// ASCII identity range, set before the base_map overrides are
	// applied - matches the order of operations in the source.
	for i := 0x11; i < 0x7F; i++ {
		m.Base[i] = lit(string(rune(i)))
	}

	baseDialect := d
	if d == DialectMac {
		baseDialect = DialectARM
	} else if d == DialectPDP11 {
		baseDialect = Dialect6502
	}
	col := baseCol6502
	switch baseDialect {
	case DialectZ80:
		col = baseColZ80
	case DialectARM:
		col = baseColARM
	case DialectWindows:
		col = baseColWindows
	}

	for _, row := range baseRows {
		entry := row.cols[col]
		if entry.Sentinel == SentinelIdentity {
			// Already set up by the ASCII identity loop above.
			continue
		}
		m.Base[row.token] = entry
	}

	if d == DialectPDP11 {
		// The source overrides 0xC8 with a PDP11-specific sentinel
		// here; since no separate PDP11 extension table exists, this
		// resolves to the same literal the 6502 dialect uses ("LOAD").
		// See DESIGN.md for the reasoning.
		m.Base[0xC8] = lit("LOAD")
	}
	if d == DialectARM || d == DialectMac {
		m.Base[0x7F] = lit("OTHERWISE")
	} else {
		m.Base[0x7F] = lit(string(rune(0x7F)))
	}
	m.Base[0x0D] = lit(string(rune(0x0D)))

	buildMapC6(d, &m.C6)
	buildMapC7(d, &m.C7)
	buildMapC8(d, &m.C8)
	return m
}

func buildInvalidMap(out *[256]Entry) {
	for i := range out {
		out[i] = entInvalid
	}
}

func buildMapC6(d Dialect, out *[256]Entry) {
	buildInvalidMap(out)
	if d == Dialect6502 || d == DialectZ80 || d == DialectWindows {
		return
	}
	if d == DialectARM || d == DialectMac {
		out[0x8E] = lit("SUM")
		out[0x8F] = lit("BEAT")
	}
	if d == DialectMac {
		out[0x90] = lit("ASK")
		out[0x91] = lit("ANSWER")
		out[0x92] = lit("SFOPENIN")
		out[0x93] = lit("SFOPENOUT")
		out[0x94] = lit("SFOPENUP")
		out[0x95] = lit("SFNAME$")
		out[0x96] = lit("MENU")
	}
}

func buildMapC7(d Dialect, out *[256]Entry) {
	buildInvalidMap(out)
	if d != DialectARM && d != DialectMac {
		return
	}
	arm := d == DialectARM
	out[0x8E] = lit("APPEND")
	out[0x8F] = lit("AUTO")
	pairs := [][2]string{
		{"CRUNCH", "DELETE"}, {"DELETE", "EDIT"}, {"EDIT", "HELP"},
		{"HELP", "LIST"}, {"LIST", "LOAD"}, {"LOAD", "LVAR"},
		{"LVAR", "NEW"}, {"NEW", "OLD"}, {"OLD", "RENUMBER"},
		{"RENUMBER", "SAVE"}, {"SAVE", "TWIN"}, {"TEXTLOAD", "TWINO"},
	}
	for i, pair := range pairs {
		if arm {
			out[0x90+i] = lit(pair[0])
		} else {
			out[0x90+i] = lit(pair[1])
		}
	}
	if arm {
		out[0x9C] = lit("TEXTSAVE")
		out[0x9D] = lit("TWIN")
		out[0x9E] = lit("TWINO")
		out[0x9F] = lit("INSTALL")
	}
}

func buildMapC8(d Dialect, out *[256]Entry) {
	buildInvalidMap(out)
	if d != DialectARM && d != DialectMac {
		return
	}
	out[0x8E] = lit("CASE")
	out[0x8F] = lit("CIRCLE")
	out[0x90] = lit("FILL")
	out[0x91] = lit("ORIGIN")
	out[0x92] = lit("POINT")
	out[0x93] = lit("RECTANGLE")
	out[0x94] = lit("SWAP")
	out[0x95] = lit("WHILE")
	out[0x96] = lit("WAIT")
	out[0x97] = lit("MOUSE")
	out[0x98] = lit("QUIT")
	if d == DialectARM {
		out[0x99] = lit("SYS")
		out[0x9A] = lit("INSTALL")
		out[0x9B] = lit("LIBRARY")
		out[0x9C] = lit("TINT")
		out[0x9D] = lit("ELLIPSE")
		out[0x9E] = lit("BEATS")
		out[0x9F] = lit("TEMPO")
		out[0xA0] = lit("VOICES")
		out[0xA1] = lit("VOICE")
		out[0xA2] = lit("STEREO")
		out[0xA3] = lit("OVERLAY")
		out[0xA4] = lit("MANDEL")
		out[0xA5] = lit("PRIVATE")
		out[0xA6] = lit("EXIT")
	}
}

// IsFastVar reports whether i is one of the BBC BASIC for
// SDL/Windows "fast variable" reference bytes (0x18-0x1F).
func IsFastVar(i byte) bool {
	return i >= 0x18 && i <= 0x1F
}

// NormalizeName trims the incidental whitespace a command-line user
// commonly leaves around a --dialect argument. Dialect names and
// synonyms stay case-sensitive, as in the source.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
