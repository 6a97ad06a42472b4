// Package dfs implements the Acorn DFS catalog model: reading
// multi-fragment catalogs (plain Acorn, Watford's doubled catalog,
// Opus DDOS's per-volume catalogs), resolving wildcard file
// specifications, and mapping sectors to the entries that own them.
package dfs

import (
	"strings"

	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

// BootSetting is the disc's boot option, packed into catalog sector 1
// byte 6 bits 4-5.
type BootSetting int

const (
	BootNone BootSetting = iota
	BootLoad
	BootRun
	BootExec
)

func (b BootSetting) String() string {
	switch b {
	case BootLoad:
		return "LOAD"
	case BootRun:
		return "RUN"
	case BootExec:
		return "EXEC"
	default:
		return "None"
	}
}

// CatalogEntry is one 16-byte (8 name + 8 metadata) catalog record.
// It borrows its raw bytes from the fragment it was read from.
type CatalogEntry struct {
	rawName []byte
	rawMeta []byte
}

// Name returns the 7-character filename, space-trimmed.
func (e CatalogEntry) Name() string {
	return strings.TrimRight(string(e.rawName[:7]), " ")
}

// Directory is the entry's single-character directory name.
func (e CatalogEntry) Directory() byte {
	return e.rawName[7] &^ 0x80
}

// Locked reports whether the entry's locked bit (name byte 7, bit 7) is set.
func (e CatalogEntry) Locked() bool {
	return e.rawName[7]&0x80 != 0
}

// FullName is "DIR.NAME", the form most DFS commands display.
func (e CatalogEntry) FullName() string {
	return string(e.Directory()) + "." + e.Name()
}

func (e CatalogEntry) metaWord(offset int) uint32 {
	return uint32(e.rawMeta[offset]) | uint32(e.rawMeta[offset+1])<<8
}

// signExtend18 applies the source platform's sign-extension convention
// to an 18-bit load/exec address: if bit 17 is set, bits 18-23 are
// set too (0x3F1900 reads back as 0xFF1900).
func signExtend18(addr uint32) uint32 {
	if addr&(1<<17) != 0 {
		return addr | 0xFC0000
	}
	return addr
}

// LoadAddress is the 18-bit (sign-extended) load address.
func (e CatalogEntry) LoadAddress() uint32 {
	addr := e.metaWord(0) | ((uint32(e.rawMeta[6])>>2)&3)<<16
	return signExtend18(addr)
}

// ExecAddress is the 18-bit (sign-extended) exec address.
func (e CatalogEntry) ExecAddress() uint32 {
	addr := e.metaWord(2) | ((uint32(e.rawMeta[6])>>6)&3)<<16
	return signExtend18(addr)
}

// Length is the file length in bytes (18 bits, never sign-extended).
func (e CatalogEntry) Length() uint32 {
	return e.metaWord(4) | ((uint32(e.rawMeta[6])>>4)&3)<<16
}

// StartSector is the 10-bit sector number the file body begins at.
func (e CatalogEntry) StartSector() int {
	return int(e.rawMeta[7]) | int(e.rawMeta[6]&3)<<8
}

// SectorCount is the number of 256-byte sectors the file occupies.
func (e CatalogEntry) SectorCount() int {
	n := int(e.Length()) / blockdev.SectorSize
	if int(e.Length())%blockdev.SectorSize != 0 {
		n++
	}
	return n
}

// LastSector is the final sector occupied by the file (inclusive).
func (e CatalogEntry) LastSector() int {
	n := e.SectorCount()
	if n == 0 {
		return e.StartSector()
	}
	return e.StartSector() + n - 1
}

// HasName reports whether this entry matches the given directory and
// (space-trimmed, case-insensitive) name.
func (e CatalogEntry) HasName(dir byte, name string) bool {
	if e.Directory() != dir {
		return false
	}
	return strings.EqualFold(e.Name(), strings.TrimRight(name, " "))
}

// catalogSectorsForFormat returns how many sectors one catalog
// fragment occupies; every format this module supports uses 2.
const catalogSectorsForFormat = 2

// CatalogFragment is one two-sector catalog: a names sector followed
// by a metadata sector. Acorn DFS has exactly one; Watford DFS has two
// (the second living at sectors 2-3, recognized by Watford's 0xAA
// marker bytes).
type CatalogFragment struct {
	Title                string
	SequenceNumber       byte
	Boot                 BootSetting
	TotalSectors         int
	PositionOfLastEntry  int // byte offset, multiple of 8, <= 31*8 (or 62*8 Watford second half)
	names, meta          []byte
}

func byteToASCII7(b byte) byte {
	return b & 0x7F
}

func convertTitle(s0, s1 []byte) string {
	var b strings.Builder
	done := false
	for i := 0; i < 8; i++ {
		if s0[i] == 0 {
			done = true
			break
		}
		b.WriteByte(byteToASCII7(s0[i]))
	}
	if !done {
		for i := 0; i < 4; i++ {
			if s1[i] == 0 {
				break
			}
			b.WriteByte(byteToASCII7(s1[i]))
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// NewCatalogFragment parses a fragment from its two raw sectors
// (names, the title/name sector, and meta, the metadata sector).
func NewCatalogFragment(format types.Format, names, meta []byte) (*CatalogFragment, error) {
	if len(names) < 8*32 || len(meta) < 8*32 {
		return nil, dfserrors.EOFInCatalog()
	}
	f := &CatalogFragment{
		Title:               convertTitle(names, meta),
		SequenceNumber:      meta[4],
		PositionOfLastEntry: int(meta[5]),
		names:               names,
		meta:                meta,
	}
	switch (meta[6] >> 4) & 3 {
	case 0:
		f.Boot = BootNone
	case 1:
		f.Boot = BootLoad
	case 2:
		f.Boot = BootRun
	case 3:
		f.Boot = BootExec
	}
	total := int(meta[7]) | int(meta[6]&3)<<8
	if format == types.FormatHDFS && names[0]&0x80 != 0 {
		total |= 1 << 9
	}
	f.TotalSectors = total
	if f.PositionOfLastEntry%8 != 0 {
		return nil, dfserrors.BadFileSystemf("position of last catalog entry is not a multiple of 8")
	}
	return f, nil
}

// entryAt returns the entry whose name/metadata begin at the given
// byte offset within the fragment's two sectors (offset is a multiple
// of 8, first entry at 8).
func (f *CatalogFragment) entryAt(offset int) CatalogEntry {
	return CatalogEntry{
		rawName: f.names[offset : offset+8],
		rawMeta: f.meta[offset : offset+8],
	}
}

// Entries returns this fragment's entries in on-disc order.
func (f *CatalogFragment) Entries() []CatalogEntry {
	var out []CatalogEntry
	for off := 8; off <= f.PositionOfLastEntry; off += 8 {
		out = append(out, f.entryAt(off))
	}
	return out
}

// FindByName looks up a single entry by directory+name within this fragment.
func (f *CatalogFragment) FindByName(dir byte, name string) (CatalogEntry, bool) {
	for _, e := range f.Entries() {
		if e.HasName(dir, name) {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// Catalog is one or more fragments: a single fragment for Acorn DFS
// and HDFS, exactly two for Watford DFS.
type Catalog struct {
	Format    types.Format
	Fragments []*CatalogFragment
}

// ReadCatalog reads and parses the catalog at the given origin LBA
// (normally 0) for the given format. For Watford DFS, a second
// fragment is read from origin+2.
func ReadCatalog(dev blockdev.BlockDevice, format types.Format, origin uint32) (*Catalog, error) {
	frag, err := readFragment(dev, format, origin)
	if err != nil {
		return nil, err
	}
	c := &Catalog{Format: format, Fragments: []*CatalogFragment{frag}}
	if format == types.FormatWatford {
		frag2, err := readFragment(dev, format, origin+2)
		if err != nil {
			return nil, err
		}
		c.Fragments = append(c.Fragments, frag2)
	}
	return c, nil
}

func readFragment(dev blockdev.BlockDevice, format types.Format, origin uint32) (*CatalogFragment, error) {
	names, ok, err := dev.ReadBlock(origin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dfserrors.EOFInCatalog()
	}
	meta, ok, err := dev.ReadBlock(origin + 1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dfserrors.EOFInCatalog()
	}
	return NewCatalogFragment(format, names, meta)
}

// Title is the primary fragment's disc title.
func (c *Catalog) Title() string { return c.Fragments[0].Title }

// Boot is the primary fragment's boot option.
func (c *Catalog) Boot() BootSetting { return c.Fragments[0].Boot }

// TotalSectors is the primary fragment's declared medium size.
func (c *Catalog) TotalSectors() int { return c.Fragments[0].TotalSectors }

// MaxFileCount is 62 for Watford DFS, 31 otherwise.
func (c *Catalog) MaxFileCount() int {
	if c.Format == types.FormatWatford {
		return 62
	}
	return 31
}

// Entries returns all entries across every fragment, in on-disc order
// (fragment 0 first, then fragment 1 if present).
func (c *Catalog) Entries() []CatalogEntry {
	var out []CatalogEntry
	for _, f := range c.Fragments {
		out = append(out, f.Entries()...)
	}
	return out
}

// Find looks up a single entry by directory and name.
func (c *Catalog) Find(dir byte, name string) (CatalogEntry, bool) {
	for _, f := range c.Fragments {
		if e, ok := f.FindByName(dir, name); ok {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// Validate checks the invariant that every entry's occupied sectors
// fit within the declared total, returning a BadFileSystem error
// naming the first violation found.
func (c *Catalog) Validate() error {
	total := c.TotalSectors()
	for _, e := range c.Entries() {
		if e.StartSector()+e.SectorCount() > total {
			return dfserrors.BadFileSystemf(
				"entry %s: start sector %d plus %d sectors exceeds total sectors %d",
				e.FullName(), e.StartSector(), e.SectorCount(), total)
		}
	}
	return nil
}

// VisitBody calls f once per occupied sector of entry's body, in
// order, stopping (without error) if f returns false. It fails with
// BadFileSystem if the file would extend past the medium.
func VisitBody(dev blockdev.BlockDevice, e CatalogEntry, f func(data []byte) bool) error {
	remaining := int(e.Length())
	for sec := e.StartSector(); sec <= e.LastSector(); sec++ {
		data, ok, err := dev.ReadBlock(uint32(sec))
		if err != nil {
			return err
		}
		if !ok {
			return dfserrors.BadFileSystemf("file %s: end of media during file body at sector %d", e.FullName(), sec)
		}
		n := remaining
		if n > blockdev.SectorSize {
			n = blockdev.SectorSize
		}
		if !f(data[:n]) {
			return nil
		}
		remaining -= n
	}
	return nil
}

// SectorOwner names what a sector in the sector-ownership view belongs to.
type SectorOwner struct {
	// Self is true for a catalog sector (the catalog owns itself).
	Self bool
	// Entry, when non-nil, is the file occupying this sector.
	Entry *CatalogEntry
}

// MapSectors fills out, a slice of length catalog_origin + total
// sectors, with an owner for every catalog and file-body sector this
// catalog knows about. Unowned (free) sectors are left as their zero
// value. catalogOriginLBA and dataOriginLBA let the caller place the
// catalog and its files at different absolute offsets, as Opus DDOS
// requires for each of its sub-volumes.
func (c *Catalog) MapSectors(catalogOriginLBA, dataOriginLBA uint32, out []SectorOwner) {
	for i := 0; i < catalogSectorsForFormat*len(c.Fragments); i++ {
		idx := int(catalogOriginLBA) + i
		if idx < len(out) {
			out[idx] = SectorOwner{Self: true}
		}
	}
	for _, e := range c.Entries() {
		entry := e
		for s := e.StartSector(); s <= e.LastSector(); s++ {
			idx := int(dataOriginLBA) + s
			if idx >= 0 && idx < len(out) {
				out[idx] = SectorOwner{Entry: &entry}
			}
		}
	}
}
