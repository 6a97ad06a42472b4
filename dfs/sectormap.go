package dfs

import "github.com/bbcmicro/dfstools/types"

// SectorMap builds the sector-ownership view of an entire mounted
// filesystem: one SectorOwner per sector of the surface, naming the
// catalog or file that owns it (the zero value means "free").
func (fs *FileSystem) SectorMap() []SectorOwner {
	out := make([]SectorOwner, fs.Geom.TotalSectors())

	if fs.Format == types.FormatOpusDDOS {
		disc, err := ReadOpusDiscCatalogue(fs.Device, &fs.Geom)
		if err == nil {
			disc.MapSectors(out)
		}
	}

	for _, vol := range fs.volumes {
		vol.Root.MapSectors(vol.CatalogLoc, vol.DataOrigin, out)
	}
	return out
}

// FreeSectors reports the count of sectors in the view that belong to
// neither a catalog nor a file.
func FreeSectors(view []SectorOwner) int {
	n := 0
	for _, o := range view {
		if !o.Self && o.Entry == nil {
			n++
		}
	}
	return n
}
