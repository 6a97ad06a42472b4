// Package geometry probes a disc image of unknown structure to
// discover its physical layout (cylinders, heads, sectors-per-track,
// encoding, interleaving) and filesystem format, by building
// candidate geometries and filtering them against what a catalog
// parse on each candidate actually shows.
package geometry

import (
	"path/filepath"
	"strings"

	"github.com/bbcmicro/dfstools/dfs"
	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/disk/image"
	"github.com/bbcmicro/dfstools/types"
)

// Result is the outcome of a successful probe.
type Result struct {
	Format types.Format
	Geom   types.Geometry
}

// hints describes what an extension tells us, narrowing the
// candidate list built in step 1 of the probing procedure.
type hints struct {
	interleavedKnown bool
	interleaved      bool
	encodingKnown    bool
	encoding         types.Encoding
}

func hintsFromFilename(name string) hints {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ssd":
		return hints{interleavedKnown: true, interleaved: false, encodingKnown: true, encoding: types.EncodingFM}
	case ".sdd":
		return hints{interleavedKnown: true, interleaved: false, encodingKnown: true, encoding: types.EncodingMFM}
	case ".dsd":
		return hints{interleavedKnown: true, interleaved: true, encodingKnown: true, encoding: types.EncodingFM}
	case ".ddd":
		return hints{interleavedKnown: true, interleaved: true, encodingKnown: true, encoding: types.EncodingMFM}
	default:
		return hints{}
	}
}

func sectorsPerTrackOptions(enc types.Encoding) []int {
	if enc == types.EncodingFM {
		return []int{10}
	}
	return []int{18, 16}
}

// buildCandidates enumerates every (encoding, sides, tracks,
// sectors-per-track, interleaved) combination consistent with h, per
// the procedure's step 1.
func buildCandidates(h hints) []types.Geometry {
	encodings := []types.Encoding{types.EncodingFM, types.EncodingMFM}
	if h.encodingKnown {
		encodings = []types.Encoding{h.encoding}
	}
	sidesOptions := []int{1, 2}
	tracksOptions := []int{40, 80, 35}
	interleaveOptions := []bool{false, true}
	if h.interleavedKnown {
		interleaveOptions = []bool{h.interleaved}
	}

	var out []types.Geometry
	for _, enc := range encodings {
		for _, sides := range sidesOptions {
			for _, tracks := range tracksOptions {
				for _, spt := range sectorsPerTrackOptions(enc) {
					for _, interleaved := range interleaveOptions {
						out = append(out, types.Geometry{
							Cylinders:       tracks,
							Heads:           sides,
							SectorsPerTrack: spt,
							Encoding:        enc,
							Interleaved:     interleaved,
						})
					}
				}
			}
		}
	}
	return out
}

// identification is what step 2 discovers about one candidate: the
// filesystem format and its self-declared total sector count (which
// may legitimately differ from the candidate geometry's own total,
// and is what step 3 filters on).
type identification struct {
	format       types.Format
	totalSectors int
}

func dfsDeclaredTotal(sec1 []byte) int {
	return int(sec1[7]) | int(sec1[6]&3)<<8
}

// identifyDevice works out which format (if any) dev smells like,
// mirroring the precedence in the procedure: HDFS, then Watford, then
// Opus DDOS, then plain Acorn DFS.
func identifyDevice(dev blockdev.BlockDevice, geom types.Geometry) (identification, bool) {
	sec1, ok, err := dev.ReadBlock(1)
	if err != nil || !ok || len(sec1) < 8 {
		return identification{}, false
	}

	if sec1[6]&(1<<3) != 0 {
		return identification{format: types.FormatHDFS, totalSectors: dfsDeclaredTotal(sec1) | 1<<9}, true
	}

	if smellsLikeWatford(dev, sec1) {
		return identification{format: types.FormatWatford, totalSectors: dfsDeclaredTotal(sec1)}, true
	}

	if total, ok := smellsLikeOpusDDOS(dev, geom); ok {
		return identification{format: types.FormatOpusDDOS, totalSectors: total}, true
	}

	cat, err := dfs.ReadCatalog(dev, types.FormatAcorn, 0)
	if err != nil || cat.Validate() != nil {
		return identification{}, false
	}
	return identification{format: types.FormatAcorn, totalSectors: cat.TotalSectors()}, true
}

// identify is identifyDevice for a not-yet-opened surface of c.
func identify(c image.Container, n int, geom types.Geometry) (identification, bool) {
	dev, err := c.Surface(n, geom)
	if err != nil {
		return identification{}, false
	}
	return identifyDevice(dev, geom)
}

// smellsLikeWatford checks sector 2's 0xAA recognition marker and
// that no catalog entry legitimately owns sector 2 as a file start.
func smellsLikeWatford(dev blockdev.BlockDevice, sec1 []byte) bool {
	sec2, ok, err := dev.ReadBlock(2)
	if err != nil || !ok || len(sec2) < 8 {
		return false
	}
	for i := 0; i < 8; i++ {
		if sec2[i] != 0xAA {
			return false
		}
	}
	cat, err := dfs.ReadCatalog(dev, types.FormatAcorn, 0)
	if err != nil {
		return false
	}
	for _, e := range cat.Entries() {
		if e.StartSector() == 2 {
			return false
		}
	}
	return true
}

// smellsLikeOpusDDOS checks sector 16 for a self-consistent Opus DDOS
// volume catalog: sectors-per-track 18, declared total sectors one of
// 630/720/1440, all listed sub-volumes' start tracks in range, and
// (since this is only a smell test, not a full mount) each listed
// sub-volume's own root catalog validates.
func smellsLikeOpusDDOS(dev blockdev.BlockDevice, geom types.Geometry) (int, bool) {
	if geom.SectorsPerTrack != 18 {
		return 0, false
	}
	disc, err := dfs.ReadOpusDiscCatalogue(dev, nil)
	if err != nil {
		return 0, false
	}
	switch disc.TotalSectors {
	case 630, 720, 1440:
	default:
		return 0, false
	}
	if disc.SectorsPerTrack != 18 {
		return 0, false
	}
	for _, v := range disc.Volumes {
		cat, err := dfs.ReadCatalog(dev, types.FormatOpusDDOS, uint32(v.StartSector))
		if err != nil || cat.Validate() != nil {
			return 0, false
		}
	}
	return disc.TotalSectors, true
}

type survivor struct {
	geom types.Geometry
	id   identification
}

// Probe implements the five-step candidate-enumeration procedure.
func Probe(c image.Container, filenameHint string) (Result, error) {
	candidates := buildCandidates(hintsFromFilename(filenameHint))

	var alive []survivor
	for _, geom := range candidates {
		if id, ok := identify(c, 0, geom); ok {
			alive = append(alive, survivor{geom: geom, id: id})
		}
	}
	if len(alive) == 0 {
		return Result{}, dfserrors.Unrecognizedf("could not identify a filesystem format on this medium")
	}

	// Step 3: a candidate survives only if it can actually supply the
	// declared total sector count. For single-sided filesystems, only
	// one side's sectors count.
	var sized []survivor
	for _, s := range alive {
		sidesThatCount := s.geom.Heads
		if s.id.format != types.FormatOpusDDOS && s.geom.Heads > 1 {
			sidesThatCount = 1
		}
		available := s.geom.Cylinders * s.geom.SectorsPerTrack * sidesThatCount
		if available >= s.id.totalSectors {
			sized = append(sized, s)
		}
	}
	if len(sized) == 0 {
		return Result{}, dfserrors.BadFileSystemf("no candidate geometry supplies enough sectors for its own declared catalog size")
	}

	// Step 4: disambiguate 40t/2-side from 80t/1-side by requiring a
	// second catalog on side 1 when geometry implies one (Opus DDOS
	// places all its volume catalogs on side 0, so it's exempt).
	var confirmed []survivor
	for _, s := range sized {
		if s.geom.Heads == 2 && s.id.format != types.FormatOpusDDOS {
			if _, ok := identify(c, 1, s.geom); !ok {
				continue
			}
		}
		confirmed = append(confirmed, s)
	}
	if len(confirmed) == 0 {
		confirmed = sized
	}

	// Step 5: prefer 10/18 spt over 16, then smallest total sectors.
	best := confirmed[0]
	for _, s := range confirmed[1:] {
		if sptRank(s.geom.SectorsPerTrack) != sptRank(best.geom.SectorsPerTrack) {
			if sptRank(s.geom.SectorsPerTrack) < sptRank(best.geom.SectorsPerTrack) {
				best = s
			}
			continue
		}
		if s.geom.TotalSectors() < best.geom.TotalSectors() {
			best = s
		}
	}

	ties := 0
	for _, s := range confirmed {
		if sptRank(s.geom.SectorsPerTrack) == sptRank(best.geom.SectorsPerTrack) &&
			s.geom.TotalSectors() == best.geom.TotalSectors() &&
			s.id.format != best.id.format {
			ties++
		}
	}
	if ties > 0 {
		return Result{}, dfserrors.FailedToGuessFormatf("multiple equally plausible geometries remain after filtering")
	}

	return Result{Format: best.id.format, Geom: best.geom}, nil
}

func sptRank(spt int) int {
	if spt == 16 {
		return 1
	}
	return 0
}
