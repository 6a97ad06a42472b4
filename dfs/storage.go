package dfs

import (
	"sort"

	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/blockdev"
	"github.com/bbcmicro/dfstools/types"
)

// DriveConfig binds an optional filesystem format to a block device;
// a nil Format means the surface is present but unformatted.
type DriveConfig struct {
	Format *types.Format
	Geom   types.Geometry
	Device blockdev.BlockDevice
}

// StorageConfiguration maps surface numbers to DriveConfigs, the way
// a BBC Micro's filing system maps drive numbers to physical drives.
type StorageConfiguration struct {
	drives map[int]*DriveConfig
}

// NewStorageConfiguration returns an empty configuration.
func NewStorageConfiguration() *StorageConfiguration {
	return &StorageConfiguration{drives: map[int]*DriveConfig{}}
}

func (sc *StorageConfiguration) isConnected(n int) bool {
	_, ok := sc.drives[n]
	return ok
}

func oppositeSurface(n int) int {
	if n%2 == 0 {
		return n + 1
	}
	return n - 1
}

// ConnectDrives connects a sequence of drives (each may be nil for an
// empty slot) under the given allocation policy. AllocationFirst
// assigns the next free surface to each in turn; AllocationPhysical
// finds a run of free surface pairs (n, n+2, n+4, ...) so a
// multi-sided image occupies the same surfaces a physical drive
// would. It reports false if no placement could be found.
func (sc *StorageConfiguration) ConnectDrives(drives []*DriveConfig, how types.AllocationPolicy) bool {
	if how == types.AllocationPhysical {
		for n := 0; ; n++ {
			if sc.sequenceFits(n, len(drives)) {
				pos := n
				for _, d := range drives {
					sc.connect(pos, d)
					pos += 2
				}
				return true
			}
			if n > 1<<20 {
				return false // pathologically large configuration; give up
			}
		}
	}

	n := 0
	placed := 0
	for placed < len(drives) {
		for sc.isConnected(n) {
			n++
		}
		sc.connect(n, drives[placed])
		placed++
		n++
	}
	return true
}

func (sc *StorageConfiguration) sequenceFits(start, count int) bool {
	if sc.isConnected(start) || sc.isConnected(oppositeSurface(start)) {
		return false
	}
	n := start
	for i := 0; i < count; i++ {
		if sc.isConnected(n) {
			return false
		}
		n += 2
	}
	return true
}

func (sc *StorageConfiguration) connect(n int, cfg *DriveConfig) {
	sc.drives[n] = cfg
}

// Format returns the format mounted at the given surface, or an error
// if the surface is empty.
func (sc *StorageConfiguration) Format(surface int) (*types.Format, error) {
	cfg, ok := sc.drives[surface]
	if !ok {
		return nil, dfserrors.MediaNotPresentf("there is no disc in drive %d", surface)
	}
	return cfg.Format, nil
}

// Mount resolves a VolumeSelector to a FileSystem plus the selected
// Volume. For non-Opus formats sel.Subvolume is ignored; for Opus
// DDOS a zero subvolume defaults to 'A'.
func (sc *StorageConfiguration) Mount(sel VolumeSelector) (*FileSystem, *Volume, error) {
	cfg, ok := sc.drives[sel.Surface]
	if !ok {
		return nil, nil, dfserrors.MediaNotPresentf("there is no disc in drive %d", sel.Surface)
	}
	if cfg == nil || cfg.Format == nil {
		return nil, nil, dfserrors.MediaNotPresentf("the disc in drive %d is unformatted", sel.Surface)
	}
	fs, err := Mount(cfg.Device, *cfg.Format, cfg.Geom)
	if err != nil {
		return nil, nil, err
	}
	letter := byte(0)
	if *cfg.Format == types.FormatOpusDDOS {
		letter = sel.EffectiveSubvolume()
	}
	vol, err := fs.Subvolume(letter)
	if err != nil {
		return nil, nil, err
	}
	return fs, vol, nil
}

// OccupiedSurfaces lists every connected surface number, ascending.
func (sc *StorageConfiguration) OccupiedSurfaces() []int {
	out := make([]int, 0, len(sc.drives))
	for n := range sc.drives {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
