package blockdev

// SectorCache wraps a BlockDevice with a write-through, unbounded
// cache of recently read sectors keyed by LBA. It is not safe for
// concurrent use - the concurrency model is strictly single-threaded
// (see the module's concurrency notes).
type SectorCache struct {
	Underlying BlockDevice
	cache      map[uint32][]byte
	miss       map[uint32]bool
}

// NewSectorCache wraps dev with a cache.
func NewSectorCache(dev BlockDevice) *SectorCache {
	return &SectorCache{
		Underlying: dev,
		cache:      make(map[uint32][]byte),
		miss:       make(map[uint32]bool),
	}
}

// ReadBlock implements BlockDevice.
func (c *SectorCache) ReadBlock(lba uint32) ([]byte, bool, error) {
	if data, ok := c.cache[lba]; ok {
		return data, true, nil
	}
	if c.miss[lba] {
		return nil, false, nil
	}
	data, ok, err := c.Underlying.ReadBlock(lba)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		c.miss[lba] = true
		return nil, false, nil
	}
	c.cache[lba] = data
	return data, true, nil
}

var _ BlockDevice = (*SectorCache)(nil)
