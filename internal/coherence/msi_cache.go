package coherence

// MSICache is a direct-mapped, write-back, write-allocate private cache
// speaking the MSI protocol. It owns no data — only {state,
// tag} per frame.
type MSICache struct {
	id    int
	lines []CacheLine
	dir   Directory
	stats *Stats
}

var _ Cache = (*MSICache)(nil)

// NewMSICache builds a cache for processor id and connects it to dir.
// Callers must construct caches in increasing id order so the directory's
// handle registry lines up with processor ids.
func NewMSICache(id int, dir Directory, stats *Stats) *MSICache {
	c := &MSICache{
		id:    id,
		lines: make([]CacheLine, NumCacheBlocks),
		dir:   dir,
		stats: stats,
	}
	dir.Connect(c)

	return c
}

func (c *MSICache) ID() int { return c.id }

// Line returns a snapshot of the line at index, for inspection by tests
// and the 'p' trace directive. Does not charge any cycles.
func (c *MSICache) Line(index int) CacheLine { return c.lines[index] }

// Probe implements CacheHandle: a directory-initiated tag/state read.
func (c *MSICache) Probe(index int) (uint32, CacheState) {
	c.stats.CacheProbe()

	return c.lines[index].Tag, c.lines[index].State
}

// ForceState implements CacheHandle: a directory-driven downgrade that
// leaves the tag untouched.
func (c *MSICache) ForceState(index int, state CacheState) {
	c.lines[index].State = state
}

// Invalidate implements CacheHandle.
func (c *MSICache) Invalidate(index int) {
	line := &c.lines[index]
	if line.State == Modified {
		c.stats.CoherenceWritebacks++
	}

	line.State = Invalid
	line.Tag = 0
}

// Read implements the local-hit/miss decision for loads.
func (c *MSICache) Read(addr uint32) {
	index, tag := DecodeAddress(addr)
	c.stats.CacheProbe()

	line := &c.lines[index]
	if line.Tag == tag && (line.State == Modified || line.State == Shared) {
		c.stats.CacheAccess()

		return
	}

	if line.State == Modified && line.Tag != tag {
		c.stats.ReplacementWritebacks++
	}

	newState := c.dir.ReadMiss(index, tag, c.id)
	line.State = newState
	line.Tag = tag

	// Re-issue the read now that the line is installed; this is the
	// hit path and charges its own probe + access.
	c.Read(addr)
}

// Write implements the local-hit/miss decision for stores.
func (c *MSICache) Write(addr uint32) {
	index, tag := DecodeAddress(addr)
	c.stats.CacheProbe()

	line := &c.lines[index]
	if line.State == Modified && line.Tag == tag {
		c.stats.CacheAccess()

		return
	}

	if line.State == Modified && line.Tag != tag {
		c.stats.ReplacementWritebacks++
	}

	c.dir.WriteMiss(index, tag, c.id)
	line.State = Modified
	line.Tag = tag

	c.Write(addr)
}
