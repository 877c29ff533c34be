package coherence

// MESICache is the MESI-protocol cache. It adds the
// Exclusive state to MSI's Read/Write decision: a write hit on an
// Exclusive line upgrades to Modified silently, without any directory
// traffic, since the requester is already known to be the sole holder.
type MESICache struct {
	id    int
	lines []CacheLine
	dir   Directory
	stats *Stats
}

var _ Cache = (*MESICache)(nil)

// NewMESICache builds a cache for processor id and connects it to dir.
// Callers must construct caches in increasing id order so the directory's
// handle registry lines up with processor ids.
func NewMESICache(id int, dir Directory, stats *Stats) *MESICache {
	c := &MESICache{
		id:    id,
		lines: make([]CacheLine, NumCacheBlocks),
		dir:   dir,
		stats: stats,
	}
	dir.Connect(c)

	return c
}

func (c *MESICache) ID() int { return c.id }

// Line returns a snapshot of the line at index, for inspection by tests
// and the 'p' trace directive. Does not charge any cycles.
func (c *MESICache) Line(index int) CacheLine { return c.lines[index] }

// Probe implements CacheHandle. The MESI directory keeps its own mirrored
// tags and never calls this; it is kept for interface symmetry with MSI.
func (c *MESICache) Probe(index int) (uint32, CacheState) {
	c.stats.CacheProbe()

	return c.lines[index].Tag, c.lines[index].State
}

// ForceState implements CacheHandle: a directory-driven downgrade that
// leaves the tag untouched.
func (c *MESICache) ForceState(index int, state CacheState) {
	c.lines[index].State = state
}

// Invalidate implements CacheHandle.
func (c *MESICache) Invalidate(index int) {
	line := &c.lines[index]
	if line.State == Modified {
		c.stats.CoherenceWritebacks++
	}

	line.State = Invalid
	line.Tag = 0
}

// Read implements the local-hit/miss decision for loads: a hit on any
// of Modified, Exclusive, or Shared satisfies the reference locally.
func (c *MESICache) Read(addr uint32) {
	index, tag := DecodeAddress(addr)
	c.stats.CacheProbe()

	line := &c.lines[index]
	if line.Tag == tag && line.State != Invalid {
		c.stats.CacheAccess()

		return
	}

	if line.State == Modified && line.Tag != tag {
		c.stats.ReplacementWritebacks++
	}

	newState := c.dir.ReadMiss(index, tag, c.id)
	line.State = newState
	line.Tag = tag

	c.Read(addr)
}

// Write implements the local-hit/miss decision for stores. An
// Exclusive hit upgrades to Modified with no directory round trip, since
// the requester already knows it is the sole cached copy.
func (c *MESICache) Write(addr uint32) {
	index, tag := DecodeAddress(addr)
	c.stats.CacheProbe()

	line := &c.lines[index]
	if line.Tag == tag && line.State == Exclusive {
		c.stats.CacheAccess()
		line.State = Modified

		// Keep the MESI directory's replica in step with the silent
		// upgrade; this is bookkeeping only and charges no cycles.
		if md, ok := c.dir.(*MESIDirectory); ok {
			md.lines[index][c.id].State = Modified
		}

		return
	}

	if line.Tag == tag && line.State == Modified {
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
