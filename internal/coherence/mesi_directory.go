package coherence

// MESIDirectory is the authoritative coherence state for the MESI
// protocol. Unlike MSIDirectory it keeps a full per-frame replica
// of every cache's believed {tag, state} rather than a bare sharer
// vector, because every downgrade in MESI is directory-forced and the
// silent E->M upgrade is written into the replica by MESICache.Write: the
// replica can never drift from what each cache actually holds, so reads
// never need to probe a cache to detect a stale tag the way MSI does.
type MESIDirectory struct {
	lines   [][NumProcessors]CacheLine
	handles []CacheHandle
	stats   *Stats
}

var _ Directory = (*MESIDirectory)(nil)

// NewMESIDirectory builds an empty directory (every replica entry
// Invalid).
func NewMESIDirectory(stats *Stats) *MESIDirectory {
	return &MESIDirectory{
		lines: make([][NumProcessors]CacheLine, NumCacheBlocks),
		stats: stats,
	}
}

func (d *MESIDirectory) Connect(h CacheHandle) {
	d.handles = append(d.handles, h)
}

// sharersOf returns every processor other than p whose replica entry at
// index matches tag and is not Invalid.
func (d *MESIDirectory) sharersOf(index int, tag uint32, p int) []int {
	var sharers []int

	entry := &d.lines[index]
	for i := range entry {
		if i == p {
			continue
		}

		if entry[i].State != Invalid && entry[i].Tag == tag {
			sharers = append(sharers, i)
		}
	}

	return sharers
}

func (d *MESIDirectory) invalidateSharer(index, s int) {
	d.stats.InvalidationsSent++
	d.handles[s].Invalidate(index)
	d.lines[index][s] = CacheLine{}
}

// ReadMiss implements the MESI read-miss handler.
func (d *MESIDirectory) ReadMiss(index int, tag uint32, p int) CacheState {
	d.stats.ProcDirHop()
	d.stats.RaiseClass(Remote)
	d.stats.DirectoryAccess()

	sharers := d.sharersOf(index, tag, p)

	if len(sharers) == 0 {
		d.stats.MemoryLatency()
		d.stats.RaiseClass(OffChip)
		d.lines[index][p] = CacheLine{Tag: tag, State: Exclusive}
		d.stats.ProcDirHop()

		return Exclusive
	}

	closest := closestSharer(sharers, p)

	// A second processor-directory hop carries the forward request to the
	// closest sharer. The directory already knows (tag, state) from its
	// replica, so it charges the probe and access itself rather than
	// calling Probe on the sharer's handle (which would double-charge).
	d.stats.ProcDirHop()
	d.stats.CacheProbe()
	d.stats.CacheAccess()

	dist := Distance(p, closest)
	for range dist {
		d.stats.RingHop()
	}

	entry := &d.lines[index]
	switch entry[closest].State {
	case Modified:
		d.handles[closest].ForceState(index, Shared)
		entry[closest].State = Shared
		d.stats.CoherenceWritebacks++
	case Exclusive:
		d.handles[closest].ForceState(index, Shared)
		entry[closest].State = Shared
	}

	entry[p] = CacheLine{Tag: tag, State: Shared}

	return Shared
}

// WriteMiss implements the MESI write-miss handler.
func (d *MESIDirectory) WriteMiss(index int, tag uint32, p int) {
	d.stats.ProcDirHop()
	d.stats.RaiseClass(Remote)
	d.stats.DirectoryAccess()

	sharers := d.sharersOf(index, tag, p)
	local := d.lines[index][p]

	if len(sharers) == 0 {
		if local.State == Shared && local.Tag == tag {
			// p already holds this frame Shared (an Exclusive or Modified
			// hit never reaches the directory) and is the sole holder:
			// grant exclusivity without touching memory.
			d.stats.ProcDirHop()
			d.lines[index][p] = CacheLine{Tag: tag, State: Modified}

			return
		}

		d.stats.MemoryLatency()
		d.stats.RaiseClass(OffChip)
		d.lines[index][p] = CacheLine{Tag: tag, State: Modified}
		d.stats.ProcDirHop()

		return
	}

	closest := closestSharer(sharers, p)
	furthest := furthestSharer(sharers, p)

	// A second hop carries the invalidate/forward request to the sharers;
	// the closest one's probe is charged once regardless of sharer count.
	d.stats.ProcDirHop()
	d.stats.CacheProbe()

	localInvalid := local.State == Invalid

	for _, s := range sharers {
		if s == closest && localInvalid && len(sharers) == 1 {
			d.stats.CacheAccess()
		}

		d.invalidateSharer(index, s)
	}

	dist := Distance(p, furthest)
	for range dist {
		d.stats.RingHop()
	}

	d.lines[index][p] = CacheLine{Tag: tag, State: Modified}
}
