package coherence

// msiLine is one directory frame under MSI: a line state plus a
// sharer vector. Tag is not tracked here — it is probed from the nearest
// sharer's cache when needed.
type msiLine struct {
	state   CacheState
	sharers [NumProcessors]bool
}

// MSIDirectory is the authoritative coherence state for the MSI protocol.
// It holds a back-reference to every connected cache's handle,
// indexed by processor id, and mutates them to realize invalidations and
// forwards.
type MSIDirectory struct {
	lines   []msiLine
	handles []CacheHandle
	stats   *Stats
}

var _ Directory = (*MSIDirectory)(nil)

// NewMSIDirectory builds an empty directory (every frame Invalid, no
// sharers).
func NewMSIDirectory(stats *Stats) *MSIDirectory {
	return &MSIDirectory{
		lines: make([]msiLine, NumCacheBlocks),
		stats: stats,
	}
}

func (d *MSIDirectory) Connect(h CacheHandle) {
	d.handles = append(d.handles, h)
}

func (d *MSIDirectory) sharerList(line *msiLine) []int {
	var sharers []int

	for i, set := range line.sharers {
		if set {
			sharers = append(sharers, i)
		}
	}

	return sharers
}

func (d *MSIDirectory) invalidateSharer(p, index int) {
	d.stats.InvalidationsSent++
	d.handles[p].Invalidate(index)
}

// ReadMiss implements the MSI read-miss handler.
func (d *MSIDirectory) ReadMiss(index int, tag uint32, p int) CacheState {
	d.stats.RaiseClass(Remote)
	d.stats.ProcDirHop()

	line := &d.lines[index]
	d.stats.DirectoryAccess()

	if line.state == Shared || line.state == Modified {
		sharers := d.sharerList(line)

		closest := closestSharer(sharers, p)
		if closest != -1 {
			d.stats.ProcDirHop()

			closestTag, closestState := d.handles[closest].Probe(index)
			if closestTag != tag {
				// Stale frame: invalidate every
				// sharer of the old mapping, then fall through to memory.
				for _, s := range sharers {
					d.invalidateSharer(s, index)
					line.sharers[s] = false
				}

				line.state = Invalid
			} else {
				d.stats.CacheAccess()

				dist := Distance(p, closest)
				for range dist {
					d.stats.RingHop()
				}

				if closestState == Modified {
					d.handles[closest].ForceState(index, Shared)
					d.stats.CoherenceWritebacks++
				}

				line.sharers[p] = true
				line.state = Shared

				return Shared
			}
		}
	}

	// No sharers, or the only sharers were stale and have been
	// invalidated: fetch from memory.
	d.stats.MemoryLatency()
	d.stats.RaiseClass(OffChip)
	line.sharers[p] = true
	line.state = Shared
	d.stats.ProcDirHop()

	return Shared
}

// WriteMiss implements the MSI write-miss handler.
func (d *MSIDirectory) WriteMiss(index int, tag uint32, p int) {
	d.stats.ProcDirHop()
	d.stats.RaiseClass(Remote)

	line := &d.lines[index]
	d.stats.DirectoryAccess()

	numOtherSharers := 0
	for i, set := range line.sharers {
		if set && i != p {
			numOtherSharers++
		}
	}

	if line.state == Shared || line.state == Modified {
		if numOtherSharers == 0 {
			// p is already the sole sharer of this frame: the directory
			// simply grants exclusivity with one more hop. This branch
			// is also taken when p is replacing its own line with a new
			// tag; no memory access is charged in that case either.
			d.stats.ProcDirHop()
			line.sharers[p] = true
			line.state = Modified

			return
		}

		sharers := d.sharerList(line)
		closest := closestSharer(sharers, p)
		furthest := furthestSharer(sharers, p)

		d.stats.ProcDirHop()

		closestTag, _ := d.handles[closest].Probe(index)
		forward := closestTag == tag

		localInvalid := !line.sharers[p]

		for _, s := range sharers {
			if s == closest && localInvalid && forward && numOtherSharers == 1 {
				d.stats.CacheAccess()
			}

			d.invalidateSharer(s, index)
		}

		dist := Distance(p, furthest)
		for range dist {
			d.stats.RingHop()
		}

		for _, s := range sharers {
			line.sharers[s] = false
		}

		line.sharers[p] = true
		line.state = Modified

		return
	}

	// No sharers: fetch exclusive ownership from memory.
	d.stats.MemoryLatency()
	d.stats.RaiseClass(OffChip)
	line.sharers[p] = true
	line.state = Modified
	d.stats.ProcDirHop()
}
