package coherence

import "fmt"

// Protocol selects which directory implementation a Simulator wires up.
type Protocol int

const (
	MSI Protocol = iota
	MESI
)

// Simulator owns one Stats ledger, one Directory, and the NumProcessors
// caches connected to it. It replays trace references and directives
// against them.
type Simulator struct {
	stats   *Stats
	dir     Directory
	caches  []Cache
	verbose bool
}

// NewSimulator builds a fully wired simulator for the given protocol.
// Caches are constructed in processor-id order 0..NumProcessors-1 so
// their handle registration order matches the id the directory indexes
// them by.
func NewSimulator(proto Protocol) *Simulator {
	stats := NewStats()

	var dir Directory

	switch proto {
	case MESI:
		dir = NewMESIDirectory(stats)
	default:
		dir = NewMSIDirectory(stats)
	}

	sim := &Simulator{stats: stats, dir: dir}

	for id := 0; id < NumProcessors; id++ {
		var c Cache
		if proto == MESI {
			c = NewMESICache(id, dir, stats)
		} else {
			c = NewMSICache(id, dir, stats)
		}

		sim.caches = append(sim.caches, c)
	}

	return sim
}

// SetNarrator installs the callback used to narrate charged events while
// verbose mode is on (the 'v' trace directive).
func (s *Simulator) SetNarrator(fn func(string)) {
	s.stats.SetNarrator(fn)
}

// ToggleVerbose flips narration on/off, mirroring the trace's 'v'
// directive.
func (s *Simulator) ToggleVerbose() {
	s.verbose = !s.verbose
	s.stats.Verbose = s.verbose
}

// Reference dispatches a single R/W trace line against processor p,
// charging and committing the access's cycles. p is zero-indexed.
func (s *Simulator) Reference(p int, write bool, addr uint32) {
	assert(p >= 0 && p < len(s.caches), "processor id %d out of range", p)

	c := s.caches[p]
	if write {
		c.Write(addr)
	} else {
		c.Read(addr)
	}

	s.checkInvariants(addr)

	s.stats.SaveStats()
	s.stats.Reset()
}

// HitRate returns the 'h' directive's value: |Private| / total so far.
func (s *Simulator) HitRate() float64 {
	return s.stats.HitRate()
}

// Summarize returns the final aggregated report.
func (s *Simulator) Summarize() Summary {
	return s.stats.Summarize()
}

// DumpCache renders the 'p' directive's format for processor p: every non-Invalid frame as "index, tag, state".
func (s *Simulator) DumpCache(p int) string {
	assert(p >= 0 && p < len(s.caches), "processor id %d out of range", p)

	c := s.caches[p]

	out := fmt.Sprintf("----P%d----\n", p)

	for i := 0; i < NumCacheBlocks; i++ {
		line := c.Line(i)
		if line.State == Invalid {
			continue
		}

		out += fmt.Sprintf("%d, %d, %s\n", i, line.Tag, line.State)
	}

	return out
}

// checkInvariants enforces the universal per-block invariants after every
// reference: at most one Modified holder and at most one Exclusive
// holder of the referenced block (its index and tag), across all caches.
// Lines at the same index holding a different tag are other blocks and
// are not counted. Violations are bugs in the protocol implementation,
// not malformed input, so they panic rather than being reported as an error.
func (s *Simulator) checkInvariants(addr uint32) {
	index, tag := DecodeAddress(addr)

	modifiedHolders := 0
	exclusiveHolders := 0

	for _, c := range s.caches {
		line := c.Line(index)
		if line.Tag != tag {
			continue
		}

		switch line.State {
		case Modified:
			modifiedHolders++
		case Exclusive:
			exclusiveHolders++
		}
	}

	assert(modifiedHolders <= 1, "frame %d has %d Modified holders", index, modifiedHolders)
	assert(exclusiveHolders <= 1, "frame %d has %d Exclusive holders", index, exclusiveHolders)

	if modifiedHolders == 1 {
		assert(exclusiveHolders == 0, "frame %d is both Modified and Exclusive held", index)
	}
}
