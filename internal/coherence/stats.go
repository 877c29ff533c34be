package coherence

import "fmt"

// Event costs in cycles.
const (
	costCacheProbe      = 1
	costCacheAccess     = 1
	costSRAMAccess      = 1
	costDirectoryAccess = 1
	costRingHop         = 3
	costProcDirHop      = 5
	costMemoryLatency   = 15
)

// Stats is the cycle-accounting ledger: the current access's running cycle
// count and classification, plus monotonic counters that persist across
// accesses. A single Stats is shared by reference across the simulator, all
// caches, and the directory.
type Stats struct {
	// Verbose narrates every charged event when true (toggled by the trace
	// 'v' directive). This simulator has no logging-library dependency,
	// same as the teacher: narration goes straight to the writer below.
	Verbose bool

	cycles     int
	accessType AccessType

	buckets [3][]int // indexed by AccessType

	InvalidationsSent     int
	ReplacementWritebacks int
	CoherenceWritebacks   int

	narrate func(string)
}

// NewStats returns a freshly reset ledger.
func NewStats() *Stats {
	return &Stats{accessType: Private}
}

// SetNarrator installs a callback invoked with a human-readable line for
// every charged event when Verbose is true. A nil narrator (the default)
// disables narration even if Verbose is set.
func (s *Stats) SetNarrator(fn func(string)) {
	s.narrate = fn
}

func (s *Stats) charge(cycles int, label string) {
	s.cycles += cycles

	if s.Verbose && s.narrate != nil {
		s.narrate(fmt.Sprintf("%s. (%d)", label, cycles))
	}
}

// CacheProbe charges a state+tag read.
func (s *Stats) CacheProbe() { s.charge(costCacheProbe, "Cache probe") }

// CacheAccess charges a read/write of the line payload.
func (s *Stats) CacheAccess() { s.charge(costCacheAccess, "Cache access") }

// SRAMAccess charges an SRAM access. Not triggered by any path in
// the MSI/MESI protocols as specified; kept for parity with the original
// ledger's API surface and for components layered on top of this one.
func (s *Stats) SRAMAccess() { s.charge(costSRAMAccess, "SRAM access") }

// DirectoryAccess charges a sharer-vector read.
func (s *Stats) DirectoryAccess() { s.charge(costDirectoryAccess, "Directory access") }

// RingHop charges one ring-adjacency hop.
func (s *Stats) RingHop() { s.charge(costRingHop, "Ring hop") }

// ProcDirHop charges one processor<->directory message.
func (s *Stats) ProcDirHop() { s.charge(costProcDirHop, "Processor-directory hop") }

// MemoryLatency charges a main-memory access.
func (s *Stats) MemoryLatency() { s.charge(costMemoryLatency, "Memory access") }

// RaiseClass escalates the current access's classification. Private <
// Remote < OffChip; escalation only ever moves up.
func (s *Stats) RaiseClass(a AccessType) {
	if a > s.accessType {
		s.accessType = a
	}
}

// AccessClass returns the current access's classification.
func (s *Stats) AccessClass() AccessType { return s.accessType }

// Cycles returns the running cycle count for the access in progress.
func (s *Stats) Cycles() int { return s.cycles }

// Reset zeroes the per-access counters and restores the default
// classification, called after every R/W reference is fully handled.
func (s *Stats) Reset() {
	s.cycles = 0
	s.accessType = Private

	if s.Verbose && s.narrate != nil {
		s.narrate("")
	}
}

// SaveStats commits the current access's cycle count into its class bucket.
// Must be called once per reference, before Reset.
func (s *Stats) SaveStats() {
	s.buckets[s.accessType] = append(s.buckets[s.accessType], s.cycles)
}

// HitRate returns |Private| / total committed accesses, or 0 if none have
// been committed yet.
func (s *Stats) HitRate() float64 {
	total := len(s.buckets[Private]) + len(s.buckets[Remote]) + len(s.buckets[OffChip])
	if total == 0 {
		return 0
	}

	return float64(len(s.buckets[Private])) / float64(total)
}

// Summary is the final, aggregated report.
type Summary struct {
	PrivateAccesses       int
	RemoteAccesses        int
	OffChipAccesses       int
	TotalAccesses         int
	ReplacementWritebacks int
	CoherenceWritebacks   int
	InvalidationsSent     int
	AverageLatency        float64
	PrivAverageLatency    float64
	RemAverageLatency     float64
	OffChipAverageLatency float64
	TotalLatency          int
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}

	return total
}

func meanOrZero(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}

	return float64(sum(xs)) / float64(len(xs))
}

// Summarize aggregates every committed access into the final report.
func (s *Stats) Summarize() Summary {
	priv := len(s.buckets[Private])
	rem := len(s.buckets[Remote])
	off := len(s.buckets[OffChip])
	total := priv + rem + off

	totalLatency := sum(s.buckets[Private]) + sum(s.buckets[Remote]) + sum(s.buckets[OffChip])

	avg := 0.0
	if total > 0 {
		avg = float64(totalLatency) / float64(total)
	}

	return Summary{
		PrivateAccesses:       priv,
		RemoteAccesses:        rem,
		OffChipAccesses:       off,
		TotalAccesses:         total,
		ReplacementWritebacks: s.ReplacementWritebacks,
		CoherenceWritebacks:   s.CoherenceWritebacks,
		InvalidationsSent:     s.InvalidationsSent,
		AverageLatency:        avg,
		PrivAverageLatency:    meanOrZero(s.buckets[Private]),
		RemAverageLatency:     meanOrZero(s.buckets[Remote]),
		OffChipAverageLatency: meanOrZero(s.buckets[OffChip]),
		TotalLatency:          totalLatency,
	}
}
