package coherence

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSimulatorDispatchesReferencesAndSavesBuckets(t *testing.T) {
	sim := NewSimulator(MSI)

	sim.Reference(0, true, 1)  // write miss, no sharers: OffChip
	sim.Reference(0, true, 1)  // hit: Private

	sum := sim.Summarize()
	require.Equal(t, 1, sum.PrivateAccesses)
	require.Equal(t, 0, sum.RemoteAccesses)
	require.Equal(t, 1, sum.OffChipAccesses)
	require.Equal(t, 2, sum.TotalAccesses)
}

func TestSimulatorDumpCacheFormat(t *testing.T) {
	sim := NewSimulator(MSI)
	sim.Reference(0, true, 1)

	dump := sim.DumpCache(0)
	want := "----P0----\n0, 0, M\n"

	if diff := cmp.Diff(want, dump); diff != "" {
		t.Errorf("DumpCache mismatch (-want +got):\n%s", diff)
	}
}

func TestSimulatorHitRateTracksPrivateFraction(t *testing.T) {
	sim := NewSimulator(MSI)
	sim.Reference(0, true, 1)
	sim.Reference(0, true, 1)

	require.InDelta(t, 0.5, sim.HitRate(), 1e-9)
}

// TestSimulatorInvariantsHoldOverRandomTrace replays a large deterministic
// pseudo-random sequence of references across both protocols and asserts
// the per-block invariants (at most one Modified holder, at most one
// Exclusive holder, never both at once) never trip the simulator's
// internal assertions.
func TestSimulatorInvariantsHoldOverRandomTrace(t *testing.T) {
	for _, proto := range []Protocol{MSI, MESI} {
		sim := NewSimulator(proto)

		seed := uint32(12345)

		for i := 0; i < 5000; i++ {
			seed = seed*1103515245 + 12345
			proc := int(seed>>16) % NumProcessors

			seed = seed*1103515245 + 12345
			write := seed%2 == 0

			seed = seed*1103515245 + 12345
			addr := seed % (NumCacheBlocks * 8)

			require.NotPanics(t, func() {
				sim.Reference(proc, write, addr)
			})
		}
	}
}
