// Package report formats a completed run's Summary into the persisted
// key/value text format and writes it durably, the same way the
// teacher persists ticket files: through natefinch/atomic so a crash
// mid-run never leaves a half-written report next to a prior good one.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/evanmoss/ringsim/internal/coherence"
)

// Format renders s as the persisted key/value text.
func Format(s coherence.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Private-accesses: %d\n", s.PrivateAccesses)
	fmt.Fprintf(&b, "Remote-accesses: %d\n", s.RemoteAccesses)
	fmt.Fprintf(&b, "Off-chip-accesses: %d\n", s.OffChipAccesses)
	fmt.Fprintf(&b, "Total-accesses: %d\n", s.TotalAccesses)
	fmt.Fprintf(&b, "Replacement-writebacks: %d\n", s.ReplacementWritebacks)
	fmt.Fprintf(&b, "Coherence-writebacks: %d\n", s.CoherenceWritebacks)
	fmt.Fprintf(&b, "Invalidations-sent: %d\n", s.InvalidationsSent)
	fmt.Fprintf(&b, "Average-latency: %g\n", s.AverageLatency)
	fmt.Fprintf(&b, "Priv-average-latency: %g\n", s.PrivAverageLatency)
	fmt.Fprintf(&b, "Rem-average-latency: %g\n", s.RemAverageLatency)
	fmt.Fprintf(&b, "Off-chip-average-latency: %g\n", s.OffChipAverageLatency)
	fmt.Fprintf(&b, "Total-latency: %d\n", s.TotalLatency)

	return b.String()
}

// Write persists s as out_<traceFile> under outDir, creating outDir if
// needed, and returns the path written.
func Write(outDir, traceFile string, s coherence.Summary) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	path := filepath.Join(outDir, "out_"+filepath.Base(traceFile))

	body := Format(s)
	if err := atomic.WriteFile(path, strings.NewReader(body)); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}

	return path, nil
}
