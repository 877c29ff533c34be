// Package cli is the program's command-line driver: argument parsing,
// trace dispatch, and report persistence, reduced from the teacher's
// multi-subcommand Command/IO/Run scaffold down to this program's single
// positional-argument shape, since there is exactly one thing to run:
// ringsim <trace-filename> [o].
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/evanmoss/ringsim/internal/coherence"
	"github.com/evanmoss/ringsim/internal/report"
	"github.com/evanmoss/ringsim/internal/runconfig"
	"github.com/evanmoss/ringsim/internal/tracefile"
)

const usageText = `Usage: ringsim <trace-filename> [o]

Replays the reference/directive trace at <trace-dir>/<trace-filename>
against a 4-processor ring-coherent cache simulation and writes a
cycle-accounting report to <out-dir>/out_<trace-filename>.

Pass 'o' as the second argument to enable the MESI optimisation
(adds the Exclusive state); omit it to run plain MSI.

<trace-dir> and <out-dir> default to ./cache-traces and ./out_files,
and may be relocated with a .ringsim.json file in the working directory.`

// Run is the process entry point's only collaborator, kept separate from
// main so it is testable without touching os.Stdin/Stdout/os.Args.
func Run(_ io.Reader, out, errOut io.Writer, args []string, workDir string) int {
	flags := flag.NewFlagSet("ringsim", flag.ContinueOnError)
	flags.SetOutput(&strings.Builder{}) // discard pflag's own error/usage output
	flagHelp := flags.BoolP("help", "h", false, "Show usage")

	if err := flags.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut, usageText)

		return 1
	}

	positional := flags.Args()

	if *flagHelp || (len(positional) == 1 && positional[0] == "h") {
		fprintln(out, usageText)

		return 0
	}

	if len(positional) == 0 {
		fprintln(errOut, "error:", errMissingTraceArg)
		fprintln(errOut, usageText)

		return 1
	}

	if len(positional) > 2 {
		fprintln(errOut, "error:", errTooManyArgs)

		return 1
	}

	proto := coherence.MSI

	if len(positional) == 2 {
		if positional[1] != "o" {
			fprintln(errOut, "error:", errBadSecondArg)

			return 1
		}

		proto = coherence.MESI
	}

	traceFile := positional[0]

	cfg, err := runconfig.Load(workDir, runconfig.Config{})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cio := NewIO(out, errOut)

	if err := runTrace(cio, workDir, cfg, proto, traceFile); err != nil {
		cio.ErrPrintln("error:", err)

		return 1
	}

	return cio.Finish()
}

func runTrace(o *IO, workDir string, cfg runconfig.Config, proto coherence.Protocol, traceFile string) error {
	path := filepath.Join(workDir, cfg.TraceDir, traceFile)

	f, err := os.Open(path) //nolint:gosec // trace path is intentionally caller-controlled
	if err != nil {
		return fmt.Errorf("opening trace file %s: %w", path, err)
	}
	defer f.Close()

	lines, err := tracefile.ReadAll(f)
	if err != nil {
		return fmt.Errorf("parsing trace file %s: %w", path, err)
	}

	sim := coherence.NewSimulator(proto)
	sim.SetNarrator(func(s string) {
		if s == "" {
			o.Println()
		} else {
			o.Println(s)
		}
	})

	for _, line := range lines {
		switch line.Kind {
		case tracefile.KindReference:
			sim.Reference(line.Proc, line.Write, line.Addr)
		case tracefile.KindDirective:
			dispatchDirective(o, sim, line.Directive)
		}
	}

	summary := sim.Summarize()

	out, err := report.Write(filepath.Join(workDir, cfg.OutDir), traceFile, summary)
	if err != nil {
		return err
	}

	o.Printf("File %s written with these stats:\n\n", out)
	o.Println(report.Format(summary))

	return nil
}

func dispatchDirective(o *IO, sim *coherence.Simulator, d byte) {
	switch d {
	case tracefile.DirectiveVerbose:
		sim.ToggleVerbose()
	case tracefile.DirectiveDump:
		o.Println()
		o.Println("CACHE TABLES:")
		o.Println()
		o.Println("Idx, Tag, State")

		for p := 0; p < coherence.NumProcessors; p++ {
			o.Printf("%s", sim.DumpCache(p))
		}

		o.Println("==========")
		o.Println()
	case tracefile.DirectiveHitRate:
		o.Printf("HIT RATE: %g\n", sim.HitRate())
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
