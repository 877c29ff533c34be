// Package tracefile parses the trace-file format the simulator replays:
// one reference or directive per line, newline separated, grounded in
// the original `parse_line`/`run_simulation` pair in
// original_source/cache-simulation.py.
package tracefile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind distinguishes a memory reference line from a single-letter
// output directive line.
type Kind int

const (
	KindReference Kind = iota
	KindDirective
)

// Directive values for single-letter trace lines.
const (
	DirectiveVerbose = 'v'
	DirectiveDump    = 'p'
	DirectiveHitRate = 'h'
)

// numProcessors mirrors coherence.NumProcessors. Kept as its own constant
// rather than an import so this package stays the external collaborator
// §1 describes it as, with no dependency on the core.
const numProcessors = 4

// Line is one parsed trace-file entry.
type Line struct {
	Num int // 1-indexed source line, for error messages

	Kind Kind

	// Reference fields, valid when Kind == KindReference.
	Proc  int
	Write bool
	Addr  uint32

	// Directive, valid when Kind == KindDirective.
	Directive byte
}

// ParseLine parses one non-blank trace line. num is the 1-indexed source
// line, used only to annotate errors.
func ParseLine(num int, raw string) (Line, error) {
	fields := strings.Fields(raw)

	if len(fields) == 1 {
		d := fields[0]
		if len(d) != 1 || !isDirective(d[0]) {
			return Line{}, fmt.Errorf("line %d: %w: %q", num, errBadDirective, d)
		}

		return Line{Num: num, Kind: KindDirective, Directive: d[0]}, nil
	}

	if len(fields) != 3 {
		return Line{}, fmt.Errorf("line %d: %w: %q", num, errMalformedLine, raw)
	}

	proc, ok := parseProcessor(fields[0])
	if !ok {
		return Line{}, fmt.Errorf("line %d: %w: %q", num, errBadProcessor, fields[0])
	}

	var write bool

	switch fields[1] {
	case "R":
		write = false
	case "W":
		write = true
	default:
		return Line{}, fmt.Errorf("line %d: %w: %q", num, errUnknownOpcode, fields[1])
	}

	addr, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return Line{}, fmt.Errorf("line %d: %w: %q", num, errBadAddress, fields[2])
	}

	return Line{Num: num, Kind: KindReference, Proc: proc, Write: write, Addr: uint32(addr)}, nil
}

func isDirective(b byte) bool {
	return b == DirectiveVerbose || b == DirectiveDump || b == DirectiveHitRate
}

// parseProcessor accepts "P0".."P3": the ring is fixed at 4 processors.
func parseProcessor(s string) (int, bool) {
	if len(s) < 2 || s[0] != 'P' {
		return 0, false
	}

	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n >= numProcessors {
		return 0, false
	}

	return n, true
}

// ReadAll parses every non-blank line of r in order, stopping at the
// first malformed line.
func ReadAll(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)

	var lines []Line

	num := 0

	for scanner.Scan() {
		num++

		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		line, err := ParseLine(num, raw)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace file: %w", err)
	}

	return lines, nil
}
