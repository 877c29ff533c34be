// Package main provides ringsim, a cycle-accounting simulator of a
// 4-processor ring-coherent cache hierarchy driven by trace files.
package main

import (
	"os"

	"github.com/evanmoss/ringsim/internal/cli"
)

func main() {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:], workDir)

	os.Exit(exitCode)
}
