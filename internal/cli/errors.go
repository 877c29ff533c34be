package cli

import "errors"

var (
	errMissingTraceArg = errors.New("missing trace file argument")
	errTooManyArgs     = errors.New("too many arguments")
	errBadSecondArg    = errors.New("second argument must be 'o'")
)
