package tracefile

import "errors"

var (
	errMalformedLine = errors.New("malformed trace line")
	errUnknownOpcode = errors.New("unknown opcode")
	errBadDirective  = errors.New("unrecognized directive")
	errBadProcessor  = errors.New("unrecognized processor id")
	errBadAddress    = errors.New("address is not a valid integer")
)
