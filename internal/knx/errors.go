package knx

import "errors"

// Domain errors for the knx package.
var (
	// ErrInvalidGroupAddress is returned when a group address is out of
	// range or cannot be parsed.
	ErrInvalidGroupAddress = errors.New("knx: invalid group address")

	// ErrInvalidDPT is returned when a datapoint type identifier is invalid.
	ErrInvalidDPT = errors.New("knx: invalid datapoint type")
)
