package plancache

import "errors"

var (
	// ErrInvalidKeep is returned by Prune for a non-positive keep count.
	ErrInvalidKeep = errors.New("plancache: keep must be at least 1")

	// ErrCorruptEntry is returned when a stored plan cannot be decoded.
	ErrCorruptEntry = errors.New("plancache: corrupt entry")
)
