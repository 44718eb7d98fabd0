package export

import "errors"

// Domain errors for the export package.
var (
	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("export: unsupported format")
)
