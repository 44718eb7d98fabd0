package project

import "errors"

// Domain errors for the project package.
//
// Check them with errors.Is():
//
//	if errors.Is(err, project.ErrDuplicateMainGroup) {
//	    // tell the user which areas collide
//	}
var (
	// ErrInvalidProject is returned when a project file cannot be decoded.
	ErrInvalidProject = errors.New("project: invalid project")

	// ErrUnsupportedFormat is returned for project files with an unknown extension.
	ErrUnsupportedFormat = errors.New("project: unsupported file format")

	// ErrUnknownTemplate is returned when a project template name does not exist.
	ErrUnknownTemplate = errors.New("project: unknown template")

	// ErrUnknownFunctionType is returned when an instance is requested for a
	// function type that is missing from the device config.
	ErrUnknownFunctionType = errors.New("project: unknown function type")

	// ErrExportBlocked is returned by ValidateForExport when the model
	// would produce ambiguous or unusable addresses.
	ErrExportBlocked = errors.New("project: export not possible")

	// ErrDuplicateMainGroup is returned when two areas share a main group.
	ErrDuplicateMainGroup = errors.New("project: duplicate main group")

	// ErrDuplicateAbbreviation is returned when two areas share an abbreviation.
	ErrDuplicateAbbreviation = errors.New("project: duplicate abbreviation")
)
