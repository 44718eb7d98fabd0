package etsimport

import "errors"

// Sentinel errors for ETS import operations.
var (
	// ErrInvalidFile indicates the file is not a valid ETS export.
	ErrInvalidFile = errors.New("etsimport: invalid ETS export")

	// ErrCorruptArchive indicates the .knxproj ZIP archive is corrupted.
	ErrCorruptArchive = errors.New("etsimport: corrupt archive")

	// ErrNoGroupAddresses indicates no group addresses were found.
	ErrNoGroupAddresses = errors.New("etsimport: no group addresses found")

	// ErrFileTooLarge indicates the file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("etsimport: file exceeds maximum size")
)
