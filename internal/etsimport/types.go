package etsimport

import "github.com/fwelpo3/Gruppenadressen-V1-I/internal/knx"

// Supported source formats.
const (
	FormatKNXProj = "knxproj"
	FormatXML     = "xml"
	FormatCSV     = "csv"
)

// Result is the content of one parsed ETS file.
type Result struct {
	// SourceFile is the base name of the parsed file.
	SourceFile string

	// Format is the detected format (knxproj, xml, csv).
	Format string

	// Addresses in file order.
	Addresses []Address

	// Warnings lists entries that were skipped, e.g. for an address out
	// of range.
	Warnings []string
}

// Address is a group address as found in the file.
type Address struct {
	GA          knx.GroupAddress
	Name        string
	DPT         knx.DPT
	Description string

	// Location is the group range path, e.g. "Ground Floor > Light".
	Location string
}
