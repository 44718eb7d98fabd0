package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
)

// Format names an output format.
type Format string

// Supported output formats.
const (
	FormatCSV   Format = "csv"
	FormatXML   Format = "xml"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats returns the supported output formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatXML, FormatTable, FormatJSON}
}

// ParseFormat converts a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == FormatTable {
		return ".txt"
	}
	return "." + string(f)
}

// Write writes rows in the given format. projectName is only used by XML.
func Write(w io.Writer, format Format, projectName string, rows []generator.Row) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXML:
		return WriteXML(w, projectName, rows)
	case FormatTable:
		return WriteTable(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}
