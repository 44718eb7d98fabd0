package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
)

// WriteTable writes an aligned plain-text preview of rows. Main rows are
// upper-cased, middle rows indented once, addresses twice, and separators
// are shown without an address.
func WriteTable(w io.Writer, rows []generator.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ADDRESS\tNAME\tDPT\tDESCRIPTION")

	for _, r := range rows {
		var address, name string
		switch {
		case r.Level == generator.LevelMain:
			address = fmt.Sprintf("%d", r.MainGroup)
			name = strings.ToUpper(r.Name)
		case r.Level == generator.LevelMiddle:
			address = fmt.Sprintf("%d/%d", r.MainGroup, r.Middle())
			name = "  " + r.Name
		case r.IsSeparator():
			name = "    " + r.Name
		default:
			address = fmt.Sprintf("%d/%d/%d", r.MainGroup, r.Middle(), r.SubAddress())
			name = "    " + r.Name
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", address, name, r.DPT, r.Description)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []generator.Row) error {
	if rows == nil {
		rows = []generator.Row{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
