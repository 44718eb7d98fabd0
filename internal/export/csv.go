package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/knx"
)

// utf8BOM makes spreadsheet tools pick UTF-8 for umlauts.
const utf8BOM = "\uFEFF"

// securityAuto is the ETS security column value for every address.
const securityAuto = "Auto"

var csvHeader = []string{
	"Main", "Middle", "Sub",
	"Main", "Middle", "Sub",
	"Central", "Unfiltered", "Description", "DatapointType", "Security",
}

// Column positions in csvHeader.
const (
	colMainName = iota
	colMiddleName
	colSubName
	colMainNum
	colMiddleNum
	colSubNum
	colCentral
	colUnfiltered
	colDescription
	colDPT
	colSecurity
	csvColumns
)

// WriteCSV writes rows in the ETS group address CSV import format.
//
// Row levels map onto columns:
//   - main:   name in column 1, main number in column 4
//   - middle: name in column 2, main and middle numbers in columns 4-5
//   - ga:     name in column 3, full address in columns 4-6, DPT as DPST
//
// Separator rows keep their name but get no datapoint type. An empty row
// list writes nothing.
//
// Returns an error wrapping knx.ErrInvalidGroupAddress if an address row
// is outside the KNX ranges.
func WriteCSV(w io.Writer, rows []generator.Row) error {
	if len(rows) == 0 {
		return nil
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		record, err := csvRecord(r)
		if err != nil {
			return err
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %q: %w", r.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func csvRecord(r generator.Row) ([]string, error) {
	record := make([]string, csvColumns)
	record[colSecurity] = securityAuto
	record[colMainNum] = strconv.Itoa(r.MainGroup)

	switch r.Level {
	case generator.LevelMain:
		record[colMainName] = r.Name
	case generator.LevelMiddle:
		record[colMiddleName] = r.Name
		record[colMiddleNum] = optionalInt(r.MiddleGroup)
	default:
		record[colSubName] = r.Name
		record[colMiddleNum] = optionalInt(r.MiddleGroup)
		record[colSubNum] = optionalInt(r.Sub)

		if !r.IsSeparator() {
			if _, err := addressOf(r); err != nil {
				return nil, err
			}
			record[colDPT] = knx.DPT(r.DPT).ToDPST()
		}
	}

	return record, nil
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// addressOf converts an address row to a KNX group address.
func addressOf(r generator.Row) (knx.GroupAddress, error) {
	ga, err := knx.NewGroupAddress(r.MainGroup, r.Middle(), r.SubAddress())
	if err != nil {
		return knx.GroupAddress{}, fmt.Errorf("row %q: %w", r.Name, err)
	}
	return ga, nil
}
