package etsimport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/knx"
)

// DiffKind classifies a difference between a plan and an ETS file.
type DiffKind string

// Difference kinds.
const (
	// DiffMissing: the plan has the address, the file does not.
	DiffMissing DiffKind = "missing"

	// DiffUnexpected: the file has the address, the plan does not.
	DiffUnexpected DiffKind = "unexpected"

	// DiffDuplicate: the file lists the address more than once.
	DiffDuplicate DiffKind = "duplicate"

	// DiffName: both have the address under different names.
	DiffName DiffKind = "name"

	// DiffDPT: both have the address with different datapoint types.
	DiffDPT DiffKind = "dpt"
)

// Difference is one mismatch. Want comes from the plan, Got from the file.
type Difference struct {
	Kind DiffKind
	GA   knx.GroupAddress
	Want string
	Got  string
}

// String formats the difference for terminal output.
func (d Difference) String() string {
	switch d.Kind {
	case DiffMissing:
		return fmt.Sprintf("%-9s %s not in file (plan: %q)", d.Kind, d.GA, d.Want)
	case DiffUnexpected:
		return fmt.Sprintf("%-9s %s not in plan (file: %q)", d.Kind, d.GA, d.Got)
	case DiffDuplicate:
		return fmt.Sprintf("%-9s %s listed again as %q", d.Kind, d.GA, d.Got)
	default:
		return fmt.Sprintf("%-9s %s plan %q, file %q", d.Kind, d.GA, d.Want, d.Got)
	}
}

// Report is the outcome of Compare.
type Report struct {
	// Matched counts plan addresses found in the file with the same name
	// and datapoint type.
	Matched     int
	Differences []Difference
}

// OK reports whether the file matches the plan.
func (r Report) OK() bool {
	return len(r.Differences) == 0
}

// Count returns the number of differences of one kind.
func (r Report) Count(kind DiffKind) int {
	n := 0
	for _, d := range r.Differences {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Compare checks imported addresses against the address rows of a plan.
// Header rows and separators are ignored.
//
// A name matches when it equals the row name, or the row name followed by
// its description as written by the XML export. A missing datapoint type
// in the file counts as a difference when the plan has one.
//
// Parameters:
//   - rows: Generated plan rows
//   - imported: Addresses read from an ETS file
//
// Returns:
//   - Report: Differences sorted by address
//   - error: If a plan row has an address outside the KNX ranges
func Compare(rows []generator.Row, imported []Address) (Report, error) {
	plan := make(map[knx.GroupAddress]generator.Row)
	for _, r := range rows {
		if !r.IsAddress() || r.Sub == nil {
			continue
		}
		ga, err := knx.NewGroupAddress(r.MainGroup, r.Middle(), r.SubAddress())
		if err != nil {
			return Report{}, fmt.Errorf("row %q: %w", r.Name, err)
		}
		plan[ga] = r
	}

	var report Report
	seen := make(map[knx.GroupAddress]bool, len(imported))

	for _, a := range imported {
		if seen[a.GA] {
			report.Differences = append(report.Differences, Difference{Kind: DiffDuplicate, GA: a.GA, Got: a.Name})
			continue
		}
		seen[a.GA] = true

		r, ok := plan[a.GA]
		if !ok {
			report.Differences = append(report.Differences, Difference{Kind: DiffUnexpected, GA: a.GA, Got: a.Name})
			continue
		}

		matched := true
		if !nameMatches(r, a.Name) {
			report.Differences = append(report.Differences, Difference{Kind: DiffName, GA: a.GA, Want: r.Name, Got: a.Name})
			matched = false
		}
		if r.DPT != "" && normaliseDPT(r.DPT) != a.DPT {
			report.Differences = append(report.Differences, Difference{Kind: DiffDPT, GA: a.GA, Want: r.DPT, Got: string(a.DPT)})
			matched = false
		}
		if matched {
			report.Matched++
		}
	}

	for ga, r := range plan {
		if !seen[ga] {
			report.Differences = append(report.Differences, Difference{Kind: DiffMissing, GA: ga, Want: r.Name})
		}
	}

	sort.SliceStable(report.Differences, func(i, j int) bool {
		a, b := report.Differences[i], report.Differences[j]
		if a.GA != b.GA {
			return a.GA.ToUint16() < b.GA.ToUint16()
		}
		return a.Kind < b.Kind
	})

	return report, nil
}

func nameMatches(r generator.Row, got string) bool {
	got = strings.TrimSpace(got)
	return got == strings.TrimSpace(r.Name) ||
		got == strings.TrimSpace(r.Name+" "+r.Description)
}
