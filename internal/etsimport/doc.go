// Package etsimport reads group addresses back from ETS files so a
// generated plan can be checked against what was actually imported.
//
// # Supported Formats
//
//   - .knxproj: ETS project archive (GroupAddresses.xml or 0.xml inside)
//   - .xml: ETS group address XML export
//   - .csv: ETS group address CSV export, 3-level or single address column
//
// Addresses in 2-level ("1/1024") or integer ("2048") notation are
// converted to 3-level form. Datapoint types are normalised to
// "major.minor".
//
// # Usage
//
//	result, err := etsimport.ParseFile("export.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := etsimport.Compare(rows, result.Addresses)
package etsimport
