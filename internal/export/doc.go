// Package export writes generated address rows in the formats ETS and
// humans consume.
//
//   - CSV: the ETS group address import format (UTF-8 BOM, ';' separated)
//   - XML: the ETS group address XML with nested GroupRange elements
//   - table: an aligned plain-text preview
//   - JSON: the raw row list
//
// Exporters never change row content. Separator rows are kept in CSV and the
// table (ETS shows them as empty addresses) and dropped from XML.
package export
