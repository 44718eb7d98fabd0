package etsimport

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/knx"
)

const (
	// MaxFileSize is the maximum accepted file size (50MB).
	MaxFileSize = 50 * 1024 * 1024

	// maxTwoLevelSub is the largest sub address in 2-level notation (11 bits).
	maxTwoLevelSub = 2047

	locationSeparator = " > "
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile reads and parses an ETS export from disk.
func ParseFile(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading ETS file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("reading ETS file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses an ETS export. The format follows the file extension; for
// unknown extensions it is detected from the content.
//
// Parameters:
//   - data: File content
//   - filename: Original file name, used for format detection
//
// Returns:
//   - *Result: Addresses in file order
//   - error: ErrFileTooLarge, ErrInvalidFile, ErrCorruptArchive or
//     ErrNoGroupAddresses
func Parse(data []byte, filename string) (*Result, error) {
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	result := &Result{SourceFile: filepath.Base(filename)}

	format := ""
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".knxproj":
		format = FormatKNXProj
	case ".xml":
		format = FormatXML
	case ".csv":
		format = FormatCSV
	default:
		switch {
		case isZipFile(data):
			format = FormatKNXProj
		case isXMLFile(data):
			format = FormatXML
		default:
			return nil, ErrInvalidFile
		}
	}
	result.Format = format

	var err error
	switch format {
	case FormatKNXProj:
		err = parseKNXProj(data, result)
	case FormatXML:
		err = parseXML(data, result)
	default:
		err = parseCSV(data, result)
	}
	if err != nil {
		return nil, err
	}

	if len(result.Addresses) == 0 {
		return nil, ErrNoGroupAddresses
	}
	return result, nil
}

// parseKNXProj reads GroupAddresses.xml from the archive, or the project
// XML (0.xml) when the archive has none.
func parseKNXProj(data []byte, result *Result) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}

	var groupAddresses, projectXML *zip.File
	for _, file := range reader.File {
		switch strings.ToLower(filepath.Base(file.Name)) {
		case "groupaddresses.xml":
			groupAddresses = file
		case "0.xml":
			if projectXML == nil {
				projectXML = file
			}
		}
	}

	source := groupAddresses
	if source == nil {
		source = projectXML
	}
	if source == nil {
		return ErrNoGroupAddresses
	}

	content, err := readZipFile(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source.Name, err)
	}
	return parseXML(content, result)
}

// parseXML walks the document and collects every GroupAddress element.
// Enclosing GroupRange names form the location. This covers the ETS group
// address export, the project XML inside .knxproj archives and the XML
// written by the export package.
func parseXML(data []byte, result *Result) error {
	decoder := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var ranges []string
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "GroupRange":
				ranges = append(ranges, attr(el, "Name"))
			case "GroupAddress":
				addXMLAddress(el, strings.Join(ranges, locationSeparator), result)
			}
		case xml.EndElement:
			if el.Name.Local == "GroupRange" && len(ranges) > 0 {
				ranges = ranges[:len(ranges)-1]
			}
		}
	}

	return nil
}

func addXMLAddress(el xml.StartElement, location string, result *Result) {
	raw := attr(el, "Address")
	ga, err := normaliseGA(raw)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("skipped group address %q: %v", attr(el, "Name"), err))
		return
	}

	dpt := attr(el, "DatapointType")
	if dpt == "" {
		dpt = attr(el, "DPTs")
	}

	result.Addresses = append(result.Addresses, Address{
		GA:          ga,
		Name:        attr(el, "Name"),
		DPT:         normaliseDPT(dpt),
		Description: attr(el, "Description"),
		Location:    location,
	})
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// csvColumns holds the column positions of a CSV export; -1 means absent.
type csvColumns struct {
	address     int
	name        int
	description int
	dpt         int

	// Three-level layout: names in main/middle/sub, numbers after them.
	threeLevel bool
}

// parseCSV handles both ETS CSV layouts: the 3-level one (names and
// numbers per level) and the 1/1 one with a single Address column.
func parseCSV(data []byte, result *Result) error {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if len(records) < 2 {
		return ErrNoGroupAddresses
	}

	cols, err := csvLayout(records[0])
	if err != nil {
		return err
	}

	var mainName, middleName string
	for i, record := range records[1:] {
		line := i + 2

		if cols.threeLevel {
			if v := field(record, 0); v != "" {
				mainName, middleName = v, ""
			}
			if v := field(record, 1); v != "" {
				middleName = v
			}
		}

		raw, name := "", ""
		if cols.threeLevel {
			mainNum, middleNum, subNum := field(record, 3), field(record, 4), field(record, 5)
			if mainNum == "" || middleNum == "" || subNum == "" {
				continue
			}
			raw = mainNum + "/" + middleNum + "/" + subNum
			name = field(record, 2)
		} else {
			raw = field(record, cols.address)
			if raw == "" {
				continue
			}
			name = field(record, cols.name)
		}

		ga, err := normaliseGA(raw)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: skipped group address %q: %v", line, name, err))
			continue
		}

		result.Addresses = append(result.Addresses, Address{
			GA:          ga,
			Name:        name,
			DPT:         normaliseDPT(field(record, cols.dpt)),
			Description: field(record, cols.description),
			Location:    joinLocation(mainName, middleName),
		})
	}

	return nil
}

func csvLayout(header []string) (csvColumns, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	cols := csvColumns{
		address:     findColumn(index, "address", "group address", "groupaddress", "ga"),
		name:        findColumn(index, "group name", "name", "bezeichnung"),
		description: findColumn(index, "description", "beschreibung"),
		dpt:         findColumn(index, "datapointtype", "datapoint type", "dpt", "datapoint"),
	}

	if len(header) >= 6 &&
		strings.EqualFold(strings.TrimSpace(header[0]), "main") &&
		strings.EqualFold(strings.TrimSpace(header[3]), "main") {
		cols.threeLevel = true
		return cols, nil
	}

	if cols.address < 0 {
		return cols, fmt.Errorf("%w: no address column in CSV header", ErrInvalidFile)
	}
	return cols, nil
}

// detectDelimiter picks the most frequent of ';', ',' and tab in the
// header line.
func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}

	best, bestCount := ';', 0
	for _, d := range []rune{';', ',', '\t'} {
		if n := bytes.Count(header, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func findColumn(index map[string]int, names ...string) int {
	for _, name := range names {
		if idx, ok := index[name]; ok {
			return idx
		}
	}
	return -1
}

func joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, locationSeparator)
}

// normaliseGA converts 3-level ("1/2/3"), 2-level ("1/515") and integer
// ("2563") notations to a group address.
func normaliseGA(addr string) (knx.GroupAddress, error) {
	addr = strings.TrimSpace(addr)

	switch strings.Count(addr, "/") {
	case 2:
		return knx.ParseGroupAddress(addr)

	case 1:
		mainStr, subStr, _ := strings.Cut(addr, "/")
		mainGroup, err := strconv.Atoi(mainStr)
		if err != nil {
			return knx.GroupAddress{}, fmt.Errorf("%w: %q", knx.ErrInvalidGroupAddress, addr)
		}
		sub, err := strconv.Atoi(subStr)
		if err != nil || sub < 0 || sub > maxTwoLevelSub {
			return knx.GroupAddress{}, fmt.Errorf("%w: %q", knx.ErrInvalidGroupAddress, addr)
		}
		return knx.NewGroupAddress(mainGroup, sub>>8, sub&0xFF)

	case 0:
		raw, err := strconv.ParseUint(addr, 10, 16)
		if err != nil {
			return knx.GroupAddress{}, fmt.Errorf("%w: %q", knx.ErrInvalidGroupAddress, addr)
		}
		v := int(raw)
		return knx.NewGroupAddress(v>>11&0x1F, v>>8&0x07, v&0xFF)

	default:
		return knx.GroupAddress{}, fmt.Errorf("%w: %q", knx.ErrInvalidGroupAddress, addr)
	}
}

// normaliseDPT converts ETS notations to "major.minor". Only the first of
// several space separated types is kept; unknown notations pass through.
func normaliseDPT(dpt string) knx.DPT {
	fields := strings.FieldsFunc(dpt, func(r rune) bool { return unicode.IsSpace(r) || r == ',' })
	if len(fields) == 0 {
		return ""
	}
	if d, err := knx.ParseDPST(fields[0]); err == nil {
		return d
	}
	return knx.DPT(fields[0])
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening zip entry: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("reading zip entry: %w", err)
	}
	return data, nil
}

func isZipFile(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K'
}

func isXMLFile(data []byte) bool {
	trimmed := bytes.TrimLeftFunc(bytes.TrimPrefix(data, utf8BOM), unicode.IsSpace)
	return bytes.HasPrefix(trimmed, []byte("<"))
}
