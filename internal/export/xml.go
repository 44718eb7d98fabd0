package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/knx"
)

// etsNamespace is the ETS project schema the XML is written against.
const etsNamespace = "http://knx.org/xml/project/20"

// installationName names the single installation holding the addresses.
const installationName = "Generated GAs"

type xmlKNX struct {
	XMLName xml.Name   `xml:"KNX"`
	Xmlns   string     `xml:"xmlns,attr"`
	Project xmlProject `xml:"Project"`
}

type xmlProject struct {
	Name          string            `xml:"ProjectName,attr"`
	Installations []xmlInstallation `xml:"Installations>Installation"`
}

type xmlInstallation struct {
	Name   string          `xml:"InstallationName,attr"`
	Ranges []xmlGroupRange `xml:"GroupAddresses>GroupRange"`
}

type xmlGroupRange struct {
	Name      string            `xml:"Name,attr"`
	Ranges    []xmlGroupRange   `xml:"GroupRange,omitempty"`
	Addresses []xmlGroupAddress `xml:"GroupAddress,omitempty"`
}

type xmlGroupAddress struct {
	Name    string `xml:"Name,attr"`
	Address string `xml:"Address,attr"`
	DPTs    string `xml:"DPTs,attr,omitempty"`
}

// WriteXML writes rows as ETS group address XML.
//
// The main/middle hierarchy is rebuilt from the address numbers of the
// leaf rows. Range names come from the header rows of the list; ranges
// without a header are named "Main group n" or "Middle group n". Separator
// rows are omitted. An empty row list writes nothing.
//
// Returns an error wrapping knx.ErrInvalidGroupAddress if an address row
// is outside the KNX ranges.
func WriteXML(w io.Writer, projectName string, rows []generator.Row) error {
	if len(rows) == 0 {
		return nil
	}

	ranges, err := buildRanges(rows)
	if err != nil {
		return err
	}

	doc := xmlKNX{
		Xmlns: etsNamespace,
		Project: xmlProject{
			Name: projectName,
			Installations: []xmlInstallation{{
				Name:   installationName,
				Ranges: ranges,
			}},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding xml: %w", err)
	}

	_, err = io.WriteString(w, "\n")
	return err
}

// buildRanges groups address rows by main and middle number, both ascending.
// Leaves keep their order from the row list.
func buildRanges(rows []generator.Row) ([]xmlGroupRange, error) {
	mainNames := make(map[int]string)
	middleNames := make(map[[2]int]string)
	leaves := make(map[int]map[int][]xmlGroupAddress)

	for _, r := range rows {
		switch {
		case r.Level == generator.LevelMain:
			mainNames[r.MainGroup] = r.Name
		case r.Level == generator.LevelMiddle:
			middleNames[[2]int{r.MainGroup, r.Middle()}] = r.Name
		case r.IsAddress():
			ga, err := addressOf(r)
			if err != nil {
				return nil, err
			}
			if leaves[r.MainGroup] == nil {
				leaves[r.MainGroup] = make(map[int][]xmlGroupAddress)
			}
			leaves[r.MainGroup][r.Middle()] = append(leaves[r.MainGroup][r.Middle()], xmlGroupAddress{
				Name:    strings.TrimSpace(r.Name + " " + r.Description),
				Address: ga.String(),
				DPTs:    knx.DPT(r.DPT).ToDPST(),
			})
		}
	}

	var ranges []xmlGroupRange
	for _, main := range sortedInts(leaves) {
		mainRange := xmlGroupRange{Name: nameOr(mainNames[main], "Main group %d", main)}

		for _, middle := range sortedInts(leaves[main]) {
			mainRange.Ranges = append(mainRange.Ranges, xmlGroupRange{
				Name:      nameOr(middleNames[[2]int{main, middle}], "Middle group %d", middle),
				Addresses: leaves[main][middle],
			})
		}

		ranges = append(ranges, mainRange)
	}

	return ranges, nil
}

func nameOr(name, format string, n int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf(format, n)
}

func sortedInts[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
