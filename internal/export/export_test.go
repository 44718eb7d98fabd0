package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/knx"
)

func ptr(v int) *int { return &v }

func sampleRows() []generator.Row {
	return []generator.Row{
		{Level: generator.LevelMain, MainGroup: 1, Name: "Ground Floor"},
		{Level: generator.LevelMiddle, MainGroup: 1, MiddleGroup: ptr(0), Name: "Light"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(0), Name: "--- Living ---", Description: "Separator for Living"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(0), Sub: ptr(0), Name: "EG Living - Switch", DPT: "1.001", Description: "(Living Light 1)"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(0), Name: "-", Description: "Separator"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(0), Sub: ptr(1), Name: "EG Living - Dim", DPT: "3.007", Description: "(Living Light 1)"},
		{Level: generator.LevelGA, MainGroup: 2, MiddleGroup: ptr(6), Sub: ptr(0), Name: "OG Bed; Switch RM", DPT: "1.001", Description: "(Bed Light 1)"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "\uFEFF" +
		"Main;Middle;Sub;Main;Middle;Sub;Central;Unfiltered;Description;DatapointType;Security\n" +
		"Ground Floor;;;1;;;;;;;Auto\n" +
		";Light;;1;0;;;;;;Auto\n" +
		";;--- Living ---;1;0;;;;;;Auto\n" +
		";;EG Living - Switch;1;0;0;;;;DPST-1-1;Auto\n" +
		";;-;1;0;;;;;;Auto\n" +
		";;EG Living - Dim;1;0;1;;;;DPST-3-7;Auto\n" +
		";;\"OG Bed; Switch RM\";2;6;0;;;;DPST-1-1;Auto\n"

	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("WriteCSV(nil) wrote %d bytes, want 0", buf.Len())
	}
}

func TestWriteCSV_AddressOutOfRange(t *testing.T) {
	rows := []generator.Row{
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(9), Sub: ptr(0), Name: "x", DPT: "1.001"},
	}

	err := WriteCSV(&bytes.Buffer{}, rows)
	if !errors.Is(err, knx.ErrInvalidGroupAddress) {
		t.Errorf("WriteCSV() error = %v, want ErrInvalidGroupAddress", err)
	}
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, "House & Garden", sampleRows()); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, xml.Header) {
		t.Errorf("output does not start with the XML header")
	}
	if !strings.Contains(out, `xmlns="http://knx.org/xml/project/20"`) {
		t.Errorf("output lacks the ETS namespace: %s", out)
	}
	if !strings.Contains(out, `ProjectName="House &amp; Garden"`) {
		t.Errorf("project name not escaped: %s", out)
	}

	var doc xmlKNX
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("xml.Unmarshal() error = %v", err)
	}

	want := []xmlGroupRange{
		{Name: "Ground Floor", Ranges: []xmlGroupRange{{
			Name: "Light",
			Addresses: []xmlGroupAddress{
				{Name: "EG Living - Switch (Living Light 1)", Address: "1/0/0", DPTs: "DPST-1-1"},
				{Name: "EG Living - Dim (Living Light 1)", Address: "1/0/1", DPTs: "DPST-3-7"},
			},
		}}},
		{Name: "Main group 2", Ranges: []xmlGroupRange{{
			Name: "Middle group 6",
			Addresses: []xmlGroupAddress{
				{Name: "OG Bed; Switch RM (Bed Light 1)", Address: "2/6/0", DPTs: "DPST-1-1"},
			},
		}}},
	}

	if len(doc.Project.Installations) != 1 {
		t.Fatalf("installations = %d, want 1", len(doc.Project.Installations))
	}
	inst := doc.Project.Installations[0]
	if inst.Name != "Generated GAs" {
		t.Errorf("InstallationName = %q, want %q", inst.Name, "Generated GAs")
	}
	if !reflect.DeepEqual(inst.Ranges, want) {
		t.Errorf("ranges = %+v, want %+v", inst.Ranges, want)
	}
}

func TestWriteXML_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, "x", nil); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("WriteXML(nil) wrote %d bytes, want 0", buf.Len())
	}
}

func TestWriteXML_AddressOutOfRange(t *testing.T) {
	rows := []generator.Row{
		{Level: generator.LevelGA, MainGroup: 32, MiddleGroup: ptr(0), Sub: ptr(0), Name: "x"},
	}
	if err := WriteXML(&bytes.Buffer{}, "x", rows); !errors.Is(err, knx.ErrInvalidGroupAddress) {
		t.Errorf("WriteXML() error = %v, want ErrInvalidGroupAddress", err)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ADDRESS", "GROUND FLOOR", "1/0", "1/0/1", "EG Living - Dim", "DPST"} {
		if want == "DPST" {
			if strings.Contains(out, want) {
				t.Errorf("table shows DPST form, want raw DPT")
			}
			continue
		}
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(sampleRows())+1 {
		t.Errorf("table lines = %d, want %d", len(lines), len(sampleRows())+1)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteJSON(nil) = %q, want []", buf.String())
	}

	buf.Reset()
	if err := WriteJSON(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var got []generator.Row
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, sampleRows()) {
		t.Errorf("WriteJSON() round trip differs")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"XML", FormatXML, false},
		{" table ", FormatTable, false},
		{"json", FormatJSON, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrite_Dispatch(t *testing.T) {
	for _, f := range Formats() {
		var buf bytes.Buffer
		if err := Write(&buf, f, "p", sampleRows()); err != nil {
			t.Errorf("Write(%s) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) wrote nothing", f)
		}
	}

	if err := Write(&bytes.Buffer{}, "pdf", "p", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Write(pdf) error = %v, want ErrUnsupportedFormat", err)
	}
	if FormatTable.Extension() != ".txt" || FormatCSV.Extension() != ".csv" {
		t.Error("Extension() mismatch")
	}
}
