package etsimport

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/export"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/knx"
)

func ptr(v int) *int { return &v }

func planRows() []generator.Row {
	return []generator.Row{
		{Level: generator.LevelMain, MainGroup: 1, Name: "Ground Floor"},
		{Level: generator.LevelMiddle, MainGroup: 1, MiddleGroup: ptr(0), Name: "Light"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(0), Name: "--- Living ---", Description: "Separator for Living"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(0), Sub: ptr(0), Name: "GF Living - Switch", DPT: "1.001", Description: "(Living Light 1)"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(0), Sub: ptr(1), Name: "GF Living - Dim", DPT: "3.007", Description: "(Living Light 1)"},
		{Level: generator.LevelMiddle, MainGroup: 1, MiddleGroup: ptr(1), Name: "Blinds"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(1), Sub: ptr(0), Name: "GF Living; Up/Down", DPT: "1.008"},
	}
}

func ga(t *testing.T, s string) knx.GroupAddress {
	t.Helper()
	g, err := knx.ParseGroupAddress(s)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNormaliseGA(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1/2/3", "1/2/3", false},
		{" 31/7/255 ", "31/7/255", false},
		{"1/515", "1/2/3", false},
		{"2563", "1/2/3", false},
		{"0", "0/0/0", false},
		{"1/2048", "", true},
		{"32/0/0", "", true},
		{"65536", "", true},
		{"1/2/3/4", "", true},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := normaliseGA(tt.input)
			if tt.wantErr {
				if !errors.Is(err, knx.ErrInvalidGroupAddress) {
					t.Errorf("normaliseGA(%q) error = %v, want ErrInvalidGroupAddress", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normaliseGA(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("normaliseGA(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormaliseDPT(t *testing.T) {
	tests := []struct {
		input string
		want  knx.DPT
	}{
		{"DPST-1-1", "1.001"},
		{"DPST-14-68", "14.068"},
		{"DPT-1", "1.001"},
		{"9.1", "9.001"},
		{"DPST-1-1 DPST-1-8", "1.001"},
		{"weird", "weird"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normaliseDPT(tt.input); got != tt.want {
				t.Errorf("normaliseDPT(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_ExportedCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, planRows()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	result, err := Parse(buf.Bytes(), "plan.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if result.Format != FormatCSV {
		t.Errorf("Format = %q, want csv", result.Format)
	}

	want := []Address{
		{GA: ga(t, "1/0/0"), Name: "GF Living - Switch", DPT: "1.001", Location: "Ground Floor > Light"},
		{GA: ga(t, "1/0/1"), Name: "GF Living - Dim", DPT: "3.007", Location: "Ground Floor > Light"},
		{GA: ga(t, "1/1/0"), Name: "GF Living; Up/Down", DPT: "1.008", Location: "Ground Floor > Blinds"},
	}
	if !reflect.DeepEqual(result.Addresses, want) {
		t.Errorf("Addresses = %+v\nwant %+v", result.Addresses, want)
	}

	report, err := Compare(planRows(), result.Addresses)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !report.OK() || report.Matched != 3 {
		t.Errorf("Compare() = %+v, want 3 matches and no differences", report)
	}
}

func TestParse_ExportedXML(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteXML(&buf, "House", planRows()); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}

	result, err := Parse(buf.Bytes(), "plan.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Addresses) != 3 {
		t.Fatalf("Addresses = %d, want 3", len(result.Addresses))
	}
	first := result.Addresses[0]
	if first.Name != "GF Living - Switch (Living Light 1)" || first.Location != "Ground Floor > Light" || first.DPT != "1.001" {
		t.Errorf("first address = %+v", first)
	}

	report, err := Compare(planRows(), result.Addresses)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !report.OK() {
		t.Errorf("Compare() differences = %v", report.Differences)
	}
}

func TestParse_SingleColumnCSV(t *testing.T) {
	data := "\"Group name\",\"Address\",\"Central\",\"Unfiltered\",\"Description\",\"DatapointType\",\"Security\"\n" +
		"\"Switch\",\"1/0/0\",\"\",\"\",\"kitchen\",\"DPST-1-1\",\"Auto\"\n" +
		"\"Too far\",\"40/0/0\",\"\",\"\",\"\",\"\",\"Auto\"\n" +
		"\"Two level\",\"1/256\",\"\",\"\",\"\",\"DPT-5\",\"Auto\"\n"

	result, err := Parse([]byte(data), "export.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Address{
		{GA: ga(t, "1/0/0"), Name: "Switch", DPT: "1.001", Description: "kitchen"},
		{GA: ga(t, "1/1/0"), Name: "Two level", DPT: "5.001"},
	}
	if !reflect.DeepEqual(result.Addresses, want) {
		t.Errorf("Addresses = %+v\nwant %+v", result.Addresses, want)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "line 3") {
		t.Errorf("Warnings = %v, want one for line 3", result.Warnings)
	}
}

func TestParse_KNXProj(t *testing.T) {
	groupAddresses := `<?xml version="1.0" encoding="utf-8"?>
<GroupAddresses>
  <GroupRange Name="Lighting" Address="0">
    <GroupRange Name="Kitchen" Address="0">
      <GroupAddress Id="GA-1" Address="1/0/0" Name="Kitchen Switch" DatapointType="DPST-1-1"/>
      <GroupAddress Id="GA-2" Address="2049" Name="Kitchen Status" DatapointType="DPST-1-11"/>
    </GroupRange>
  </GroupRange>
</GroupAddresses>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("P-0001/GroupAddresses.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(groupAddresses)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	// No extension: format comes from the ZIP signature.
	result, err := Parse(buf.Bytes(), "upload")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if result.Format != FormatKNXProj {
		t.Errorf("Format = %q, want knxproj", result.Format)
	}

	want := []Address{
		{GA: ga(t, "1/0/0"), Name: "Kitchen Switch", DPT: "1.001", Location: "Lighting > Kitchen"},
		{GA: ga(t, "1/0/1"), Name: "Kitchen Status", DPT: "1.011", Location: "Lighting > Kitchen"},
	}
	if !reflect.DeepEqual(result.Addresses, want) {
		t.Errorf("Addresses = %+v\nwant %+v", result.Addresses, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		filename string
		want     error
	}{
		{"unknown content", "hello", "file.bin", ErrInvalidFile},
		{"broken archive", "PK\x03\x04garbage", "p.knxproj", ErrCorruptArchive},
		{"broken xml", "<GroupAddresses><GroupRange>", "a.xml", ErrInvalidFile},
		{"xml without addresses", "<GroupAddresses/>", "a.xml", ErrNoGroupAddresses},
		{"csv header only", "Address;Name\n", "a.csv", ErrNoGroupAddresses},
		{"csv without address column", "Name;DPT\nx;1.001\n", "a.csv", ErrInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.filename)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Parse(make([]byte, MaxFileSize+1), "big.csv"); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Parse(big) error = %v, want ErrFileTooLarge", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("Address;Name\n1/0/0;Switch\n"), 0600); err != nil {
		t.Fatal(err)
	}

	result, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if result.SourceFile != "export.csv" || len(result.Addresses) != 1 {
		t.Errorf("ParseFile() = %+v", result)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile(absent) error = %v, want ErrNotExist", err)
	}
}

func TestCompare_Differences(t *testing.T) {
	imported := []Address{
		{GA: ga(t, "1/0/0"), Name: "GF Living - Switch", DPT: "1.001"},
		{GA: ga(t, "1/0/0"), Name: "copy", DPT: "1.001"},
		{GA: ga(t, "1/0/1"), Name: "renamed", DPT: "5.001"},
		{GA: ga(t, "5/0/0"), Name: "extra"},
	}

	report, err := Compare(planRows(), imported)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	want := []Difference{
		{Kind: DiffDuplicate, GA: ga(t, "1/0/0"), Got: "copy"},
		{Kind: DiffDPT, GA: ga(t, "1/0/1"), Want: "3.007", Got: "5.001"},
		{Kind: DiffName, GA: ga(t, "1/0/1"), Want: "GF Living - Dim", Got: "renamed"},
		{Kind: DiffMissing, GA: ga(t, "1/1/0"), Want: "GF Living; Up/Down"},
		{Kind: DiffUnexpected, GA: ga(t, "5/0/0"), Got: "extra"},
	}
	if !reflect.DeepEqual(report.Differences, want) {
		t.Errorf("Differences =\n%v\nwant\n%v", report.Differences, want)
	}
	if report.Matched != 1 {
		t.Errorf("Matched = %d, want 1", report.Matched)
	}
	if report.OK() || report.Count(DiffName) != 1 {
		t.Errorf("OK() = %v, Count(name) = %d", report.OK(), report.Count(DiffName))
	}
	if s := want[3].String(); !strings.Contains(s, "1/1/0 not in file") {
		t.Errorf("String() = %q", s)
	}
}

func TestCompare_InvalidPlanRow(t *testing.T) {
	rows := []generator.Row{
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: ptr(9), Sub: ptr(0), Name: "x", DPT: "1.001"},
	}
	if _, err := Compare(rows, nil); !errors.Is(err, knx.ErrInvalidGroupAddress) {
		t.Errorf("Compare() error = %v, want ErrInvalidGroupAddress", err)
	}
}
