package knx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DPT is a KNX datapoint type identifier in "major.minor" form, e.g. "1.001".
type DPT string

// Datapoint types used by the built-in device types.
const (
	DPTSwitch         DPT = "1.001"
	DPTStep           DPT = "1.007"
	DPTUpDown         DPT = "1.008"
	DPTDimmingControl DPT = "3.007"
	DPTPercentage     DPT = "5.001"
	DPTTemperature    DPT = "9.001"
	DPTSceneControl   DPT = "18.001"
	DPTHVACMode       DPT = "20.102"
)

var (
	reDPST       = regexp.MustCompile(`^DPST-(\d+)-(\d+)$`)
	reDPTMain    = regexp.MustCompile(`^DPT-(\d+)$`)
	reDPTDotted  = regexp.MustCompile(`^(\d+)\.(\d+)$`)
	reDPTNumeric = regexp.MustCompile(`^\d+$`)
)

// ToDPST converts "major.minor" to the ETS form "DPST-major-minor" with
// leading zeros removed ("1.001" → "DPST-1-1"). Values without a dot are
// returned unchanged; an empty DPT yields "".
func (d DPT) ToDPST() string {
	s := strings.TrimSpace(string(d))
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return s
	}
	return fmt.Sprintf("DPST-%s-%s", trimZeros(major), trimZeros(minor))
}

// Major returns the main number of the datapoint type.
func (d DPT) Major() (int, error) {
	major, _, _ := strings.Cut(string(d), ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDPT, string(d))
	}
	return n, nil
}

// Valid reports whether d is in "major.minor" form.
func (d DPT) Valid() bool {
	return reDPTDotted.MatchString(string(d))
}

// ParseDPST normalises the datapoint notations found in ETS exports to
// "major.minor" with a three-digit minor:
//   - "DPST-9-1" → "9.001"
//   - "DPT-1"    → "1.001"
//   - "5.1"      → "5.001"
//   - "1"        → "1.001"
//
// Returns ErrInvalidDPT for anything else.
func ParseDPST(s string) (DPT, error) {
	s = strings.TrimSpace(s)

	if m := reDPST.FindStringSubmatch(s); m != nil {
		return dotted(m[1], m[2]), nil
	}
	if m := reDPTMain.FindStringSubmatch(s); m != nil {
		return dotted(m[1], "1"), nil
	}
	if m := reDPTDotted.FindStringSubmatch(s); m != nil {
		return dotted(m[1], m[2]), nil
	}
	if reDPTNumeric.MatchString(s) {
		return dotted(s, "1"), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDPT, s)
}

func dotted(major, minor string) DPT {
	minor = trimZeros(minor)
	for len(minor) < 3 {
		minor = "0" + minor
	}
	return DPT(trimZeros(major) + "." + minor)
}

func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}
	return t
}
