package knx

import (
	"errors"
	"testing"
)

func TestParseGroupAddress(t *testing.T) {
	tests := []struct {
		input   string
		want    GroupAddress
		wantErr bool
	}{
		{"1/2/3", GroupAddress{1, 2, 3}, false},
		{"0/0/0", GroupAddress{0, 0, 0}, false},
		{"31/7/255", GroupAddress{31, 7, 255}, false},
		{"32/0/0", GroupAddress{}, true},
		{"0/8/0", GroupAddress{}, true},
		{"0/0/256", GroupAddress{}, true},
		{"1/2", GroupAddress{}, true},
		{"a/b/c", GroupAddress{}, true},
		{"-1/0/0", GroupAddress{}, true},
		{"", GroupAddress{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGroupAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGroupAddress(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGroupAddress) {
					t.Errorf("error = %v, want ErrInvalidGroupAddress", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseGroupAddress(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestGroupAddress_ToUint16(t *testing.T) {
	tests := []struct {
		ga   GroupAddress
		want uint16
	}{
		{GroupAddress{0, 0, 0}, 0x0000},
		{GroupAddress{1, 0, 0}, 0x0800},
		{GroupAddress{1, 2, 3}, 0x0A03},
		{GroupAddress{31, 7, 255}, 0xFFFF},
	}

	for _, tt := range tests {
		if got := tt.ga.ToUint16(); got != tt.want {
			t.Errorf("%v.ToUint16() = 0x%04X, want 0x%04X", tt.ga, got, tt.want)
		}
	}
}

func TestGroupAddress_IsValid(t *testing.T) {
	if !(GroupAddress{31, 7, 255}).IsValid() {
		t.Error("31/7/255 IsValid() = false, want true")
	}
	if (GroupAddress{32, 0, 0}).IsValid() {
		t.Error("32/0/0 IsValid() = true, want false")
	}
}

func TestDPT_ToDPST(t *testing.T) {
	tests := []struct {
		dpt  DPT
		want string
	}{
		{"1.001", "DPST-1-1"},
		{"9.001", "DPST-9-1"},
		{"20.102", "DPST-20-102"},
		{"232.600", "DPST-232-600"},
		{"5.010", "DPST-5-10"},
		{"1.000", "DPST-1-0"},
		{"", ""},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dpt), func(t *testing.T) {
			if got := tt.dpt.ToDPST(); got != tt.want {
				t.Errorf("DPT(%q).ToDPST() = %q, want %q", tt.dpt, got, tt.want)
			}
		})
	}
}

func TestParseDPST(t *testing.T) {
	tests := []struct {
		input   string
		want    DPT
		wantErr bool
	}{
		{"DPST-9-1", "9.001", false},
		{"DPST-20-102", "20.102", false},
		{"DPT-1", "1.001", false},
		{"5.1", "5.001", false},
		{"1.001", "1.001", false},
		{"18", "18.001", false},
		{"DPST-x-1", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDPST(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDPST(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDPST(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDPTRoundTrip(t *testing.T) {
	for _, d := range []DPT{DPTSwitch, DPTStep, DPTUpDown, DPTDimmingControl, DPTPercentage, DPTTemperature, DPTSceneControl, DPTHVACMode} {
		got, err := ParseDPST(d.ToDPST())
		if err != nil || got != d {
			t.Errorf("ParseDPST(%q) = %q, %v, want %q", d.ToDPST(), got, err, d)
		}
		if !d.Valid() {
			t.Errorf("DPT(%q).Valid() = false", d)
		}
	}
}

func TestDPT_Major(t *testing.T) {
	if n, err := DPT("9.001").Major(); err != nil || n != 9 {
		t.Errorf("Major() = %d, %v, want 9", n, err)
	}
	if _, err := DPT("x.1").Major(); !errors.Is(err, ErrInvalidDPT) {
		t.Errorf("Major() error = %v, want ErrInvalidDPT", err)
	}
}
