package knx

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupAddress is a KNX group address in 3-level format.
//
// Format: Main/Middle/Sub
//   - Main:   0-31 (5 bits)
//   - Middle: 0-7  (3 bits)
//   - Sub:    0-255 (8 bits)
type GroupAddress struct {
	Main   uint8
	Middle uint8
	Sub    uint8
}

// Group address limits.
const (
	MaxMain   = 31
	MaxMiddle = 7
	MaxSub    = 255

	gaLevelCount = 3
)

// NewGroupAddress builds a group address from plain ints, as produced by
// the generator.
//
// Returns:
//   - GroupAddress: The address
//   - error: ErrInvalidGroupAddress if any level is out of range
func NewGroupAddress(main, middle, sub int) (GroupAddress, error) {
	if main < 0 || main > MaxMain {
		return GroupAddress{}, fmt.Errorf("%w: main group must be 0-%d, got %d", ErrInvalidGroupAddress, MaxMain, main)
	}
	if middle < 0 || middle > MaxMiddle {
		return GroupAddress{}, fmt.Errorf("%w: middle group must be 0-%d, got %d", ErrInvalidGroupAddress, MaxMiddle, middle)
	}
	if sub < 0 || sub > MaxSub {
		return GroupAddress{}, fmt.Errorf("%w: sub group must be 0-%d, got %d", ErrInvalidGroupAddress, MaxSub, sub)
	}

	return GroupAddress{Main: uint8(main), Middle: uint8(middle), Sub: uint8(sub)}, nil //nolint:gosec // range checked above
}

// ParseGroupAddress parses a 3-level group address string such as "1/2/3".
//
// Returns:
//   - GroupAddress: Parsed address
//   - error: ErrInvalidGroupAddress if parsing fails
func ParseGroupAddress(s string) (GroupAddress, error) {
	parts := strings.Split(s, "/")
	if len(parts) != gaLevelCount {
		return GroupAddress{}, fmt.Errorf("%w: expected 3-level format (main/middle/sub), got %q", ErrInvalidGroupAddress, s)
	}

	levels := make([]int, gaLevelCount)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return GroupAddress{}, fmt.Errorf("%w: %q is not a number", ErrInvalidGroupAddress, p)
		}
		levels[i] = v
	}

	return NewGroupAddress(levels[0], levels[1], levels[2])
}

// String returns the group address in 3-level format, e.g. "1/2/3".
func (ga GroupAddress) String() string {
	return fmt.Sprintf("%d/%d/%d", ga.Main, ga.Middle, ga.Sub)
}

// ToUint16 converts the group address to its 16-bit bus encoding.
//
// Layout: MMMM MSSS SSSS SSSS
func (ga GroupAddress) ToUint16() uint16 {
	return uint16(ga.Main)<<11 | uint16(ga.Middle)<<8 | uint16(ga.Sub)
}

// IsValid returns true if the group address values are within valid ranges.
func (ga GroupAddress) IsValid() bool {
	return ga.Main <= MaxMain && ga.Middle <= MaxMiddle
}
