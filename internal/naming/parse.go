package naming

import "strconv"

// Part is one piece of a parsed template: either literal text or a
// placeholder.
type Part struct {
	Literal string

	// Key is set for placeholders. Width is 0 when no width was given.
	Key   string
	Width int

	// Known reports whether Render resolves Key.
	Known bool
}

// IsPlaceholder reports whether the part is a placeholder.
func (p Part) IsPlaceholder() bool {
	return p.Key != ""
}

// Placeholder describes a recognised key.
type Placeholder struct {
	Key         string
	Description string
	Padded      bool
}

var placeholders = []Placeholder{
	{Key: KeyAreaName, Description: "area name"},
	{Key: KeyAreaAbbr, Description: "area abbreviation"},
	{Key: KeyRoomName, Description: "room name"},
	{Key: KeyRoomIndex, Description: "1-based room position in its area", Padded: true},
	{Key: KeyDeviceLabel, Description: "device type label"},
	{Key: KeyDeviceDesc, Description: "device type description"},
	{Key: KeyInstanceIndex, Description: "1-based position among same-type instances in the room", Padded: true},
	{Key: KeyFunctionName, Description: "sub-function or scene name"},
}

// Placeholders returns the catalogue of recognised keys in display order.
func Placeholders() []Placeholder {
	out := make([]Placeholder, len(placeholders))
	copy(out, placeholders)
	return out
}

// IsKnownKey reports whether key is resolved by Render.
func IsKnownKey(key string) bool {
	for _, p := range placeholders {
		if p.Key == key {
			return true
		}
	}
	return false
}

// Parse splits template into literal and placeholder parts, using the same
// placeholder syntax as Render. Adjacent literal text is merged.
func Parse(template string) []Part {
	var parts []Part

	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(template, -1) {
		if loc[0] > last {
			parts = append(parts, Part{Literal: template[last:loc[0]]})
		}

		p := Part{
			Literal: template[loc[0]:loc[1]],
			Key:     template[loc[2]:loc[3]],
		}
		if loc[4] >= 0 {
			if w, err := strconv.Atoi(template[loc[4]:loc[5]]); err == nil {
				p.Width = w
			}
		}
		p.Known = IsKnownKey(p.Key)
		parts = append(parts, p)

		last = loc[1]
	}

	if last < len(template) {
		parts = append(parts, Part{Literal: template[last:]})
	}

	return parts
}

// UnknownKeys returns the placeholder keys in template that Render would
// leave unresolved, in order of first appearance.
func UnknownKeys(template string) []string {
	var keys []string
	seen := make(map[string]bool)

	for _, p := range Parse(template) {
		if !p.IsPlaceholder() || p.Known || seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		keys = append(keys, p.Key)
	}

	return keys
}
