package generator

import "strings"

// Level tags the hierarchy level of a row.
type Level string

// Row levels.
const (
	LevelMain   Level = "main"
	LevelMiddle Level = "middle"
	LevelGA     Level = "ga"
)

// Row is one line of the generated address listing.
//
// MiddleGroup is nil for main rows. Sub is nil for main rows, middle rows,
// and separators.
type Row struct {
	Level       Level  `json:"level" cbor:"1,keyasint"`
	MainGroup   int    `json:"mainGroup" cbor:"2,keyasint"`
	MiddleGroup *int   `json:"middleGroup,omitempty" cbor:"3,keyasint,omitempty"`
	Sub         *int   `json:"sub,omitempty" cbor:"4,keyasint,omitempty"`
	Name        string `json:"name" cbor:"5,keyasint"`
	DPT         string `json:"dpt,omitempty" cbor:"6,keyasint,omitempty"`
	Description string `json:"description,omitempty" cbor:"7,keyasint,omitempty"`
}

// IsSeparator reports whether the row is a visual divider rather than an
// address.
func (r Row) IsSeparator() bool {
	return r.Level == LevelGA && (r.Name == separatorName || strings.HasPrefix(r.Name, "---"))
}

// IsAddress reports whether the row is a real group address.
func (r Row) IsAddress() bool {
	return r.Level == LevelGA && !r.IsSeparator()
}

// Middle returns the middle group, or -1 if the row has none.
func (r Row) Middle() int {
	if r.MiddleGroup == nil {
		return -1
	}
	return *r.MiddleGroup
}

// SubAddress returns the sub address, or -1 if the row has none.
func (r Row) SubAddress() int {
	if r.Sub == nil {
		return -1
	}
	return *r.Sub
}

// Stats summarises a generated row list.
type Stats struct {
	MainGroups   int `json:"mainGroups"`
	MiddleGroups int `json:"middleGroups"`
	Addresses    int `json:"addresses"`
	Separators   int `json:"separators"`
}

// Summarise counts the rows of each kind.
func Summarise(rows []Row) Stats {
	var s Stats
	for _, r := range rows {
		switch {
		case r.Level == LevelMain:
			s.MainGroups++
		case r.Level == LevelMiddle:
			s.MiddleGroups++
		case r.IsSeparator():
			s.Separators++
		default:
			s.Addresses++
		}
	}
	return s
}
