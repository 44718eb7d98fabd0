package naming

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
)

// Placeholder keys understood by Render.
const (
	KeyAreaName      = "area.name"
	KeyAreaAbbr      = "area.abbr"
	KeyRoomName      = "room.name"
	KeyRoomIndex     = "room.index"
	KeyDeviceLabel   = "device.label"
	KeyDeviceDesc    = "device.desc"
	KeyInstanceIndex = "instance.index"
	KeyFunctionName  = "function.name"
)

// maxWidth caps the padding width of index placeholders so a mistyped
// width such as {room.index:99999999} cannot allocate a huge string.
// Widths up to the cap pad exactly.
const maxWidth = 64

var placeholderRe = regexp.MustCompile(`\{([\w.]+)(?::(\d+))?\}`)

// Context carries everything a template can refer to for one leaf address.
// Nil pointers resolve to empty strings.
type Context struct {
	Area     *project.Area
	Room     *project.Room
	Instance *project.FunctionInstance

	// RoomIndex is the 0-based position of the room within its area.
	RoomIndex int

	// InstanceIndex is the 0-based position of the instance among the
	// same-type instances of its room.
	InstanceIndex int

	// FunctionName is the resolved sub-function or scene name.
	FunctionName string
}

// Render substitutes every recognised placeholder in template with its value
// from ctx. Unrecognised placeholders are left untouched. The result has
// whitespace runs collapsed and is trimmed.
func Render(template string, ctx Context) string {
	out := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		sub := placeholderRe.FindStringSubmatch(match)
		value, ok := resolve(sub[1], sub[2], ctx)
		if !ok {
			return match
		}
		return value
	})

	return strings.Join(strings.Fields(out), " ")
}

// resolve returns the value for key. width is the raw digits after the
// colon, possibly empty.
func resolve(key, width string, ctx Context) (string, bool) {
	switch key {
	case KeyAreaName:
		if ctx.Area == nil {
			return "", true
		}
		return ctx.Area.Name, true
	case KeyAreaAbbr:
		if ctx.Area == nil {
			return "", true
		}
		return ctx.Area.Abbreviation, true
	case KeyRoomName:
		if ctx.Room == nil {
			return "", true
		}
		return ctx.Room.Name, true
	case KeyRoomIndex:
		return padIndex(ctx.RoomIndex+1, width), true
	case KeyDeviceLabel:
		if ctx.Instance == nil {
			return "", true
		}
		return ctx.Instance.Snapshot.Label, true
	case KeyDeviceDesc:
		if ctx.Instance == nil {
			return "", true
		}
		return ctx.Instance.Snapshot.Description, true
	case KeyInstanceIndex:
		return padIndex(ctx.InstanceIndex+1, width), true
	case KeyFunctionName:
		return ctx.FunctionName, true
	default:
		return "", false
	}
}

// padIndex formats n left-padded with zeros to width digits.
func padIndex(n int, width string) string {
	s := strconv.Itoa(n)

	w, err := strconv.Atoi(width)
	if err != nil {
		return s
	}
	w = min(w, maxWidth)

	if len(s) >= w {
		return s
	}
	return strings.Repeat("0", w-len(s)) + s
}
