package generator

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/naming"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
)

// Separator rows.
const (
	separatorName        = "-"
	separatorDescription = "Separator"
)

// Generate produces the ordered address listing for m using the structure
// mode in m.ViewOptions. It never fails; a nil or empty model yields no
// rows.
func Generate(m *project.BuildingModel) []Row {
	if m == nil {
		return nil
	}
	return GenerateMode(m, m.ViewOptions.StructureMode)
}

// GenerateMode is Generate with an explicit structure mode. Unknown modes
// fall back to the building view.
func GenerateMode(m *project.BuildingModel, mode project.StructureMode) []Row {
	if m == nil {
		return nil
	}

	g := &generation{
		model:    m,
		template: m.ViewOptions.NameTemplate,
		collator: collate.New(language.Und),
	}

	switch project.ParseStructureMode(string(mode)) {
	case project.ModeFunction:
		return g.functionView()
	case project.ModeDevice:
		return g.deviceView()
	default:
		return g.buildingView()
	}
}

// generation holds the state of one Generate call. A collator is not safe
// for concurrent use, so each call gets its own.
type generation struct {
	model    *project.BuildingModel
	template string
	collator *collate.Collator
	rows     []Row
}

// placement locates one function instance in the model.
type placement struct {
	area      *project.Area
	room      *project.Room
	roomIndex int
	instance  *project.FunctionInstance

	// typeIndex is the 0-based position among same-type instances in the room.
	typeIndex int
}

func (p placement) context(functionName string) naming.Context {
	return naming.Context{
		Area:          p.area,
		Room:          p.room,
		RoomIndex:     p.roomIndex,
		Instance:      p.instance,
		InstanceIndex: p.typeIndex,
		FunctionName:  functionName,
	}
}

// placements walks area in order and returns every instance it holds.
func placements(area *project.Area) []placement {
	var out []placement
	for ri := range area.Rooms {
		room := &area.Rooms[ri]
		perType := make(map[string]int)
		for ii := range room.Instances {
			inst := &room.Instances[ii]
			out = append(out, placement{
				area:      area,
				room:      room,
				roomIndex: ri,
				instance:  inst,
				typeIndex: perType[inst.Type],
			})
			perType[inst.Type]++
		}
	}
	return out
}

// placementsOfType returns every instance of functionType in the model, in
// area, room, and instance order.
func (g *generation) placementsOfType(functionType string) []placement {
	var out []placement
	for ai := range g.model.Areas {
		for _, p := range placements(&g.model.Areas[ai]) {
			if p.instance.Type == functionType {
				out = append(out, p)
			}
		}
	}
	return out
}

// compareRooms orders two room names with locale-aware collation.
func (g *generation) compareRooms(a, b string) int {
	return g.collator.CompareString(a, b)
}

// sortedTypes returns the device config keys in ascending order.
func (g *generation) sortedTypes() []string {
	keys := make([]string, 0, len(g.model.DeviceConfig))
	for k := range g.model.DeviceConfig {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// typeGroup is a group number claimed by a device type.
type typeGroup struct {
	name         string
	functionType string
}

// typeGroups maps group numbers to the device type owning them, based on
// the project-wide device config. Types are visited in key order; when two
// types claim the same number the later one wins. withFeedback adds distinct
// feedback groups labelled "<description> - Feedback".
func (g *generation) typeGroups(withFeedback bool) (map[int]typeGroup, []int) {
	groups := make(map[int]typeGroup)

	for _, t := range g.sortedTypes() {
		cfg := g.model.DeviceConfig[t]
		groups[cfg.MiddleGroup] = typeGroup{name: cfg.Description, functionType: t}
		if !withFeedback {
			continue
		}
		if fb, ok := cfg.SeparateFeedbackGroup(); ok {
			groups[fb] = typeGroup{name: feedbackGroupName(cfg.Description), functionType: t}
		}
	}

	return groups, sortedKeys(groups)
}

func feedbackGroupName(description string) string {
	return description + " - Feedback"
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// render builds the display name of a leaf.
func (g *generation) render(p placement, functionName string) string {
	return naming.Render(g.template, p.context(functionName))
}

func (g *generation) mainRow(main int, name string) {
	g.rows = append(g.rows, Row{Level: LevelMain, MainGroup: main, Name: name})
}

// middleRow appends a middle group header and returns a writer for its
// leaves. Sub addresses restart at 0 for every middle group.
func (g *generation) middleRow(main, middle int, name string) *groupWriter {
	g.rows = append(g.rows, Row{Level: LevelMiddle, MainGroup: main, MiddleGroup: intPtr(middle), Name: name})
	return &groupWriter{g: g, main: main, middle: middle}
}

// groupWriter appends leaves to one middle group and numbers them
// consecutively. Separators carry no sub address.
type groupWriter struct {
	g      *generation
	main   int
	middle int
	next   int
}

func (w *groupWriter) address(name, dpt, description string) {
	sub := w.next
	w.next++
	w.g.rows = append(w.g.rows, Row{
		Level:       LevelGA,
		MainGroup:   w.main,
		MiddleGroup: intPtr(w.middle),
		Sub:         &sub,
		Name:        name,
		DPT:         dpt,
		Description: description,
	})
}

func (w *groupWriter) roomSeparator(room string) {
	w.separator(fmt.Sprintf("--- %s ---", room), fmt.Sprintf("Separator for %s", room))
}

func (w *groupWriter) instanceSeparator() {
	w.separator(separatorName, separatorDescription)
}

func (w *groupWriter) separator(name, description string) {
	w.g.rows = append(w.g.rows, Row{
		Level:       LevelGA,
		MainGroup:   w.main,
		MiddleGroup: intPtr(w.middle),
		Name:        name,
		Description: description,
	})
}

func intPtr(v int) *int {
	return &v
}
