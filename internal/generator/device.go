package generator

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
)

// deviceView groups addresses by device type, then by area.
//
// Each device type's action middle group becomes a main row; separate
// feedback groups are ignored and all feedback is emitted inline. Areas
// with instances of the type become middle rows numbered by their main
// group, in ascending main group order. Inside an area each room with
// matching instances gets a header followed by its instances sorted by id.
func (g *generation) deviceView() []Row {
	groups, order := g.typeGroups(false)

	areas := make([]*project.Area, len(g.model.Areas))
	for i := range g.model.Areas {
		areas[i] = &g.model.Areas[i]
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].MainGroup < areas[j].MainGroup
	})

	for _, main := range order {
		tg := groups[main]
		if len(g.placementsOfType(tg.functionType)) == 0 {
			continue
		}

		g.mainRow(main, tg.name)

		for _, area := range areas {
			if !areaHasType(area, tg.functionType) {
				continue
			}

			w := g.middleRow(main, area.MainGroup, area.Name)
			for ri := range area.Rooms {
				g.writeDeviceRoom(w, area, ri, tg.functionType)
			}
		}
	}

	return g.rows
}

func areaHasType(area *project.Area, functionType string) bool {
	for _, room := range area.Rooms {
		for _, inst := range room.Instances {
			if inst.Type == functionType {
				return true
			}
		}
	}
	return false
}

// writeDeviceRoom emits one room's instances of functionType. The instance
// index used for naming is the position in id order.
func (g *generation) writeDeviceRoom(w *groupWriter, area *project.Area, roomIndex int, functionType string) {
	room := &area.Rooms[roomIndex]

	var instances []*project.FunctionInstance
	for i := range room.Instances {
		if room.Instances[i].Type == functionType {
			instances = append(instances, &room.Instances[i])
		}
	}
	if len(instances) == 0 {
		return
	}
	slices.SortStableFunc(instances, func(a, b *project.FunctionInstance) int {
		return strings.Compare(a.ID, b.ID)
	})

	w.roomSeparator(room.Name)
	description := fmt.Sprintf("(%s)", room.Name)

	for idx, inst := range instances {
		if idx > 0 {
			w.instanceSeparator()
		}

		p := placement{area: area, room: room, roomIndex: roomIndex, instance: inst, typeIndex: idx}
		for _, fn := range inst.Snapshot.Functions {
			for _, l := range leavesFor(fn, inlinePass, true) {
				w.address(g.render(p, actionName(inst, l)), fn.DPT, description)
			}
		}
	}
}
