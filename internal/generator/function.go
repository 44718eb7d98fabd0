package generator

import (
	"fmt"
	"sort"
)

// functionLeaf is one address collected for a sub-function group.
type functionLeaf struct {
	placement
	dpt string
}

// functionView groups addresses by device type, then by sub-function name.
//
// Each device type's action group and distinct feedback group becomes a
// main row whose number is the type's middle group number. Sub-function
// names are sorted and numbered as middle groups from 0. Leaves inside a
// sub-function are ordered by area main group, then room name.
func (g *generation) functionView() []Row {
	groups, order := g.typeGroups(true)

	for _, main := range order {
		tg := groups[main]
		matching := g.placementsOfType(tg.functionType)
		if len(matching) == 0 {
			continue
		}

		g.mainRow(main, tg.name)

		bySubFunction := make(map[string][]functionLeaf)
		for _, p := range matching {
			snap := &p.instance.Snapshot
			fb, separate := snap.SeparateFeedbackGroup()

			for _, fn := range snap.Functions {
				var leaves []leaf
				if main == snap.MiddleGroup {
					leaves = leavesFor(fn, actionPass, !separate)
				}
				if separate && main == fb {
					leaves = append(leaves, leavesFor(fn, feedbackPass, false)...)
				}

				for _, l := range leaves {
					bySubFunction[l.name] = append(bySubFunction[l.name], functionLeaf{
						placement: p,
						dpt:       fn.DPT,
					})
				}
			}
		}

		names := make([]string, 0, len(bySubFunction))
		for name := range bySubFunction {
			names = append(names, name)
		}
		sort.Strings(names)

		for middle, subName := range names {
			w := g.middleRow(main, middle, subName)

			leaves := bySubFunction[subName]
			sort.SliceStable(leaves, func(i, j int) bool {
				a, b := leaves[i], leaves[j]
				if a.area.MainGroup != b.area.MainGroup {
					return a.area.MainGroup < b.area.MainGroup
				}
				return g.compareRooms(a.room.Name, b.room.Name) < 0
			})

			for _, fl := range leaves {
				name := subName
				if fl.instance.Snapshot.IsScene {
					if scene := fl.instance.SceneName(); scene != "" {
						name = scene
					}
				}
				w.address(g.render(fl.placement, name), fl.dpt, fmt.Sprintf("(%s)", fl.instance.Snapshot.Description))
			}
		}
	}

	return g.rows
}
