package generator

import (
	"fmt"
	"sort"
)

// buildingEntry is an instance scheduled into one middle group of an area.
type buildingEntry struct {
	placement

	// feedback is set when the entry belongs to the type's separate
	// feedback group.
	feedback bool
}

// buildingView groups addresses by area, then by middle group.
//
// Every area gets a main row in model order, even when empty. Within an
// area, instances are bucketed by their snapshot's middle group and, when
// configured, their separate feedback group. Buckets are emitted in
// ascending order with entries sorted by room name, then instance id.
func (g *generation) buildingView() []Row {
	middleNames, _ := g.typeGroups(true)

	for ai := range g.model.Areas {
		area := &g.model.Areas[ai]
		g.mainRow(area.MainGroup, area.Name)

		buckets := make(map[int][]buildingEntry)
		for _, p := range placements(area) {
			snap := &p.instance.Snapshot
			buckets[snap.MiddleGroup] = append(buckets[snap.MiddleGroup], buildingEntry{placement: p})

			if fb, ok := snap.SeparateFeedbackGroup(); ok && hasFeedbackLeaves(snap) {
				buckets[fb] = append(buckets[fb], buildingEntry{placement: p, feedback: true})
			}
		}

		for _, middle := range sortedKeys(buckets) {
			name := fmt.Sprintf("Middle group %d", middle)
			if tg, ok := middleNames[middle]; ok {
				name = tg.name
			}

			entries := buckets[middle]
			g.sortBuildingEntries(entries)
			g.writeBuildingGroup(g.middleRow(area.MainGroup, middle, name), entries)
		}
	}

	return g.rows
}

func (g *generation) sortBuildingEntries(entries []buildingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.roomIndex != b.roomIndex {
			if c := g.compareRooms(a.room.Name, b.room.Name); c != 0 {
				return c < 0
			}
			return a.roomIndex < b.roomIndex
		}
		return a.instance.ID < b.instance.ID
	})
}

// writeBuildingGroup emits the leaves of one middle group. A room header
// precedes each room's first instance, a plain separator goes before every
// room header after the first and between two instances of the same room.
func (g *generation) writeBuildingGroup(w *groupWriter, entries []buildingEntry) {
	lastRoom := -1
	var lastInstance *buildingEntry

	for i := range entries {
		e := &entries[i]

		if e.roomIndex != lastRoom {
			if lastRoom != -1 {
				w.instanceSeparator()
			}
			w.roomSeparator(e.room.Name)
			lastRoom = e.roomIndex
			lastInstance = nil
		}

		if lastInstance != nil && lastInstance.instance != e.instance {
			w.instanceSeparator()
		}
		lastInstance = e

		snap := &e.instance.Snapshot
		_, separate := snap.SeparateFeedbackGroup()
		p := actionPass
		if e.feedback {
			p = feedbackPass
		}

		description := fmt.Sprintf("(%s %s %d)", e.room.Name, snap.Description, e.typeIndex+1)

		for _, fn := range snap.Functions {
			for _, l := range leavesFor(fn, p, !separate) {
				w.address(g.render(e.placement, actionName(e.instance, l)), fn.DPT, description)
			}
		}
	}
}
