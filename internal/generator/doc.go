// Package generator derives three-level KNX group addresses from a building
// model.
//
// Generate walks a project.BuildingModel and returns a flat, ordered list of
// rows: main group headers, middle group headers, and leaf addresses mixed
// with separator rows. Three layouts are supported:
//
//   - building (default): main group = area, middle group = device type
//   - function: main group = device type group, middle group = sub-function
//   - device: main group = device type group, middle group = area
//
// # Feedback Addresses
//
// A sub-function whose name contains "RM" or "status" (any case) is pure
// feedback. A sub-function with IsFeedback set is an action that also needs
// a companion feedback address named "<name> RM". When the instance snapshot
// has a feedback middle group different from its action group, feedback
// addresses go there (building and function views); otherwise they follow
// the action address inline. The device view always emits them inline.
//
// # Guarantees
//
// Generation is deterministic and never fails. Only the instance snapshot is
// consulted for addressing; the project-wide device config only supplies
// header names. Within one middle group, leaf addresses are numbered from 0
// without gaps; separator rows carry no sub address. Input is not validated:
// duplicate main groups produce overlapping addresses. Use
// project.ValidateForExport before exporting.
//
// # Usage
//
//	rows := generator.Generate(model)
//	for _, r := range rows {
//	    if r.IsAddress() {
//	        fmt.Printf("%d/%d/%d %s\n", r.MainGroup, r.Middle(), r.SubAddress(), r.Name)
//	    }
//	}
package generator
