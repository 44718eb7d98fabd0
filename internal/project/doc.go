// Package project defines the building model the address planner works on.
//
// A project is a tree of areas (floors, wings, outbuildings), rooms, and
// function instances placed in those rooms. Each function instance carries a
// snapshot of its device type configuration taken when the instance was
// created. Later edits to the project-wide device configuration never change
// already placed instances; the snapshot is the only source of truth for an
// instance's addressing shape.
//
// # Key Types
//
//   - BuildingModel: the whole project (areas, device config, view options)
//   - Area: top-level zone addressed by a main group number
//   - Room: a physical room inside an area
//   - FunctionInstance: one installed function with its config snapshot
//   - DeviceTypeConfig / SubFunction: the addressing shape of a function type
//
// # Usage
//
//	model, err := project.Load("haus.json")
//	if err != nil {
//	    return err
//	}
//	if err := project.ValidateForExport(ctx, model); err != nil {
//	    return err // duplicate main groups, missing names, ...
//	}
//
// Validation is deliberately separate from address generation: the
// generator accepts any structurally valid model and never rejects it.
package project
