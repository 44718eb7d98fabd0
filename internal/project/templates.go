package project

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Descriptive template keys that map onto the light function type.
const (
	templateLightSwitch = "lightSwitch"
	templateLightDim    = "lightDim"
)

// FunctionCount requests Count instances of a function type in a room
// template. Type may be a device config key or one of the descriptive
// keys "lightSwitch" (switch only) and "lightDim".
type FunctionCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// RoomTemplate describes a room and the functions placed in it.
type RoomTemplate struct {
	Name      string          `json:"name" yaml:"name"`
	Functions []FunctionCount `json:"functions" yaml:"functions"`
}

// AreaTemplate describes an area with its rooms.
type AreaTemplate struct {
	Name         string         `json:"name" yaml:"name"`
	Abbreviation string         `json:"abbreviation" yaml:"abbreviation"`
	MainGroup    int            `json:"mainGroup" yaml:"main_group"`
	Rooms        []RoomTemplate `json:"rooms" yaml:"rooms"`
}

// Template is a predefined project layout.
type Template struct {
	Name  string         `json:"name" yaml:"name"`
	Areas []AreaTemplate `json:"areas" yaml:"areas"`
}

// builtinTemplates are the project templates offered for new projects.
var builtinTemplates = map[string]Template{
	"residential": {
		Name: "Single-Family House",
		Areas: []AreaTemplate{
			{Name: "Ground Floor", Abbreviation: "GF", MainGroup: 1, Rooms: []RoomTemplate{
				{Name: "Living/Dining", Functions: []FunctionCount{
					{Type: templateLightDim, Count: 2}, {Type: templateLightSwitch, Count: 1},
					{Type: TypeBlinds, Count: 1}, {Type: TypeHeating, Count: 1},
				}},
				{Name: "Kitchen", Functions: []FunctionCount{
					{Type: templateLightSwitch, Count: 1}, {Type: TypeBlinds, Count: 1},
				}},
				{Name: "Hallway", Functions: []FunctionCount{
					{Type: templateLightSwitch, Count: 1},
				}},
			}},
			{Name: "Upper Floor", Abbreviation: "UF", MainGroup: 2, Rooms: []RoomTemplate{
				{Name: "Bedroom", Functions: []FunctionCount{
					{Type: templateLightDim, Count: 1}, {Type: TypeBlinds, Count: 1}, {Type: TypeHeating, Count: 1},
				}},
				{Name: "Bathroom", Functions: []FunctionCount{
					{Type: templateLightSwitch, Count: 2}, {Type: TypeHeating, Count: 1},
				}},
				{Name: "Child 1", Functions: []FunctionCount{
					{Type: templateLightSwitch, Count: 1}, {Type: TypeBlinds, Count: 1}, {Type: TypeHeating, Count: 1},
				}},
			}},
		},
	},
	"apartment": {
		Name: "Apartment",
		Areas: []AreaTemplate{
			{Name: "Apartment", Abbreviation: "APT", MainGroup: 1, Rooms: []RoomTemplate{
				{Name: "Living/Dining", Functions: []FunctionCount{
					{Type: templateLightDim, Count: 1}, {Type: TypeBlinds, Count: 1}, {Type: TypeHeating, Count: 1},
				}},
				{Name: "Bedroom", Functions: []FunctionCount{
					{Type: templateLightSwitch, Count: 1}, {Type: TypeBlinds, Count: 1},
				}},
				{Name: "Bath", Functions: []FunctionCount{
					{Type: templateLightSwitch, Count: 1},
				}},
			}},
		},
	},
}

// TemplateNames returns the names of the built-in project templates, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(builtinTemplates))
	for name := range builtinTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromTemplate builds a new project from a built-in template. Instances
// snapshot the given device config; nil means DefaultDeviceConfig.
func FromTemplate(name string, cfg DeviceConfigMap) (*BuildingModel, error) {
	tpl, ok := builtinTemplates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	if cfg == nil {
		cfg = DefaultDeviceConfig()
	}

	model := &BuildingModel{
		Name:         tpl.Name,
		Areas:        make([]Area, 0, len(tpl.Areas)),
		DeviceConfig: cfg,
		ViewOptions:  DefaultViewOptions(),
	}

	for _, at := range tpl.Areas {
		area := Area{
			ID:           "area-" + uuid.New().String(),
			Name:         at.Name,
			Abbreviation: at.Abbreviation,
			MainGroup:    at.MainGroup,
			Rooms:        make([]Room, 0, len(at.Rooms)),
		}
		for _, rt := range at.Rooms {
			area.Rooms = append(area.Rooms, Room{
				ID:        "room-" + uuid.New().String(),
				Name:      rt.Name,
				Instances: InstancesFromTemplate(rt.Functions, cfg),
			})
		}
		model.Areas = append(model.Areas, area)
	}

	return model, nil
}

// NewFunctionInstance creates an instance of functionType whose snapshot is
// a deep copy of the current device config for that type.
func NewFunctionInstance(functionType string, cfg DeviceConfigMap) (FunctionInstance, error) {
	typeCfg, ok := cfg[functionType]
	if !ok {
		return FunctionInstance{}, fmt.Errorf("%w: %q", ErrUnknownFunctionType, functionType)
	}
	return FunctionInstance{
		ID:       "instance-" + uuid.New().String(),
		Type:     functionType,
		Snapshot: typeCfg.DeepCopy(),
	}, nil
}

// InstancesFromTemplate creates the function instances requested by a room
// template. Unknown types are skipped. Scene instances are named
// "Scene 1", "Scene 2", ... per request.
func InstancesFromTemplate(functions []FunctionCount, cfg DeviceConfigMap) []FunctionInstance {
	var instances []FunctionInstance

	for _, fc := range functions {
		canonical := canonicalType(fc.Type)
		for i := 0; i < fc.Count; i++ {
			inst, err := NewFunctionInstance(canonical, cfg)
			if err != nil {
				break
			}

			if fc.Type == templateLightSwitch {
				disableDimming(&inst.Snapshot)
			}
			if inst.Snapshot.IsScene {
				inst.CustomData = &CustomData{SceneName: fmt.Sprintf("Scene %d", i+1)}
			}

			instances = append(instances, inst)
		}
	}

	return instances
}

// canonicalType maps descriptive template keys onto device config keys.
func canonicalType(t string) string {
	if t == templateLightSwitch || t == templateLightDim {
		return TypeLight
	}
	return t
}

// disableDimming turns off the dimming and value sub-functions of a light
// snapshot so only switching remains.
func disableDimming(cfg *DeviceTypeConfig) {
	for i := range cfg.Functions {
		name := strings.ToLower(cfg.Functions[i].Name)
		if strings.Contains(name, "dim") || strings.Contains(name, "value") || strings.Contains(name, "wert") {
			cfg.Functions[i].Enabled = false
		}
	}
}
