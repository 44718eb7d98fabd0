package project

// StructureMode selects how group addresses are laid out.
type StructureMode string

// Supported structure modes.
const (
	// ModeBuilding groups addresses by area (main group), then function type.
	ModeBuilding StructureMode = "building"

	// ModeFunction groups addresses by function type, then sub-function.
	ModeFunction StructureMode = "function"

	// ModeDevice groups addresses by function type, then area.
	ModeDevice StructureMode = "device"
)

// ValidStructureModes returns all recognised structure modes.
func ValidStructureModes() []StructureMode {
	return []StructureMode{ModeBuilding, ModeFunction, ModeDevice}
}

// ParseStructureMode converts a string to a StructureMode.
// Unknown and empty values fall back to ModeBuilding.
func ParseStructureMode(s string) StructureMode {
	switch StructureMode(s) {
	case ModeFunction:
		return ModeFunction
	case ModeDevice:
		return ModeDevice
	default:
		return ModeBuilding
	}
}

// DefaultNameTemplate is the group address name template used when a
// project does not define one.
const DefaultNameTemplate = "{area.abbr} {room.name} {device.desc} {instance.index} - {function.name}"

// BuildingModel is the complete project handed to the address generator.
type BuildingModel struct {
	Name         string          `json:"name" yaml:"name"`
	Areas        []Area          `json:"areas" yaml:"areas" validate:"dive"`
	DeviceConfig DeviceConfigMap `json:"deviceConfig" yaml:"device_config" validate:"dive"`
	ViewOptions  ViewOptions     `json:"viewOptions" yaml:"view_options"`
}

// ViewOptions holds the presentation settings that influence generation.
type ViewOptions struct {
	StructureMode StructureMode `json:"gaStructureMode" yaml:"structure_mode"`
	NameTemplate  string        `json:"gaNameTemplate" yaml:"name_template"`
}

// Area is a physical building zone addressed by a main group.
// Rooms keep the order in which the user arranged them.
type Area struct {
	ID           string `json:"id" yaml:"id" validate:"required"`
	Name         string `json:"name" yaml:"name" validate:"required"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
	MainGroup    int    `json:"mainGroup" yaml:"main_group" validate:"min=0,max=31"`
	Rooms        []Room `json:"rooms" yaml:"rooms" validate:"dive"`
}

// Room is a room inside an area.
type Room struct {
	ID        string             `json:"id" yaml:"id" validate:"required"`
	Name      string             `json:"name" yaml:"name" validate:"required"`
	Instances []FunctionInstance `json:"functionInstances" yaml:"function_instances" validate:"dive"`
}

// FunctionInstance is one installed function (e.g. one dimmable light).
//
// Snapshot is held by value: it is a private deep copy of the device type
// configuration as it was when the instance was created.
type FunctionInstance struct {
	ID         string           `json:"id" yaml:"id" validate:"required"`
	Type       string           `json:"type" yaml:"type" validate:"required"`
	Snapshot   DeviceTypeConfig `json:"configSnapshot" yaml:"config_snapshot"`
	CustomData *CustomData      `json:"customData,omitempty" yaml:"custom_data,omitempty"`
}

// CustomData holds per-instance overrides.
type CustomData struct {
	SceneName string `json:"sceneName,omitempty" yaml:"scene_name,omitempty"`
}

// SceneName returns the custom scene name, or "" if none was set.
func (fi *FunctionInstance) SceneName() string {
	if fi.CustomData == nil {
		return ""
	}
	return fi.CustomData.SceneName
}

// DeviceConfigMap maps a function type key (e.g. "light") to its config.
type DeviceConfigMap map[string]DeviceTypeConfig

// DeviceTypeConfig describes the addressing shape of a function type.
type DeviceTypeConfig struct {
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	MiddleGroup int    `json:"middleGroup" yaml:"middle_group" validate:"min=0,max=7"`

	// FeedbackMiddleGroup is the middle group for feedback addresses.
	// nil, 0 or equal to MiddleGroup means feedback is emitted inline.
	FeedbackMiddleGroup *int `json:"feedbackMiddleGroup,omitempty" yaml:"feedback_middle_group,omitempty" validate:"omitempty,min=0,max=7"`

	Functions []SubFunction `json:"functions" yaml:"functions" validate:"dive"`
	IsScene   bool          `json:"isScene,omitempty" yaml:"is_scene,omitempty"`
}

// SeparateFeedbackGroup reports the feedback middle group and whether it
// differs from the action middle group. A feedback group of 0 counts as
// unset, so middle group 0 can never be a separate feedback group.
func (c *DeviceTypeConfig) SeparateFeedbackGroup() (int, bool) {
	if c.FeedbackMiddleGroup == nil || *c.FeedbackMiddleGroup == 0 || *c.FeedbackMiddleGroup == c.MiddleGroup {
		return c.MiddleGroup, false
	}
	return *c.FeedbackMiddleGroup, true
}

// DeepCopy returns an independent copy of the config. The Functions slice
// and the FeedbackMiddleGroup pointer are cloned.
func (c DeviceTypeConfig) DeepCopy() DeviceTypeConfig {
	cpy := c

	if c.FeedbackMiddleGroup != nil {
		fb := *c.FeedbackMiddleGroup
		cpy.FeedbackMiddleGroup = &fb
	}

	if c.Functions != nil {
		cpy.Functions = make([]SubFunction, len(c.Functions))
		copy(cpy.Functions, c.Functions)
	}

	return cpy
}

// SubFunction is one leaf capability of a device type (e.g. "Switch").
type SubFunction struct {
	Name string `json:"name" yaml:"name" validate:"required"`

	// DPT is the datapoint type, e.g. "1.001". Opaque to the generator.
	DPT string `json:"dpt" yaml:"dpt"`

	// Offset is kept for compatibility with older project files.
	Offset int `json:"offset" yaml:"offset"`

	// IsFeedback marks an action that also gets a companion feedback address.
	IsFeedback bool `json:"isFeedback,omitempty" yaml:"is_feedback,omitempty"`

	Enabled bool `json:"enabled" yaml:"enabled"`
}

// IntPtr returns a pointer to v. Handy for FeedbackMiddleGroup literals.
func IntPtr(v int) *int {
	return &v
}
