package project

// Built-in function type keys.
const (
	TypeLight   = "light"
	TypeBlinds  = "blinds"
	TypeHeating = "heating"
	TypeScene   = "scene"
)

// DefaultDeviceConfig returns the built-in device types.
// Every call returns a fresh map, so callers may modify the result.
func DefaultDeviceConfig() DeviceConfigMap {
	return DeviceConfigMap{
		TypeLight: {
			Label:               "L/LD",
			Description:         "Light",
			MiddleGroup:         0,
			FeedbackMiddleGroup: IntPtr(6),
			Functions: []SubFunction{
				{Name: "Switch", DPT: "1.001", Offset: 0, Enabled: true},
				{Name: "Dim Relative", DPT: "3.007", Offset: 1, Enabled: true},
				{Name: "Value", DPT: "5.001", Offset: 2, Enabled: true},
			},
		},
		TypeBlinds: {
			Label:               "J",
			Description:         "Blinds",
			MiddleGroup:         1,
			FeedbackMiddleGroup: IntPtr(7),
			Functions: []SubFunction{
				{Name: "Up/Down", DPT: "1.008", Offset: 0, Enabled: true},
				{Name: "Stop", DPT: "1.007", Offset: 1, Enabled: true},
				{Name: "Position Height", DPT: "5.001", Offset: 2, Enabled: true},
				{Name: "Position Slat", DPT: "5.001", Offset: 3, Enabled: true},
			},
		},
		TypeHeating: {
			Label:       "H",
			Description: "Heating/Climate",
			MiddleGroup: 2,
			// Climate feedback usually lives next to the actions.
			FeedbackMiddleGroup: IntPtr(2),
			Functions: []SubFunction{
				{Name: "Actuating Value", DPT: "5.001", Offset: 0, Enabled: true},
				{Name: "Actual Temperature", DPT: "9.001", Offset: 1, Enabled: true},
				{Name: "Base Setpoint", DPT: "9.001", Offset: 2, Enabled: true},
				{Name: "Current Setpoint RM", DPT: "9.001", Offset: 3, IsFeedback: true, Enabled: true},
				{Name: "Operating Mode Switch", DPT: "20.102", Offset: 4, Enabled: true},
				{Name: "Operating Mode Status RM", DPT: "20.102", Offset: 5, IsFeedback: true, Enabled: true},
			},
		},
		TypeScene: {
			Label:               "S",
			Description:         "Scene",
			MiddleGroup:         3,
			FeedbackMiddleGroup: IntPtr(3),
			IsScene:             true,
			Functions: []SubFunction{
				{Name: "Recall", DPT: "18.001", Offset: 0, Enabled: true},
			},
		},
	}
}

// DefaultViewOptions returns the view options of a new project.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		StructureMode: ModeBuilding,
		NameTemplate:  DefaultNameTemplate,
	}
}

// New returns an empty project with the built-in device config.
func New(name string) *BuildingModel {
	return &BuildingModel{
		Name:         name,
		Areas:        []Area{},
		DeviceConfig: DefaultDeviceConfig(),
		ViewOptions:  DefaultViewOptions(),
	}
}
