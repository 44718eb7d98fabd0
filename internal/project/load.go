package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported project file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath derives the project file format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a project file from disk. The format follows the extension
// (.json, .yaml, .yml).
//
// Parameters:
//   - path: Path to the project file
//
// Returns:
//   - *BuildingModel: Decoded project with defaults and migrations applied
//   - error: If the file cannot be read or decoded
func Load(path string) (*BuildingModel, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes a project from data in the given format. Missing settings
// fall back to their defaults and files written by older versions are
// migrated in place.
func Parse(data []byte, format string) (*BuildingModel, error) {
	model := &BuildingModel{}

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, model); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, model); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	applyDefaults(model)
	migrate(model)

	return model, nil
}

// applyDefaults fills settings an older or hand-written file may omit.
func applyDefaults(m *BuildingModel) {
	if m.DeviceConfig == nil {
		m.DeviceConfig = DefaultDeviceConfig()
	}
	if m.Areas == nil {
		m.Areas = []Area{}
	}
	m.ViewOptions.StructureMode = ParseStructureMode(string(m.ViewOptions.StructureMode))
	if strings.TrimSpace(m.ViewOptions.NameTemplate) == "" {
		m.ViewOptions.NameTemplate = DefaultNameTemplate
	}
}

// migrate upgrades instances written by older versions:
//   - the legacy light types "lightSwitch" and "lightDim" become "light"
//   - scene snapshots get IsScene set
//   - instances without a snapshot receive one from the device config
func migrate(m *BuildingModel) {
	for a := range m.Areas {
		for r := range m.Areas[a].Rooms {
			room := &m.Areas[a].Rooms[r]
			for i := range room.Instances {
				migrateInstance(&room.Instances[i], m.DeviceConfig)
			}
		}
	}

	if cfg, ok := m.DeviceConfig[TypeScene]; ok && !cfg.IsScene {
		cfg.IsScene = true
		m.DeviceConfig[TypeScene] = cfg
	}
}

func migrateInstance(inst *FunctionInstance, cfg DeviceConfigMap) {
	legacySwitch := inst.Type == templateLightSwitch
	inst.Type = canonicalType(inst.Type)

	if len(inst.Snapshot.Functions) == 0 && inst.Snapshot.Label == "" {
		if typeCfg, ok := cfg[inst.Type]; ok {
			inst.Snapshot = typeCfg.DeepCopy()
			if legacySwitch {
				disableDimming(&inst.Snapshot)
			}
		}
	}

	if inst.Type == TypeScene {
		inst.Snapshot.IsScene = true
	}
}

// Marshal encodes a project in the given format.
func Marshal(m *BuildingModel, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(m, "", "  ")
	case FormatYAML:
		return yaml.Marshal(m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
