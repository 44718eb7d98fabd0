package generator

import (
	"strings"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
)

// feedbackSuffix marks a companion feedback leaf.
const feedbackSuffix = " RM"

// isPureFeedback reports whether a sub-function is itself a feedback leaf.
// The match is a plain substring test on the name: "RM" case-sensitive,
// "status" case-insensitive. A name such as "ARMED" therefore counts as
// feedback.
func isPureFeedback(name string) bool {
	return strings.Contains(name, "RM") || strings.Contains(strings.ToLower(name), "status")
}

// pass selects which leaves of a sub-function are emitted.
type pass int

const (
	// actionPass emits action leaves. With inline feedback it also emits
	// companion leaves next to them. Pure feedback is never emitted here.
	actionPass pass = iota

	// feedbackPass emits only feedback leaves for a separate feedback group.
	feedbackPass

	// inlinePass emits action, companion and pure feedback leaves in one
	// group regardless of the configured feedback group.
	inlinePass
)

// leaf is one address a sub-function contributes.
type leaf struct {
	name string

	// action is true for the action leaf itself, false for feedback.
	action bool
}

// leavesFor returns the leaves fn contributes in pass p. inline reports
// whether companion feedback belongs in the action group during actionPass.
// Disabled sub-functions contribute nothing.
func leavesFor(fn project.SubFunction, p pass, inline bool) []leaf {
	if !fn.Enabled {
		return nil
	}

	pure := isPureFeedback(fn.Name)

	if p == feedbackPass {
		switch {
		case pure:
			return []leaf{{name: fn.Name}}
		case fn.IsFeedback:
			return []leaf{{name: fn.Name + feedbackSuffix}}
		default:
			return nil
		}
	}

	if pure {
		if p == inlinePass {
			return []leaf{{name: fn.Name}}
		}
		return nil
	}

	leaves := []leaf{{name: fn.Name, action: true}}
	if fn.IsFeedback && (inline || p == inlinePass) {
		leaves = append(leaves, leaf{name: fn.Name + feedbackSuffix})
	}
	return leaves
}

// hasFeedbackLeaves reports whether cfg earns a bucket in its separate
// feedback group. Only enabled companion or "RM" sub-functions count; a
// type whose sole feedback is a "status" name gets no bucket.
func hasFeedbackLeaves(cfg *project.DeviceTypeConfig) bool {
	for _, fn := range cfg.Functions {
		if fn.Enabled && (fn.IsFeedback || strings.Contains(fn.Name, "RM")) {
			return true
		}
	}
	return false
}

// actionName returns the name a leaf is rendered with. Scene instances use
// their custom scene name in place of the action name.
func actionName(inst *project.FunctionInstance, l leaf) string {
	if l.action && inst.Snapshot.IsScene {
		if scene := inst.SceneName(); scene != "" {
			return scene
		}
	}
	return l.name
}
