// Package labels defines the fixed vocabulary of system labels that encode
// task status and priority on the remote store, and the mapping between that
// vocabulary and the domain enums.
package labels

import (
	"github.com/howmon/taskplanner/internal/models"
)

// Definition describes one system label as provisioned on the remote store.
// Color is a hex value without the leading '#'.
type Definition struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

const (
	StatusPrefix   = "status:"
	PriorityPrefix = "priority:"
)

// statusDefs and priorityDefs are ordered by enum declaration order; the
// first matching label wins when a record carries several.
var statusDefs = []struct {
	status models.Status
	def    Definition
}{
	{models.StatusTodo, Definition{"status:todo", "ededed", "Task status: not started"}},
	{models.StatusInProgress, Definition{"status:in-progress", "1d76db", "Task status: being worked on"}},
	{models.StatusDone, Definition{"status:done", "0e8a16", "Task status: complete"}},
	{models.StatusBlocked, Definition{"status:blocked", "d93f0b", "Task status: waiting on something"}},
}

var priorityDefs = []struct {
	priority models.Priority
	def      Definition
}{
	{models.PriorityUrgent, Definition{"priority:urgent", "b60205", "Task priority: drop everything"}},
	{models.PriorityHigh, Definition{"priority:high", "d93f0b", "Task priority: high"}},
	{models.PriorityMedium, Definition{"priority:medium", "fbca04", "Task priority: medium"}},
	{models.PriorityLow, Definition{"priority:low", "c2e0c6", "Task priority: low"}},
}

var systemNames = buildSystemNames()

func buildSystemNames() map[string]struct{} {
	names := make(map[string]struct{}, len(statusDefs)+len(priorityDefs))
	for _, entry := range statusDefs {
		names[entry.def.Name] = struct{}{}
	}
	for _, entry := range priorityDefs {
		names[entry.def.Name] = struct{}{}
	}
	return names
}

// All returns the 8 fixed definitions, statuses first, in declaration order.
func All() []Definition {
	out := make([]Definition, 0, len(statusDefs)+len(priorityDefs))
	for _, entry := range statusDefs {
		out = append(out, entry.def)
	}
	for _, entry := range priorityDefs {
		out = append(out, entry.def)
	}
	return out
}

// ForStatus returns the system label name for a status.
func ForStatus(status models.Status) string {
	for _, entry := range statusDefs {
		if entry.status == status {
			return entry.def.Name
		}
	}
	return statusDefs[0].def.Name
}

// ForPriority returns the system label name for a priority.
func ForPriority(priority models.Priority) string {
	for _, entry := range priorityDefs {
		if entry.priority == priority {
			return entry.def.Name
		}
	}
	return priorityDefs[2].def.Name
}

// StatusFor resolves a label set to a status. The first status label in enum
// declaration order wins; a set with none maps to the default. Multiple
// status labels are not an error: the remote store does not enforce
// exclusivity, so ambiguity is resolved silently.
func StatusFor(names []string) models.Status {
	set := toSet(names)
	for _, entry := range statusDefs {
		if _, ok := set[entry.def.Name]; ok {
			return entry.status
		}
	}
	return models.DefaultStatus
}

// PriorityFor resolves a label set to a priority, first match in declaration
// order, defaulting to medium.
func PriorityFor(names []string) models.Priority {
	set := toSet(names)
	for _, entry := range priorityDefs {
		if _, ok := set[entry.def.Name]; ok {
			return entry.priority
		}
	}
	return models.DefaultPriority
}

// UserTags returns every label name that is not a system label, preserving
// input order.
func UserTags(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if IsSystem(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// IsSystem reports whether a label name is one of the 8 fixed names.
func IsSystem(name string) bool {
	_, ok := systemNames[name]
	return ok
}

// HasSystem reports whether any label in the set is a system label. This is
// the sole discriminator separating managed records from the tracker's other
// issues.
func HasSystem(names []string) bool {
	for _, name := range names {
		if IsSystem(name) {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
