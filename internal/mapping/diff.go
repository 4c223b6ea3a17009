package mapping

import "sort"

// ChangeKind classifies how a single variable's assignment moved between
// two mapping configs.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "updated"
)

// AssignmentChange describes one variable whose Assignment differs between
// a before and after Config. Before/After are zero-valued when the
// variable had no assignment on that side.
type AssignmentChange struct {
	Variable string     `json:"variable"`
	Kind     ChangeKind `json:"kind"`
	Before   Assignment `json:"before"`
	After    Assignment `json:"after"`
}

// ConfigDiff is the set of per-variable assignment changes between two
// mapping configs, sorted by variable name for a stable review order.
type ConfigDiff struct {
	Changes []AssignmentChange `json:"changes"`
}

// Added reports how many variables gained an assignment.
func (d *ConfigDiff) Added() int {
	n := 0
	for _, c := range d.Changes {
		if c.Kind == ChangeAdded {
			n++
		}
	}
	return n
}

// Removed reports how many variables lost their assignment.
func (d *ConfigDiff) Removed() int {
	n := 0
	for _, c := range d.Changes {
		if c.Kind == ChangeRemoved {
			n++
		}
	}
	return n
}

// DiffConfigs compares every variable's Assignment between before and
// after. A reviewer needs to see which column, status, or confidence
// changed for a variable, not a line-oriented text diff of an encoded form.
func DiffConfigs(before, after *Config) *ConfigDiff {
	beforeAssignments := map[string]Assignment{}
	if before != nil {
		beforeAssignments = before.Assignments
	}
	afterAssignments := map[string]Assignment{}
	if after != nil {
		afterAssignments = after.Assignments
	}

	variables := make(map[string]bool, len(beforeAssignments)+len(afterAssignments))
	for v := range beforeAssignments {
		variables[v] = true
	}
	for v := range afterAssignments {
		variables[v] = true
	}
	names := make([]string, 0, len(variables))
	for v := range variables {
		names = append(names, v)
	}
	sort.Strings(names)

	d := &ConfigDiff{}
	for _, name := range names {
		b, hadBefore := beforeAssignments[name]
		a, hasAfter := afterAssignments[name]

		switch {
		case !hadBefore && hasAfter:
			d.Changes = append(d.Changes, AssignmentChange{Variable: name, Kind: ChangeAdded, After: a})
		case hadBefore && !hasAfter:
			d.Changes = append(d.Changes, AssignmentChange{Variable: name, Kind: ChangeRemoved, Before: b})
		case b != a:
			d.Changes = append(d.Changes, AssignmentChange{Variable: name, Kind: ChangeUpdated, Before: b, After: a})
		}
	}
	return d
}
