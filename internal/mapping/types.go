// Package mapping implements the source-column -> target-variable
// assignment model: suggestion scoring, the assignment state machine, and
// JSON persistence.
package mapping

import (
	"fmt"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

// Status is the assignment state of one target variable.
type Status string

const (
	StatusSuggested    Status = "Suggested"
	StatusAccepted     Status = "Accepted"
	StatusManual       Status = "Manual"
	StatusNotCollected Status = "NotCollected"
	StatusOmitted      Status = "Omitted"
	StatusUnmapped     Status = "Unmapped"
)

// Assignment is the mapping state of a single target variable.
type Assignment struct {
	Status       Status  `json:"status"`
	SourceColumn string  `json:"source_column,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	Reason       string  `json:"reason,omitempty"` // set when Status == NotCollected
}

// Config is the mapping state for every variable in one domain: target
// variable name -> Assignment.
type Config struct {
	Assignments map[string]Assignment
}

// NewConfig returns an empty mapping config.
func NewConfig() *Config {
	return &Config{Assignments: make(map[string]Assignment)}
}

// UnmappedSourceColumns returns source columns not claimed by any
// non-Unmapped assignment.
func (c *Config) UnmappedSourceColumns(allColumns []string) []string {
	claimed := make(map[string]bool)
	for _, a := range c.Assignments {
		if a.Status != StatusUnmapped && a.SourceColumn != "" {
			claimed[a.SourceColumn] = true
		}
	}
	var out []string
	for _, col := range allColumns {
		if !claimed[col] {
			out = append(out, col)
		}
	}
	return out
}

// errTransitionRejected is returned by transitions the state machine forbids
// for a variable's Core designation.
type errTransitionRejected struct {
	variable string
	status   Status
	core     standards.Core
}

func (e *errTransitionRejected) Error() string {
	return fmt.Sprintf("mapping: cannot set %s to %q for a %s-core variable", e.variable, e.status, e.core)
}

// Accept transitions Suggested -> Accepted, keeping the same column and
// confidence. It is a no-op error if the variable has no Suggested assignment.
func (c *Config) Accept(variable string) error {
	a, ok := c.Assignments[variable]
	if !ok || a.Status != StatusSuggested {
		return fmt.Errorf("mapping: %s has no Suggested assignment to accept", variable)
	}
	a.Status = StatusAccepted
	c.Assignments[variable] = a
	return nil
}

// SetManual transitions * -> Manual(column, 1.0), unconditionally.
func (c *Config) SetManual(variable, sourceColumn string) {
	c.Assignments[variable] = Assignment{Status: StatusManual, SourceColumn: sourceColumn, Confidence: 1.0}
}

// Clear transitions * -> Unmapped, returning the source column to the
// unused pool (implicit: Unmapped assignments are excluded from claimed
// columns in UnmappedSourceColumns).
func (c *Config) Clear(variable string) {
	c.Assignments[variable] = Assignment{Status: StatusUnmapped}
}

// MarkNotCollected transitions * -> NotCollected(reason). Rejected for
// Required/Permissible variables.
func (c *Config) MarkNotCollected(v standards.Variable, reason string) error {
	if v.Core == standards.CoreRequired || v.Core == standards.CorePermissible {
		return &errTransitionRejected{variable: v.Name, status: StatusNotCollected, core: v.Core}
	}
	c.Assignments[v.Name] = Assignment{Status: StatusNotCollected, Reason: reason}
	return nil
}

// MarkOmitted transitions * -> Omitted. Rejected for Required/Expected
// variables.
func (c *Config) MarkOmitted(v standards.Variable) error {
	if v.Core == standards.CoreRequired || v.Core == standards.CoreExpected {
		return &errTransitionRejected{variable: v.Name, status: StatusOmitted, core: v.Core}
	}
	c.Assignments[v.Name] = Assignment{Status: StatusOmitted}
	return nil
}

// Suggest records a Suggested assignment, overwriting any prior assignment
// for the variable (transitions are total).
func (c *Config) Suggest(variable, sourceColumn string, confidence float64) {
	c.Assignments[variable] = Assignment{Status: StatusSuggested, SourceColumn: sourceColumn, Confidence: confidence}
}

// StoredMappingConfig is the on-disk envelope persisted by Repository.
type StoredMappingConfig struct {
	Config      map[string]Assignment `json:"config"`
	SavedAt     string                `json:"saved_at"`
	Description string                `json:"description,omitempty"`
	Version     string                `json:"version"`
}
