// Package schema describes the workbook column layouts and the migration
// path between them. Two layouts exist historically: a two-column layout
// (date, description) and the current three-column layout (date, request
// number, description).
package schema

import "strings"

// Canonical column titles.
const (
	ColApprovalDate  = "Approval Date"
	ColRequestNumber = "Request Number"
	ColDescription   = "Description of Work"
)

// Schema is a tagged descriptor for one workbook layout version.
type Schema struct {
	Version  int
	Sheets   []string
	Columns  []string
	Previous *Schema // layout this version migrates from, nil for the oldest
}

// V1 is the legacy two-column layout. Migration is keyed on its header
// row alone; sheets are always addressed by their current names.
var V1 = Schema{
	Version: 1,
	Columns: []string{ColApprovalDate, ColDescription},
}

// V2 is the current three-column layout.
var V2 = Schema{
	Version:  2,
	Sheets:   []string{"CR", "WP"},
	Columns:  []string{ColApprovalDate, ColRequestNumber, ColDescription},
	Previous: &V1,
}

// Current returns the schema new workbooks are created with.
func Current() Schema {
	return V2
}

// HeaderMatches reports whether the given header row carries this
// schema's column titles, ignoring surrounding whitespace.
func (s Schema) HeaderMatches(header []string) bool {
	for i, want := range s.Columns {
		if i >= len(header) || strings.TrimSpace(header[i]) != want {
			return false
		}
	}
	return true
}

// HeaderBlank reports whether every header cell for this schema's
// columns is empty.
func (s Schema) HeaderBlank(header []string) bool {
	for i := range s.Columns {
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			return false
		}
	}
	return true
}

// MigrationOutcome classifies the result of a layout migration check.
type MigrationOutcome int

const (
	// NotApplicable means the sheet did not carry the prior layout.
	NotApplicable MigrationOutcome = iota
	// Migrated means data was moved into the current layout.
	Migrated
	// Skipped means the prior layout was detected but migrating would
	// have overwritten existing data, so only headers were corrected.
	Skipped
)

// MigrationResult reports what a migration check did to a sheet.
type MigrationResult struct {
	Outcome MigrationOutcome
	Reason  string // populated when Outcome == Skipped
}

func (o MigrationOutcome) String() string {
	switch o {
	case Migrated:
		return "migrated"
	case Skipped:
		return "skipped"
	default:
		return "not applicable"
	}
}
