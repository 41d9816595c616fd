package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/record"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/schema"
)

// FormatRecordList renders records as an aligned table, oldest first.
func FormatRecordList(w io.Writer, sheet string, records []record.Record) {
	title := color.New(color.Bold, color.Underline)
	title.Fprintf(w, "%s", sheet)
	faint := color.New(color.Faint)
	switch len(records) {
	case 1:
		faint.Fprintln(w, " - 1 record")
	default:
		faint.Fprintf(w, " - %d records\n", len(records))
	}

	if len(records) == 0 {
		color.New(color.Faint, color.Italic).Fprintln(w, " none")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(schema.ColApprovalDate, schema.ColRequestNumber, schema.ColDescription)
	for _, r := range records {
		tbl.AddRow(r.ApprovalDate, r.RequestNumber, r.Description)
	}
	fmt.Fprintln(w, tbl)
}

// FormatRecordAdded formats a confirmation message for one appended record.
func FormatRecordAdded(w io.Writer, sheet string, r record.Record) {
	fmt.Fprintf(w, "Added to %s: %s  %s  %s\n", sheet, r.ApprovalDate, r.RequestNumber, r.Preview(60))
}

// FormatJSON writes any value as indented JSON.
func FormatJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatInfo renders resolved paths and per-sheet record counts.
func FormatInfo(w io.Writer, path string, sheets []string, counts map[string]int) {
	fmt.Fprintf(w, "Workbook: %s\n", path)
	for _, sheet := range sheets {
		fmt.Fprintf(w, "  %-6s %d records\n", sheet, counts[sheet])
	}
}
