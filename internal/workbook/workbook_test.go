package workbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/lockfile"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/record"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/schema"
	"github.com/xuri/excelize/v2"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "network_changes.xlsx"))
	s.LockTimeout = 500 * time.Millisecond
	s.LockInterval = 10 * time.Millisecond
	return s
}

func mustEnsure(t *testing.T, s *Store) {
	t.Helper()
	f, err := s.Ensure()
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	f.Close()
}

func readBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestEnsureCreatesWorkbook(t *testing.T) {
	s := testStore(t)
	mustEnsure(t, s)

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		t.Fatalf("workbook not readable: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheet list = %v, want CR and WP only", sheets)
	}
	for _, name := range []string{"CR", "WP"} {
		idx, _ := f.GetSheetIndex(name)
		if idx < 0 {
			t.Fatalf("sheet %q missing", name)
		}
		for i, want := range schema.Current().Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			got, err := f.GetCellValue(name, cell)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("%s!%s = %q, want %q", name, cell, got, want)
			}
		}
	}
}

func TestEnsureIdempotent(t *testing.T) {
	s := testStore(t)
	mustEnsure(t, s)
	before := readBytes(t, s.Path)

	mustEnsure(t, s)
	after := readBytes(t, s.Path)

	if string(before) != string(after) {
		t.Error("second Ensure modified an already-correct workbook")
	}
}

func TestEnsureBackfillNeverTouchesData(t *testing.T) {
	s := testStore(t)
	mustEnsure(t, s)
	if err := s.Append("CR", time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), "NC1", "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("CR", time.Date(2024, 3, 6, 0, 0, 0, 0, time.Local), "NC2", "second"); err != nil {
		t.Fatal(err)
	}
	before := readBytes(t, s.Path)

	mustEnsure(t, s)
	if string(before) != string(readBytes(t, s.Path)) {
		t.Error("Ensure rewrote a workbook with correct headers and data")
	}
}

func TestEnsureBackfillsBlankHeaderCells(t *testing.T) {
	s := testStore(t)

	f := excelize.NewFile()
	if _, err := f.NewSheet("CR"); err != nil {
		t.Fatal(err)
	}
	// A1 present, B1 blank, C1 present; one data row.
	f.SetCellValue("CR", "A1", schema.ColApprovalDate)
	f.SetCellValue("CR", "C1", schema.ColDescription)
	f.SetCellValue("CR", "A2", "2024-01-15")
	f.SetCellValue("CR", "B2", "NC123")
	f.SetCellValue("CR", "C2", "swap line card")
	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(s.Path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	mustEnsure(t, s)

	g, err := excelize.OpenFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	b1, _ := g.GetCellValue("CR", "B1")
	if b1 != schema.ColRequestNumber {
		t.Errorf("B1 = %q, want backfilled %q", b1, schema.ColRequestNumber)
	}
	for cell, want := range map[string]string{"A2": "2024-01-15", "B2": "NC123", "C2": "swap line card"} {
		got, _ := g.GetCellValue("CR", cell)
		if got != want {
			t.Errorf("%s = %q, want %q (data must not move)", cell, got, want)
		}
	}
}

func legacyWorkbook(t *testing.T, path string, extraC string) {
	t.Helper()
	f := excelize.NewFile()
	if _, err := f.NewSheet("CR"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("CR", "A1", schema.ColApprovalDate)
	f.SetCellValue("CR", "B1", schema.ColDescription)
	f.SetCellValue("CR", "A2", "2023-11-01")
	f.SetCellValue("CR", "B2", "rerouted fiber")
	f.SetCellValue("CR", "A3", "2023-11-02")
	f.SetCellValue("CR", "B3", "patched firmware")
	if extraC != "" {
		f.SetCellValue("CR", "C3", extraC)
	}
	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestMigrationMovesDescriptionColumn(t *testing.T) {
	s := testStore(t)
	legacyWorkbook(t, s.Path, "")

	mustEnsure(t, s)

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	want := map[string]string{
		"A1": schema.ColApprovalDate,
		"B1": schema.ColRequestNumber,
		"C1": schema.ColDescription,
		"A2": "2023-11-01",
		"B2": "",
		"C2": "rerouted fiber",
		"A3": "2023-11-02",
		"B3": "",
		"C3": "patched firmware",
	}
	for cell, w := range want {
		got, _ := f.GetCellValue("CR", cell)
		if got != w {
			t.Errorf("%s = %q, want %q", cell, got, w)
		}
	}
}

func TestMigrationSkippedWhenTargetColumnHasData(t *testing.T) {
	s := testStore(t)
	legacyWorkbook(t, s.Path, "unexpected")

	mustEnsure(t, s)

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// Headers corrected, every data cell untouched.
	want := map[string]string{
		"A1": schema.ColApprovalDate,
		"B1": schema.ColRequestNumber,
		"C1": schema.ColDescription,
		"B2": "rerouted fiber",
		"C2": "",
		"B3": "patched firmware",
		"C3": "unexpected",
	}
	for cell, w := range want {
		got, _ := f.GetCellValue("CR", cell)
		if got != w {
			t.Errorf("%s = %q, want %q", cell, got, w)
		}
	}
}

func TestAppendRoundTrip(t *testing.T) {
	s := testStore(t)
	desc := record.NormalizeDescription("  line one \n line two  \n\n")
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)

	if err := s.Append("CR", d, "CR/ENP/1234", desc); err != nil {
		t.Fatalf("Append: %v", err)
	}

	recs, err := s.ReadRows("CR")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	got := recs[0]
	if got.ApprovalDate != "2024-03-05" {
		t.Errorf("ApprovalDate = %q, want 2024-03-05", got.ApprovalDate)
	}
	if got.RequestNumber != "CR/ENP/1234" {
		t.Errorf("RequestNumber = %q, want CR/ENP/1234", got.RequestNumber)
	}
	if got.Description != "line one, line two" {
		t.Errorf("Description = %q, want %q", got.Description, "line one, line two")
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := testStore(t)
	for i, desc := range []string{"first", "second", "third"} {
		d := time.Date(2024, 1, i+1, 0, 0, 0, 0, time.Local)
		if err := s.Append("WP", d, "", desc); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := s.ReadRows("WP")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if recs[i].Description != want {
			t.Errorf("record %d = %q, want %q (oldest first)", i, recs[i].Description, want)
		}
	}
}

func TestReadRowsSkipsBlankRows(t *testing.T) {
	s := testStore(t)
	if err := s.Append("CR", time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), "NC1", "real entry"); err != nil {
		t.Fatal(err)
	}

	// Inject a row of empty strings between data rows.
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("CR", "A3", "")
	f.SetCellValue("CR", "B3", "")
	f.SetCellValue("CR", "C3", "")
	f.SetCellValue("CR", "A4", "2024-02-02")
	f.SetCellValue("CR", "B4", "NC2")
	f.SetCellValue("CR", "C4", "later entry")
	if err := f.SaveAs(s.Path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	recs, err := s.ReadRows("CR")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (blank row skipped)", len(recs))
	}
	if recs[1].Description != "later entry" {
		t.Errorf("second record = %q, want %q", recs[1].Description, "later entry")
	}
}

func TestReadRowsMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.xlsx"))
	recs, err := s.ReadRows("CR")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records, want 0", len(recs))
	}
}

func TestReadRowsMissingSheet(t *testing.T) {
	s := testStore(t)
	mustEnsure(t, s)
	recs, err := s.ReadRows("Nonexistent")
	if err != nil {
		t.Fatalf("missing sheet should not error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records, want 0", len(recs))
	}
}

func TestAppendRejectedWhenExcelLockPresent(t *testing.T) {
	s := testStore(t)
	mustEnsure(t, s)
	before := readBytes(t, s.Path)

	if err := os.WriteFile(lockfile.ExcelLockPath(s.Path), []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}

	err := s.Append("CR", time.Now(), "NC9", "should not land")
	if !errors.Is(err, lockfile.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if string(before) != string(readBytes(t, s.Path)) {
		t.Error("workbook modified despite rejected save")
	}
}

func TestAppendRejectedWhenAdvisoryLockHeld(t *testing.T) {
	s := testStore(t)
	mustEnsure(t, s)
	before := readBytes(t, s.Path)

	if err := os.WriteFile(s.Path+".lock", []byte("pid=1"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := s.Append("CR", time.Now(), "NC9", "should not land")
	if !errors.Is(err, lockfile.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if string(before) != string(readBytes(t, s.Path)) {
		t.Error("workbook modified despite lock timeout")
	}
}

func TestAppendValidatesBeforeIO(t *testing.T) {
	s := testStore(t)
	err := s.Append("CR", time.Now(), "NC1", "   ")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(s.Path); !os.IsNotExist(statErr) {
		t.Error("validation failure should not create the workbook")
	}
}

func TestCounts(t *testing.T) {
	s := testStore(t)
	if err := s.Append("CR", time.Now(), "NC1", "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("CR", time.Now(), "NC2", "two"); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("WP", time.Now(), "", "three"); err != nil {
		t.Fatal(err)
	}
	counts, err := s.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if counts["CR"] != 2 || counts["WP"] != 1 {
		t.Errorf("counts = %v, want CR:2 WP:1", counts)
	}
}

func TestDateDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"2024-03-05", "2024-03-05"},
		{"05/03/2024", "2024-03-05"},
		{"45356", "2024-03-05"}, // Excel serial for 2024-03-05
		{"pending", "pending"},
	}
	for _, tt := range tests {
		if got := dateDisplay(tt.input); got != tt.want {
			t.Errorf("dateDisplay(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
