// Package workbook owns the tracker's spreadsheet file: schema
// enforcement, layout migration, and append/read of records. All writes
// go through the advisory lock and atomic replace in internal/lockfile.
package workbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/lockfile"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/record"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/schema"
	"github.com/xuri/excelize/v2"
)

// Sentinel errors for workbook operations.
var (
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
)

// dateNumFmt is the display format applied to approval date cells.
const dateNumFmt = "yyyy-mm-dd"

// Store persists records to one workbook file.
type Store struct {
	Path         string
	Schema       schema.Schema
	LockTimeout  time.Duration
	LockInterval time.Duration
}

// New creates a store for the workbook at path using the current schema.
func New(path string) *Store {
	return &Store{
		Path:         path,
		Schema:       schema.Current(),
		LockTimeout:  lockfile.DefaultTimeout,
		LockInterval: lockfile.DefaultInterval,
	}
}

// Ensure opens the workbook, creating it if absent, and guarantees every
// schema sheet exists with the canonical header row. Blank headers are
// backfilled and a legacy layout is migrated; the file is persisted only
// when something changed. The returned handle is ready for immediate
// reuse and must be closed by the caller.
func (s *Store) Ensure() (*excelize.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", ErrStorage, err)
	}

	var f *excelize.File
	created := false
	dirty := false
	if _, err := os.Stat(s.Path); err == nil {
		f, err = excelize.OpenFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: opening workbook: %v", ErrStorage, err)
		}
	} else {
		f = excelize.NewFile()
		created = true
		dirty = true
	}

	for _, sheet := range s.Schema.Sheets {
		changed, err := s.ensureSheet(f, sheet)
		if err != nil {
			f.Close()
			return nil, err
		}
		if changed {
			dirty = true
		}
	}

	// A brand-new excelize file starts with a default sheet; drop it once
	// the schema sheets exist.
	if created && !s.schemaSheet("Sheet1") {
		if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				f.Close()
				return nil, fmt.Errorf("%w: removing default sheet: %v", ErrStorage, err)
			}
		}
	}

	if dirty {
		if err := s.save(f); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (s *Store) schemaSheet(name string) bool {
	for _, sheet := range s.Schema.Sheets {
		if sheet == name {
			return true
		}
	}
	return false
}

// ensureSheet creates or repairs a single sheet, returning whether the
// workbook was modified.
func (s *Store) ensureSheet(f *excelize.File, sheet string) (bool, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return false, fmt.Errorf("%w: looking up sheet %q: %v", ErrStorage, sheet, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return false, fmt.Errorf("%w: creating sheet %q: %v", ErrStorage, sheet, err)
		}
		if err := s.writeHeaders(f, sheet); err != nil {
			return false, err
		}
		return true, nil
	}

	header, err := s.headerRow(f, sheet)
	if err != nil {
		return false, err
	}
	if s.Schema.HeaderBlank(header) {
		if err := s.writeHeaders(f, sheet); err != nil {
			return false, err
		}
		return true, nil
	}

	res, err := s.migrateSheet(f, sheet, header)
	if err != nil {
		return false, err
	}
	if res.Outcome == schema.Migrated || res.Outcome == schema.Skipped {
		// Both outcomes rewrote headers.
		return true, nil
	}

	// Backfill only blank header cells, never touching data.
	changed := false
	for i, title := range s.Schema.Columns {
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return false, fmt.Errorf("%w: writing header: %v", ErrStorage, err)
		}
		changed = true
	}
	return changed, nil
}

func (s *Store) writeHeaders(f *excelize.File, sheet string) error {
	for i, title := range s.Schema.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("%w: writing header: %v", ErrStorage, err)
		}
	}
	return nil
}

// headerRow returns row 1 padded to the schema's column count.
func (s *Store) headerRow(f *excelize.File, sheet string) ([]string, error) {
	header := make([]string, len(s.Schema.Columns))
	for i := range s.Schema.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		val, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("%w: reading header: %v", ErrStorage, err)
		}
		header[i] = val
	}
	return header, nil
}

// migrateSheet checks for the prior two-column layout (date, description)
// and migrates it to the current one by moving descriptions from column B
// to column C. If column C already holds data the move would destroy it,
// so only headers are corrected and the migration is reported as skipped.
func (s *Store) migrateSheet(f *excelize.File, sheet string, header []string) (schema.MigrationResult, error) {
	prev := s.Schema.Previous
	if prev == nil || !prev.HeaderMatches(header) {
		return schema.MigrationResult{Outcome: schema.NotApplicable}, nil
	}
	// Legacy layout also requires the trailing header cell to be empty;
	// anything else is not the layout we know how to migrate.
	if len(header) >= len(s.Schema.Columns) && strings.TrimSpace(header[len(s.Schema.Columns)-1]) != "" {
		return schema.MigrationResult{Outcome: schema.NotApplicable}, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return schema.MigrationResult{}, fmt.Errorf("%w: reading sheet %q: %v", ErrStorage, sheet, err)
	}

	const (
		fromCol = 2 // legacy description column
		toCol   = 3 // current description column
	)

	for r := 2; r <= len(rows); r++ {
		cell, err := excelize.CoordinatesToCellName(toCol, r)
		if err != nil {
			return schema.MigrationResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		val, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return schema.MigrationResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if strings.TrimSpace(val) != "" {
			// Ambiguous state: correct headers, leave every data cell as-is.
			if err := s.writeHeaders(f, sheet); err != nil {
				return schema.MigrationResult{}, err
			}
			return schema.MigrationResult{
				Outcome: schema.Skipped,
				Reason:  fmt.Sprintf("column %d already holds data in row %d", toCol, r),
			}, nil
		}
	}

	for r := 2; r <= len(rows); r++ {
		from, err := excelize.CoordinatesToCellName(fromCol, r)
		if err != nil {
			return schema.MigrationResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		to, err := excelize.CoordinatesToCellName(toCol, r)
		if err != nil {
			return schema.MigrationResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		val, err := f.GetCellValue(sheet, from)
		if err != nil {
			return schema.MigrationResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := f.SetCellValue(sheet, to, val); err != nil {
			return schema.MigrationResult{}, fmt.Errorf("%w: moving cell: %v", ErrStorage, err)
		}
		if err := f.SetCellValue(sheet, from, nil); err != nil {
			return schema.MigrationResult{}, fmt.Errorf("%w: clearing cell: %v", ErrStorage, err)
		}
	}
	if err := s.writeHeaders(f, sheet); err != nil {
		return schema.MigrationResult{}, err
	}
	return schema.MigrationResult{Outcome: schema.Migrated}, nil
}

// Append adds one record to the named sheet and persists the workbook.
// The date cell gets the date-only display format.
func (s *Store) Append(sheetName string, date time.Time, requestNumber, description string) error {
	if err := record.ValidateDescription(description); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	f, err := s.Ensure()
	if err != nil {
		return err
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("%w: creating sheet %q: %v", ErrStorage, sheetName, err)
		}
		if err := s.writeHeaders(f, sheetName); err != nil {
			return err
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("%w: reading sheet %q: %v", ErrStorage, sheetName, err)
	}
	rowNum := len(rows) + 1

	values := []interface{}{date, requestNumber, description}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("%w: writing cell: %v", ErrStorage, err)
		}
	}

	numFmt := dateNumFmt
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("%w: creating date style: %v", ErrStorage, err)
	}
	dateCell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := f.SetCellStyle(sheetName, dateCell, dateCell, styleID); err != nil {
		return fmt.Errorf("%w: styling date cell: %v", ErrStorage, err)
	}

	return s.save(f)
}

// ReadRows returns all records of the named sheet in append order. A
// missing file or sheet yields an empty slice, never an error. The
// header row and all-blank rows are skipped.
func (s *Store) ReadRows(sheetName string) ([]record.Record, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, nil
	}
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrStorage, err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrStorage, sheetName, err)
	}

	var records []record.Record
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rec := record.Record{
			ApprovalDate:  dateDisplay(cellAt(row, 0)),
			RequestNumber: cellAt(row, 1),
			Description:   cellAt(row, 2),
		}
		if rec.IsBlank() {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Counts returns the record count per schema sheet.
func (s *Store) Counts() (map[string]int, error) {
	counts := make(map[string]int, len(s.Schema.Sheets))
	for _, sheet := range s.Schema.Sheets {
		recs, err := s.ReadRows(sheet)
		if err != nil {
			return nil, err
		}
		counts[sheet] = len(recs)
	}
	return counts, nil
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// dateDisplay coerces a date cell value into the canonical YYYY-MM-DD
// display string. Serial numbers are converted through the Excel epoch,
// parseable date strings are normalized, anything else passes through.
func dateDisplay(val string) string {
	if val == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(val, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(record.DateLayout)
		}
	}
	if t, err := record.ParseDate(val); err == nil {
		return t.Format(record.DateLayout)
	}
	return val
}

// save persists the workbook under the concurrency guard: fail fast when
// Excel holds the file, take the advisory lock, then replace atomically.
func (s *Store) save(f *excelize.File) error {
	if lockfile.ExcelLockExists(s.Path) {
		return &lockfile.BusyError{
			Path: s.Path,
			Hint: "the workbook is open in another program, close it and try again",
		}
	}
	lock, err := lockfile.Acquire(s.Path, s.LockTimeout, s.LockInterval)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v (move the file to a writable folder such as Desktop or Documents)", ErrStorage, err)
		}
		return err
	}
	defer lock.Release()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("%w: serializing workbook: %v", ErrStorage, err)
	}
	if err := lockfile.WriteFileAtomic(s.Path, buf.Bytes()); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v (move the file to a writable folder such as Desktop or Documents)", ErrStorage, err)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
