package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/workbook"
)

func setupTestStore(t *testing.T) {
	t.Helper()
	prev := store
	store = workbook.New(filepath.Join(t.TempDir(), "network_changes.xlsx"))
	t.Cleanup(func() { store = prev })
}

func TestAddThenList(t *testing.T) {
	setupTestStore(t)
	addSheet = "CR"
	addDate = "05-03-2024"
	addRequest = "CR/ENP/1234"

	if err := addRun("patched core-01\nverified traffic\n"); err != nil {
		t.Fatalf("addRun: %v", err)
	}

	var buf bytes.Buffer
	if err := listRun(&buf, "CR"); err != nil {
		t.Fatalf("listRun: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"2024-03-05", "CR/ENP/1234", "patched core-01, verified traffic"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestAddRejectsEmptyDescription(t *testing.T) {
	setupTestStore(t)
	addSheet = "CR"
	addDate = ""
	addRequest = ""

	if err := addRun("  \n\n  "); err == nil {
		t.Fatal("expected error for blank description")
	}
}

func TestAddRejectsBadDate(t *testing.T) {
	setupTestStore(t)
	addSheet = "WP"
	addDate = "not-a-date"
	addRequest = ""

	if err := addRun("some work"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestListJSON(t *testing.T) {
	setupTestStore(t)
	addSheet = "WP"
	addDate = "2024-03-05"
	addRequest = "WP-42"
	if err := addRun("window work"); err != nil {
		t.Fatalf("addRun: %v", err)
	}

	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	if err := listRun(&buf, "WP"); err != nil {
		t.Fatalf("listRun: %v", err)
	}
	for _, want := range []string{`"approval_date"`, `"WP-42"`, `"window work"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("json output missing %q:\n%s", want, buf.String())
		}
	}
}
