package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/lockfile"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/record"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/ui"
	"github.com/spf13/cobra"
)

var (
	addSheet   string
	addDate    string
	addRequest string
)

var addCmd = &cobra.Command{
	Use:   "add [description...]",
	Short: "Append one change record to a sheet",
	Long: `Append one change record to a tracker sheet.

Multi-line descriptions are joined into a single comma-separated line.
The date accepts YYYY-MM-DD or DD-MM-YYYY (also with slashes) and
defaults to today.`,
	Example: `  nctracker add "replaced SFP on core-01"
  nctracker add --sheet WP --date 2024-03-05 --request NC12345678 "migrated uplink"
  cat notes.txt | nctracker add -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		switch {
		case len(args) == 1 && args[0] == "-":
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
		case len(args) > 0:
			text = strings.Join(args, " ")
		default:
			return fmt.Errorf("add requires a description: nctracker add \"some text\"")
		}

		return addRun(text)
	},
}

func addRun(text string) error {
	desc := record.NormalizeDescription(text)
	if desc == "" {
		return fmt.Errorf("description of work must not be empty")
	}

	date, err := record.ParseDate(addDate)
	if err != nil {
		return err
	}

	if err := store.Append(addSheet, date, strings.TrimSpace(addRequest), desc); err != nil {
		if errors.Is(err, lockfile.ErrBusy) {
			fmt.Fprintf(os.Stderr, "Cannot save: %v\n", err)
			return err
		}
		return fmt.Errorf("adding record: %w", err)
	}

	ui.FormatRecordAdded(os.Stderr, addSheet, record.Record{
		ApprovalDate:  date.Format(record.DateLayout),
		RequestNumber: strings.TrimSpace(addRequest),
		Description:   desc,
	})
	return nil
}

func init() {
	addCmd.Flags().StringVarP(&addSheet, "sheet", "s", "CR", "target sheet (CR or WP)")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "approval date (defaults to today)")
	addCmd.Flags().StringVarP(&addRequest, "request", "r", "", "request number, e.g. CR/ENP/1234")
	rootCmd.AddCommand(addCmd)
}
