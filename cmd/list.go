package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/ui"
	"github.com/spf13/cobra"
)

var listSheet string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the records of a sheet",
	Long:  "List all records of a tracker sheet in append order, oldest first.",
	Example: `  nctracker list
  nctracker list --sheet WP
  nctracker list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun(cmd.OutOrStdout(), listSheet)
	},
}

func listRun(w io.Writer, sheet string) error {
	records, err := store.ReadRows(sheet)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	if jsonOutput {
		return ui.FormatJSON(w, records)
	}
	ui.FormatRecordList(w, sheet, records)
	return nil
}

func init() {
	listCmd.Flags().StringVarP(&listSheet, "sheet", "s", "CR", "sheet to list (CR or WP)")
	rootCmd.AddCommand(listCmd)
}
