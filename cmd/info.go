package cmd

import (
	"os"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/ui"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the workbook location and record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := store.Counts()
		if err != nil {
			return err
		}

		if jsonOutput {
			return ui.FormatJSON(os.Stdout, struct {
				Path   string         `json:"path"`
				Counts map[string]int `json:"counts"`
			}{store.Path, counts})
		}
		ui.FormatInfo(os.Stdout, store.Path, store.Schema.Sheets, counts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
