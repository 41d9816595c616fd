package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the workbook with the default spreadsheet application",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Make sure there is something to open on first run.
		f, err := store.Ensure()
		if err != nil {
			return err
		}
		f.Close()

		return openPath(store.Path)
	},
}

func openPath(path string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		c = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		c = exec.Command("open", path)
	default:
		c = exec.Command("xdg-open", path)
	}
	if err := c.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(openCmd)
}
