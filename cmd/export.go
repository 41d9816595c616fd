package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/lockfile"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/paths"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/ui"
	"github.com/spf13/cobra"
)

var (
	exportDest  string
	exportForce bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy the workbook to a OneDrive folder",
	Long: `Copy the current workbook byte-for-byte to a cloud-synced folder.

Without --dest the OneDrive folder is discovered from the environment
and conventional locations, falling back to the home directory.`,
	Example: `  nctracker export
  nctracker export --dest "~/OneDrive - Contoso/trackers" --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(store.Path); err != nil {
			return fmt.Errorf("nothing to export: %s does not exist", store.Path)
		}

		dest := exportDest
		if dest == "" {
			dest = paths.FindOneDriveDir()
		}
		destPath := filepath.Join(dest, filepath.Base(store.Path))

		if _, err := os.Stat(destPath); err == nil && !exportForce {
			ok, err := ui.Confirm(fmt.Sprintf("%s already exists. Overwrite?", destPath))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stderr, "Export cancelled.")
				return nil
			}
		}

		if err := lockfile.CopyFileAtomic(store.Path, destPath); err != nil {
			return fmt.Errorf("exporting to %s: %w", destPath, err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", destPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDest, "dest", "", "destination directory (default: discovered OneDrive folder)")
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "overwrite without asking")
	rootCmd.AddCommand(exportCmd)
}
