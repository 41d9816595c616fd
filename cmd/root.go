package cmd

import (
	"fmt"
	"os"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/config"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/ui"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/workbook"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile     string
	jsonOutput  bool
	dataDirFlag string
	appConfig   *config.Config
	store       *workbook.Store
)

var rootCmd = &cobra.Command{
	Use:   "nctracker",
	Short: "Track network changes in a shared Excel workbook",
	Long: `nctracker appends network change records (approval date, request number,
description of work) to the CR and WP sheets of a local Excel workbook,
safely even while the file is open in Excel or syncing to OneDrive.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg

		if dataDirFlag != "" {
			appConfig.DataDir = dataDirFlag
		}

		path, err := appConfig.WorkbookPath()
		if err != nil {
			return err
		}
		store = workbook.New(path)
		if appConfig.LockTimeout > 0 {
			store.LockTimeout = appConfig.LockTimeout
		}
		if appConfig.LockRetryInterval > 0 {
			store.LockInterval = appConfig.LockRetryInterval
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			// Non-TTY: fall back to listing the default sheet
			return listRun(os.Stdout, store.Schema.Sheets[0])
		}
		return ui.RunForm(store, store.Schema.Sheets)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory holding the workbook")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}
