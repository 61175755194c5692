package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriForge/internal/app"
	"github.com/Rorical/RoriForge/internal/config"
	"github.com/Rorical/RoriForge/internal/logging"
)

const logFileName = "roriforge.log"

var (
	logLevel  string
	exportDir string
)

var rootCmd = &cobra.Command{
	Use:   "roriforge",
	Short: "Build a project by chatting with a model",
	Long: `RoriForge streams a model's replies into your terminal and applies the
file operations they contain to an in-memory project.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		logging.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		return runChat(cfg)
	},
}

// runChat starts the TUI. Logs go to a file in the config directory since
// the UI owns the terminal.
func runChat(cfg *config.Config) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	logFile, err := logging.SetupFile(filepath.Join(dir, logFileName))
	if err != nil {
		return err
	}
	defer logFile.Close()

	application := app.NewApplication(cfg, app.Options{ExportDir: exportDir})
	defer application.Stop()

	return application.Start()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&exportDir, "out", "", "directory the project is exported to")

	rootCmd.AddCommand(profileCmd)
}
