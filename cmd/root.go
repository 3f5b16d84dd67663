package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/config"
	"github.com/agent-platform/worldclock/internal/logging"
	"github.com/agent-platform/worldclock/internal/ui"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "worldclock",
	Short: "World clocks, time conversion and upcoming holidays",
	Long: `worldclock shows your local time next to a list of world clocks. Each clock
shows its offset from local time, whether it is day or night there, whether it
is already tomorrow (or still yesterday), and the next public holiday of its
country.

Usage:
  worldclock init              Initialize configuration
  worldclock now               Print every clock once
  worldclock watch             Live-updating display
  worldclock convert 3pm       Show 15:00 local time in every zone
  worldclock summary           One-line status text
  worldclock clocks add Tokyo  Manage world clocks
  worldclock holidays list     Upcoming public holidays
  worldclock serve             HTTP + WebSocket API
  worldclock tray              Menu bar / system tray`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.SetColor(false)
		}
		opts := logging.Options{Verbose: verbose, Quiet: quiet}
		if cmd.Name() != "init" {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			opts.Level = cfg.LogLevel
			opts.File = cfg.LogFile
		}
		logging.Init(opts)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.worldclock/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

var loadedConfig *config.Config

// loadConfig reads --config, or the default path, creating it on first use.
// The result is cached for the rest of the process.
func loadConfig() (*config.Config, string, error) {
	if loadedConfig != nil {
		return loadedConfig, cfgFile, nil
	}

	if cfgFile == "" {
		cfg, path, err := config.LoadOrCreate()
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		loadedConfig = cfg
		return cfg, path, nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("config not found at %s (run 'worldclock init' first)", cfgFile)
		}
		return nil, "", err
	}
	loadedConfig = cfg
	return cfg, cfgFile, nil
}
