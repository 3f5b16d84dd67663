package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/config"
)

var initPreset string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize worldclock configuration",
	Long: `Creates the configuration directory and default config file at ~/.worldclock/config.yaml.

Examples:
  worldclock init
  worldclock init --preset "12-hour"
  worldclock init --config ~/.worldclock/config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			var err error
			path, err = config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("determine config path: %w", err)
			}
		}

		var pattern string
		if initPreset != "" {
			var err error
			if pattern, err = presetPattern(initPreset); err != nil {
				return err
			}
		}

		if _, err := os.Stat(path); err == nil {
			cfg, loadErr := config.Load(path)
			if loadErr != nil {
				return fmt.Errorf("load existing config: %w", loadErr)
			}
			if pattern != "" {
				cfg.Display.LocalFormat = pattern
			}
			if err := config.SaveWithComments(path, cfg); err != nil {
				return fmt.Errorf("update config: %w", err)
			}
			fmt.Printf("Configuration updated at %s (merged new defaults)\n", path)
			return nil
		}

		cfg := config.DefaultConfig()
		if pattern != "" {
			cfg.Display.LocalFormat = pattern
		}
		if err := config.SaveWithComments(path, &cfg); err != nil {
			return fmt.Errorf("create config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. Add a few world clocks:")
		fmt.Println("     worldclock clocks add Tokyo")
		fmt.Println("     worldclock clocks add America/New_York --label NYC")
		fmt.Println()
		fmt.Println("  2. Watch them tick:")
		fmt.Println("     worldclock watch")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initPreset, "preset", "", "summary format preset, e.g. \"12-hour\" or \"Weekday\"")
}
