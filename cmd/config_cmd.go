/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chaosmap-io/chaosmap/internal/telemetry"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chaosmap configuration",
	Long: `View and manage chaosmap configuration settings.

Configuration is resolved flag > environment (CHAOSMAP_*) > config
file > defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Persist a configuration value to the config file.

  chaosmap config set data.format yaml
  chaosmap config set data.backend sqlite`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(args[0], args[1])
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigGet(args[0])
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			fmt.Println("No config file in use (defaults and environment only).")
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

// Telemetry subcommands
var configTelemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage anonymous usage telemetry settings.

chaosmap can collect anonymous usage data to improve the tool:
  - Command names and success/failure status
  - OS and architecture
  - CLI version

No task content, file paths, or personal data is ever collected.
Telemetry is disabled until explicitly enabled, and the
CHAOSMAP_NO_TELEMETRY environment variable always wins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTelemetryStatus()
	},
}

var configTelemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTelemetryStatus()
	},
}

var configTelemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTelemetrySetEnabled(true)
	},
}

var configTelemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTelemetrySetEnabled(false)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)

	configCmd.AddCommand(configTelemetryCmd)
	configTelemetryCmd.AddCommand(configTelemetryStatusCmd)
	configTelemetryCmd.AddCommand(configTelemetryEnableCmd)
	configTelemetryCmd.AddCommand(configTelemetryDisableCmd)
}

func runConfigShow() error {
	cfg := GetConfig()
	if isJSON() {
		return printJSON(cfg)
	}

	fmt.Println("project.rootDir:", cfg.Project.RootDir)
	fmt.Println("project.dataDir:", cfg.Project.DataDir)
	fmt.Println("data.file:      ", cfg.Data.File)
	fmt.Println("data.format:    ", cfg.Data.Format)
	fmt.Println("data.backend:   ", cfg.Data.Backend)
	if path := viper.ConfigFileUsed(); path != "" {
		fmt.Println("config file:    ", path)
	}
	return nil
}

func runConfigSet(key, value string) error {
	// Only known keys may be persisted; validation below catches bad values.
	switch key {
	case "project.rootDir", "project.dataDir", "data.file", "data.format", "data.backend", "verbose":
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	viper.Set(key, value)
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		return fmt.Errorf("failed to apply %s: %w", key, err)
	}
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		// No config file yet, create a project-specific one.
		if err := os.MkdirAll(GlobalAppConfig.Project.RootDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		configFile = filepath.Join(GlobalAppConfig.Project.RootDir, ".chaosmap.yaml")
		viper.SetConfigFile(configFile)
	}

	if err := viper.WriteConfig(); err != nil {
		if err := viper.WriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	fmt.Printf("Set %s = %s (%s)\n", key, value, configFile)
	return nil
}

func runConfigGet(key string) error {
	if !viper.IsSet(key) {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	value := viper.Get(key)
	if isJSON() {
		return printJSON(map[string]any{key: value})
	}
	fmt.Println(value)
	return nil
}

func runTelemetryStatus() error {
	cfg, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("failed to load telemetry config: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]any{
			"enabled":       cfg.IsEnabled(),
			"consent_asked": cfg.ConsentAsked,
		})
	}

	if cfg.IsEnabled() {
		fmt.Println("Telemetry: enabled")
	} else {
		fmt.Println("Telemetry: disabled")
	}
	if os.Getenv("CHAOSMAP_NO_TELEMETRY") != "" {
		fmt.Println("(forced off by CHAOSMAP_NO_TELEMETRY)")
	}
	return nil
}

func runTelemetrySetEnabled(enabled bool) error {
	cfg, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("failed to load telemetry config: %w", err)
	}

	if enabled {
		cfg.Enable()
	} else {
		cfg.Disable()
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save telemetry config: %w", err)
	}

	if enabled {
		fmt.Println("Telemetry enabled. Thank you!")
	} else {
		fmt.Println("Telemetry disabled.")
	}
	return nil
}
