/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chaosmap-io/chaosmap/internal/logger"
	"github.com/chaosmap-io/chaosmap/internal/telemetry"
	"github.com/chaosmap-io/chaosmap/models"
	"github.com/chaosmap-io/chaosmap/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// jsonOut switches command output to machine-readable JSON.
	jsonOut bool
	// ErrTaskNotFound is returned when an id or prefix matches no task.
	ErrTaskNotFound = errors.New("no task found with that id")
	// version is the application version.
	version = "0.3.0"

	// telemetryAPIKey is injected at release build time via -ldflags.
	// Empty means telemetry stays a no-op regardless of consent.
	telemetryAPIKey = ""

	telemetryClient telemetry.Client = telemetry.NewNoopClient()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chaosmap",
	Short: "chaosmap turns brain-dump text into a prioritized task map.",
	Long: `chaosmap is a CLI for capturing tasks as fast as you can type them.
Paste freeform "chaos" text and it parses urgency markers, durations,
tags and explicit overrides into scored tasks, places them on an
impact/effort map, and tracks recurring work on a calendar.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.Name())
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	initTelemetry()
	defer func() { _ = telemetryClient.Close() }()

	err := rootCmd.Execute()
	if err != nil {
		telemetryClient.Track(telemetry.EventCommandError, telemetry.Properties{
			"command": calledCommandName(),
		})
		os.Exit(1)
	}
	telemetryClient.Track(telemetry.EventCommandExecuted, telemetry.Properties{
		"command": calledCommandName(),
	})
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.chaosmap.yaml or ./.chaosmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output machine-readable JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// initTelemetry builds the global telemetry client. Falls back to the
// no-op client when not configured or consent is missing.
func initTelemetry() {
	if telemetryAPIKey == "" {
		return
	}
	cfg, err := telemetry.Load()
	if err != nil {
		return
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:  telemetryAPIKey,
		Version: version,
		Config:  cfg,
	})
	if err != nil {
		return
	}
	telemetryClient = client
}

func calledCommandName() string {
	cmd, _, err := rootCmd.Find(os.Args[1:])
	if err != nil || cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}

// GetTaskFilePath returns the full path to the tasks file
func GetTaskFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.DataDir, config.Data.File)
}

// GetStore initializes and returns the task store for the configured backend.
func GetStore() (store.TaskStore, error) {
	config := GetConfig()
	taskFilePath := GetTaskFilePath()

	var s store.TaskStore
	switch config.Data.Backend {
	case "sqlite":
		s = store.NewSQLiteTaskStore()
	default:
		s = store.NewFileTaskStore()
	}

	err := s.Initialize(map[string]string{
		"dataFile":       taskFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", taskFilePath, err)
	}
	return s, nil
}

// resolveTask looks a task up by full ID or unique ID prefix.
func resolveTask(taskStore store.TaskStore, idOrPrefix string) (models.Task, error) {
	if task, err := taskStore.GetTask(idOrPrefix); err == nil {
		return task, nil
	}

	matches, err := taskStore.ListTasks(func(t models.Task) bool {
		return strings.HasPrefix(t.ID, idOrPrefix)
	}, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}
