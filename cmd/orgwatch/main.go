package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orgwatch/orgwatch/internal/config"
	"github.com/orgwatch/orgwatch/internal/tui"
)

var (
	flagLogFile string
	flagConfig  string
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "orgwatch",
	Short: "Terminal split timer with org-mode logging",
	Long: `orgwatch is a terminal stopwatch for focused work sessions. It tracks a
main goal with nested subgoal splits and appends finished sessions to an
org-mode outline file, one LOGBOOK clock entry per closed subgoal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := buildLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		p := tea.NewProgram(
			tui.NewRootModel(cfg, logger),
			tea.WithAltScreen(),
		)
		_, err = p.Run()
		return err
	},
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

// buildLogger returns a file-backed debug logger, or a nop one. The TUI
// owns the terminal, so diagnostics never go to stdout.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if !cfg.Debug {
		return zap.NewNop(), nil
	}
	path := config.DebugLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}

func init() {
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "org file to append sessions to (overrides config)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a config file")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "write a debug log and enable the in-app debug panel")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
