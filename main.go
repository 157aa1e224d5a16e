// Package main implements the radio schedule service and its command line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/savid/radioinfo/config"
	"github.com/savid/radioinfo/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	baseURL     string
	port        int
	logLevel    string
	logFile     string
	refreshCron string
	httpTimeout time.Duration
	retries     int
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "radioinfo",
		Short:         "Sveriges Radio schedule service",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to YAML config file")
	flags.StringVar(&baseURL, "base-url", config.DefaultBaseURL, "Schedule API base URL")
	flags.IntVar(&port, "port", 8080, "HTTP listen port")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated")
	flags.StringVar(&refreshCron, "refresh-cron", "@hourly", "Cron expression for scheduled updates")
	flags.DurationVar(&httpTimeout, "http-timeout", 60*time.Second, "Timeout for each API request")
	flags.IntVar(&retries, "retries", 2, "Retries for failed API requests")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newChannelsCmd())

	return rootCmd
}

// loadConfig reads the config file and applies any flags set explicitly on
// the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if changed("port") {
		cfg.Port = port
	}
	if changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if changed("log-file") {
		cfg.LogFile = logFile
	}
	if changed("refresh-cron") {
		cfg.RefreshCron = refreshCron
	}
	if changed("http-timeout") {
		cfg.HTTPTimeout = httpTimeout
	}
	if changed("retries") {
		cfg.Retries = retries
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setup loads configuration and builds the logger every command shares.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
