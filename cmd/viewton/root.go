package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/andrewvolostnykh/viewton/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logType   string
	format    string
	baseURL   string
	inputFile string
)

var rootCmd = &cobra.Command{
	Use:   "viewton",
	Short: "Build viewton query strings from documents and scripts",
	Long: `viewton turns a query described as a YAML document or a Lua script into the
query parameters understood by a viewton service: filters, sorting,
pagination and attribute projection.

The result is printed as a query string, a full URL, JSON or YAML.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logType, "log-type", "", "log type (json, text, colored-text)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "", "output format (query, url, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "base URL for url output")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(scriptCmd)
}

// setup loads the configuration, lets explicit flags override it and builds
// the logger. Logs go to stderr, stdout is reserved for rendered output.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logger.Level = logLevel
	}
	if flags.Changed("log-type") {
		cfg.Logger.Type = logType
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("base-url") {
		cfg.Output.BaseURL = baseURL
	}

	logger, err := cfg.Logger.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return cfg, nil, fmt.Errorf("cannot create logger: %w", err)
	}

	if err := cfg.Output.Validate(); err != nil {
		return cfg, logger, fmt.Errorf("invalid output config: %w", err)
	}

	return cfg, logger, nil
}
