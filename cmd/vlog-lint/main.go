package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vlog-lint/internal/config"
	"github.com/robert-at-pretension-io/vlog-lint/internal/lint"
)

var (
	verbose    bool
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "vlog-lint <path>",
	Short: "Lint Verilog designs for unused and undriven signals",
	Long: `vlog-lint parses and elaborates Verilog sources, tracks per-bit
signal usage, and reports signals (or bit ranges) that are never
driven or never used.

Configuration is read from vlog_lint.json, .vlog_lint.json, or
~/.config/vlog_lint/config.json. Run 'vlog-lint init' to create a
default configuration file.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(args[0])
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a vlog_lint.json configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a configuration file")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(initCmd)
}

func runLint(path string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load config: %v (using defaults)\n", err)
			cfg = config.DefaultConfig()
		}
	}

	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	log := hclog.New(&hclog.LoggerOptions{
		Name:   "vlog-lint",
		Level:  level,
		Output: os.Stderr,
	})

	runner := lint.NewRunner(cfg, log)
	runner.JSONOutput = jsonOutput

	report, err := runner.Run(path)
	if err != nil {
		return err
	}
	if report.Summary.Errors > 0 {
		os.Exit(2)
	}
	return nil
}

func runInit() error {
	const path = "vlog_lint.json"

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file %s already exists. Overwrite? [y/N]: ", path)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	fmt.Println("\nEdit this file to configure:")
	fmt.Println("  - Rule severities (off, warning, error)")
	fmt.Println("  - File patterns to ignore")
	fmt.Println("  - A directory of extra .rego policies")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
