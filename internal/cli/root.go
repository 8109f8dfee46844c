// Package cli wires the donorx commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crowdfund3r/donorx/internal/daemon"
)

// Version is stamped at build time via -ldflags.
var Version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "donorx",
	Short: "Donor progression engine",
	Long: `donorx tracks donor XP, levels, donation streaks and badges for
crowdfunding platforms, and serves ranked leaderboards over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+daemon.ConfigPath()+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configPath resolves the --config flag, falling back to the default.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return daemon.ConfigPath()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the donorx version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "donorx %s\n", Version)
	},
}

// ─── config ─────────────────────────────────────────────────────────────────

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage daemon configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := daemon.Save(path, daemon.DefaultConfig()); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Config written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := daemon.Load(configPath())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "listen:       %s\n", cfg.API.Addr())
		fmt.Fprintf(os.Stdout, "metrics:      %v\n", cfg.API.Metrics)
		fmt.Fprintf(os.Stdout, "store:        %s (%s)\n", cfg.Store.Driver, cfg.Store.Path)
		fmt.Fprintf(os.Stdout, "log level:    %s\n", cfg.Log.ZapLevel())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
