package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:   "tokenreset",
		Short: "Reset conda-forge feedstock tokens",
		Long: `Reset feedstock tokens for conda-forge packages.

For every package the existing token in conda-forge/feedstock-tokens is
deleted, a new one is generated and registered with the CI providers by
conda-smithy, and the STAGING_BINSTAR_TOKEN secret is rotated.

Configuration can be provided via YAML file, environment or command-line flags.`,
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tokenreset/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (defaults to GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().String("travis-token", "", "Travis CI token (defaults to TRAVIS_TOKEN or ~/.conda-smithy/travis.token)")
	rootCmd.PersistentFlags().String("organization", "conda-forge", "GitHub organization owning the feedstocks")
	rootCmd.PersistentFlags().String("smithy", "conda smithy", "command used to run conda-smithy")

	// Bind flags to viper
	viper.BindPFlag("github-token", rootCmd.PersistentFlags().Lookup("github-token"))
	viper.BindPFlag("travis-token", rootCmd.PersistentFlags().Lookup("travis-token"))
	viper.BindPFlag("organization", rootCmd.PersistentFlags().Lookup("organization"))
	viper.BindPFlag("smithy", rootCmd.PersistentFlags().Lookup("smithy"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}

func initConfig() {
	// Runs after flag parsing and before anything logs.
	if debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".tokenreset"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TOKENRESET")
	viper.AutomaticEnv()

	// The tokens also come from the variables conda-smithy reads.
	viper.BindEnv("github-token", "GITHUB_TOKEN")
	viper.BindEnv("travis-token", "TRAVIS_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
