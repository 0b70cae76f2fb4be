// Package cmd implements the leadharvest command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jonesrussell/north-cloud/leadharvest/cmd/crawl"
	"github.com/jonesrussell/north-cloud/leadharvest/cmd/enrich"
	"github.com/jonesrussell/north-cloud/leadharvest/cmd/gazetteer"
	"github.com/jonesrussell/north-cloud/leadharvest/cmd/merge"
	"github.com/jonesrussell/north-cloud/leadharvest/cmd/parse"
	"github.com/jonesrussell/north-cloud/leadharvest/cmd/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug logging for all commands.
	Debug bool

	rootCmd = &cobra.Command{
		Use:   "leadharvest",
		Short: "Collect and merge fashion-industry leads",
		Long: `leadharvest extracts brand, showroom, press office, tradeshow and event
leads from listing pages and merges the per-source datasets into one
deduplicated master table.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yml or ./config/config.yml when present)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(parse.Command())
	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(merge.Command())
	rootCmd.AddCommand(enrich.Command())
	rootCmd.AddCommand(gazetteer.Command())
	rootCmd.AddCommand(version.Command())
}

// initConfig locates the config file and binds flags and environment
// variables. The file itself is parsed by internal/config.
func initConfig() error {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindCommandLineFlags(); err != nil {
		return err
	}
	if err := bindAppEnvVars(); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return nil
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("locate config file: %w", err)
	}
	return nil
}

func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("failed to bind config flag: %w", err)
	}
	return nil
}

func bindAppEnvVars() error {
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.format", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	if err := viper.BindEnv("config", "LEADHARVEST_CONFIG"); err != nil {
		return fmt.Errorf("failed to bind LEADHARVEST_CONFIG: %w", err)
	}
	return nil
}
