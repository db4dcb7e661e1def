package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/config"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/spf13/cobra"
)

var (
	configName string
	timeout    time.Duration

	cfg    *config.Config
	logger interfaces.LoggerPort
)

// rootCmd загружает конфигурацию сервиса перед запуском любой подкоманды.
var rootCmd = &cobra.Command{
	Use:           "storefront-cli",
	Short:         "Maintenance commands for the storefront service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configName)
		if err != nil {
			return err
		}
		logger, err = bootstrap.NewLogger(cfg)
		return err
	},
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configName, "config", "c", "", "Config file name without extension (default: config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	migrateCmd.AddCommand(migrateListCmd)
	cacheCmd.AddCommand(cacheFlushCmd)
	tokenCmd.AddCommand(tokenIssueCmd)
	topicsCmd.AddCommand(topicsCreateCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(topicsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
