// Package main is the supplysight command: the inventory GraphQL server plus
// tools to seed and export the product record set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/supplysight/internal/config"
	"github.com/fairyhunter13/supplysight/internal/obs"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:           "supplysight",
	Short:         "Inventory dashboard backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = os.Getenv("SUPPLYSIGHT_CONFIG")
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		obs.InitLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (env, yaml, json or toml); defaults to ./.env when present")
	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
