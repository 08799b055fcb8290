// Command hub-sync runs Hub reconciliation from the command line and mints
// operator tokens for the HTTP and gRPC write endpoints.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"colortrainer/pkg/logger"
	"colortrainer/pkg/utils"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "hub-sync",
	Short:         "Reconcile the local taxonomy with the Hub",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level")
	rootCmd.AddCommand(runCmd, tokenCmd)
}

// setup loads configuration and builds the CLI logger.
func setup() (*utils.Config, *zap.Logger, error) {
	cfg, err := utils.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log, err := logger.New(logger.Config(cfg.Log))
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
