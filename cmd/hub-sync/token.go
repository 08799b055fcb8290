package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"colortrainer/internal/app"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:     "token",
	Short:   "Mint an operator bearer token",
	Example: `  curl -H "Authorization: Bearer $(hub-sync token)" -X POST localhost:8080/hub/sync`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		token, exp, err := app.NewTokens(cfg.Auth).Sign(tokenSubject)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
}
