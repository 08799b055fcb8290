package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"colortrainer/internal/app"
	"colortrainer/internal/reconcile"
)

var (
	runScope  string
	runDryRun bool
	runJSON   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Pull the Hub and upsert into the local store",
	Long: `Fetch every selected category from the Hub, normalize the records and
upsert them into the local database. With --dry-run records are written to
an in-memory store and the database is left untouched.`,
	Example: `  hub-sync run
  hub-sync run --scope colors --json
  hub-sync run --dry-run`,
	RunE: runSync,
}

func init() {
	runCmd.Flags().StringVar(&runScope, "scope", "all", "all, taxonomy, colors, fabrics, artists or eras")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "reconcile into memory only")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the raw sync response")
}

func runSync(cmd *cobra.Command, _ []string) error {
	scope, err := reconcile.ParseScope(runScope)
	if err != nil {
		return err
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Hub.RequireHub(); err != nil {
		return err
	}

	var store reconcile.Store
	if runDryRun {
		store = reconcile.NewMemoryStore()
	} else {
		db, _, err := app.OpenDB(cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		store = app.NewStore(db)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := reconcile.NewEngine(app.NewHubClient(cfg.Hub, log), store, reconcile.WithLogger(log.Named("sync")))
	resp := engine.Run(ctx, scope)

	out := cmd.OutOrStdout()
	if runJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		printResponse(out, resp, runDryRun)
	}

	if !resp.Success {
		return errors.New(resp.Error)
	}
	return nil
}

var categoryOrder = []string{"taxonomy", "colors", "fabrics", "artists", "eras"}

func printResponse(w io.Writer, resp *reconcile.SyncResponse, dryRun bool) {
	for _, name := range categoryOrder {
		res, ok := resp.Results[name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-9s synced=%d errors=%d\n", name, res.Synced, len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	if resp.Success {
		if dryRun {
			fmt.Fprintf(w, "%s (dry run)\n", resp.Message)
		} else {
			fmt.Fprintln(w, resp.Message)
		}
	}
}
