package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and prune the response cache",
	}
	cmd.AddCommand(newCacheStatsCommand(ctx))
	cmd.AddCommand(newCachePruneCommand(ctx))
	return cmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts per cache table",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(nil)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(stats))
			total := 0
			for _, s := range stats {
				rows = append(rows, []string{s.Table, strconv.Itoa(s.Rows)})
				total += s.Rows
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache: %s\n", store.Path())
			fmt.Fprintln(out, renderTable([]string{"Table", "Rows"}, rows,
				[]columnAlignment{alignLeft, alignRight}, "Total", strconv.Itoa(total)))
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired LLM and research entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			store, err := ctx.openStore(nil)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d LLM and %d research entries\n", result.LLM, result.Research)
			return nil
		},
	}
}
