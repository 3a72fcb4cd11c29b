package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cost"
)

const dateLayout = "2006-01-02"

func newCostCommand(ctx *commandContext) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Show the spend ledger for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if value := strings.TrimSpace(date); value != "" {
				parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", value)
				}
				day = parsed
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore(nil)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.CostRecords(cmd.Context(), day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading(out, "Spend for "+day.Format(dateLayout))
			if len(records) == 0 {
				fmt.Fprintln(out, "No spend recorded")
				return nil
			}

			var total cost.Breakdown
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				total = total.Add(cost.Breakdown{LLM: r.LLMCost, TTS: r.TTSCost})
				rows = append(rows, []string{
					r.Timestamp.Local().Format("15:04:05"),
					valueOrDash(r.Language),
					valueOrDash(r.Topic),
					usd(r.LLMCost),
					usd(r.TTSCost),
					usd(r.TotalCost),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Language", "Topic", "LLM", "TTS", "Total"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				"", "", fmt.Sprintf("%d runs", len(records)), usd(total.LLM), usd(total.TTS), usd(total.Total()),
			))

			budget := cost.Budget{MaxDaily: cfg.Budget.MaxDailyCost}
			for _, w := range budget.Check(total.Total(), 0) {
				fmt.Fprintf(out, "Budget: %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to report (YYYY-MM-DD, default today)")
	return cmd
}
