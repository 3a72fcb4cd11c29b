package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revathi-prasad/ai-builders-podcast/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries and service credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := [][]string{}
			for _, status := range deps.Check(cfg) {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{status.Name, status.Command, state, valueOrDash(status.Detail)})
			}
			rows = append(rows,
				credentialRow("LLM key", cfg.LLM.Provider, cfg.RequireLLMKey()),
				credentialRow("TTS key", "elevenlabs", cfg.RequireTTSKey()),
			)

			out := cmd.OutOrStdout()
			heading(out, "Dependencies")
			fmt.Fprintln(out, renderTable([]string{"Name", "Command", "Status", "Detail"}, rows, nil))
			return nil
		},
	}
}

func credentialRow(name, service string, err error) []string {
	if err != nil {
		return []string{name, service, "missing", err.Error()}
	}
	return []string{name, service, "ok", "-"}
}
