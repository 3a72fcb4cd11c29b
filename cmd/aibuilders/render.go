package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const (
	ansiBold  = "\033[1m"
	ansiBlue  = "\033[34m"
	ansiReset = "\033[0m"
)

// heading prints a section title, underlined, and colored on terminals.
func heading(out io.Writer, title string) {
	rule := strings.Repeat("-", len([]rune(title)))
	if shouldColorize(out) {
		title = ansiBold + ansiBlue + title + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, rule)
}

func usd(amount float64) string {
	return fmt.Sprintf("$%.4f", amount)
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
