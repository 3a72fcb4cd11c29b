package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/testsupport"
)

var credentialEnv = []string{
	"ANTHROPIC_API_KEY",
	"CLAUDE_API_KEY",
	"OPENAI_API_KEY",
	"OPENROUTER_API_KEY",
	"ELEVENLABS_API_KEY",
	"AIBUILDERS_LOG_LEVEL",
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	for _, name := range credentialEnv {
		t.Setenv(name, "")
	}
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithoutKeys()}, opts...)...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "aibuilders", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\noutput_dir = %q\ntranscripts_dir = %q\naudio_dir = %q\nassets_dir = %q\nlog_dir = %q\n\n"+
			"[cache]\npath = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.DataDir,
		cfg.Paths.OutputDir,
		cfg.Paths.TranscriptsDir,
		cfg.Paths.AudioDir,
		cfg.Paths.AssetsDir,
		cfg.Paths.LogDir,
		cfg.Cache.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
