package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/testsupport"
)

const sampleTranscript = `[INTRO MUSIC]
ALEX: Hi, I'm Alex, an AI host, and this is the show about agents.
MAYA: And I'm Maya, also an AI host.
[TRANSITION MUSIC]
ALEX: An agent reads a goal and breaks it into steps.
MAYA: Then it picks a tool for each step.
ALEX: Guardrails stop it from doing something expensive.
[TRANSITION MUSIC]
MAYA: Thanks for listening, see you next week.
[OUTRO MUSIC]`

const hindiReply = `ARJUN: एजेंट एक लक्ष्य पढ़ता है और उसे छोटे कदमों में बाँटता है।
PRIYA: फिर हर कदम के लिए वह एक टूल चुनता है।
ARJUN: सुरक्षा नियम उसे महँगे काम करने से रोकते हैं।`

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "ELEVENLABS_API_KEY")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowMasksKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("ELEVENLABS_API_KEY", "sk-eleven-secret-9876")

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-eleven-secret-9876") {
		t.Fatalf("key leaked into output:\n%s", out)
	}
	requireContains(t, out, "****9876")
	requireContains(t, out, "[budget]")

	out, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "TTS key:      set")
	requireContains(t, out, "LLM key:      missing")
}

func TestGenerateFromTranscriptNeedsNoCredentials(t *testing.T) {
	env := setupCLITestEnv(t)
	script := filepath.Join(env.baseDir, "script.txt")
	testsupport.WriteText(t, script, sampleTranscript)

	out, _, err := runCLI(t, []string{
		"generate", "--topic", "AI agents", "--episode-number", "2",
		"--use-transcript", script, "--transcript-only",
	}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "ep02_english")

	path := filepath.Join(env.cfg.Paths.TranscriptsDir, "ep02_AI_agents_english.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected transcript at %s: %v", path, err)
	}
	requireContains(t, string(data), "An agent reads a goal")
}

func TestGenerateJSONReport(t *testing.T) {
	env := setupCLITestEnv(t)
	script := filepath.Join(env.baseDir, "script.txt")
	testsupport.WriteText(t, script, sampleTranscript)

	out, _, err := runCLI(t, []string{
		"generate", "--topic", "AI agents", "--episode-number", "3",
		"--use-transcript", script, "--transcript-only", "--json",
	}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var report episodeReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.ID != "ep03_english" || report.SessionID == "" || report.AudioFile != "" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Validation.Stats.TotalSegments != 10 {
		t.Fatalf("expected 10 segments, got %+v", report.Validation.Stats)
	}
}

func TestGenerateWithoutKeyFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"generate", "--topic", "AI agents", "--transcript-only"}, env.configPath)
	if err == nil {
		t.Fatal("expected a missing credential error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "llm.api_key is required")
}

func TestGenerateAudioNeedsTTSKey(t *testing.T) {
	env := setupCLITestEnv(t)
	script := filepath.Join(env.baseDir, "script.txt")
	testsupport.WriteText(t, script, sampleTranscript)

	_, _, err := runCLI(t, []string{"generate", "--topic", "AI agents", "--use-transcript", script}, env.configPath)
	if err == nil {
		t.Fatal("expected a missing credential error")
	}
	requireContains(t, err.Error(), "tts.api_key is required")
}

func TestGenerateRejectsUnknownLanguage(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"generate", "--topic", "AI agents", "--language", "klingon", "--transcript-only",
	}, env.configPath)
	if err == nil {
		t.Fatal("expected an unsupported language error")
	}
	requireContains(t, err.Error(), `unsupported language "klingon"`)
}

func TestTransformExtractOnly(t *testing.T) {
	env := setupCLITestEnv(t)
	script := filepath.Join(env.baseDir, "ep02_english.txt")
	testsupport.WriteText(t, script, sampleTranscript)
	outDir := filepath.Join(env.baseDir, "transformed")

	out, _, err := runCLI(t, []string{
		"transform", "--transcript", script, "--target-language", "hindi", "--topic", "AI agents",
		"--extract-only", "--output-dir", outDir,
	}, env.configPath)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	requireContains(t, out, "Extracted 3 of 10 segments")

	data, err := os.ReadFile(filepath.Join(outDir, "content_only_ep02_english.txt"))
	if err != nil {
		t.Fatalf("read content file: %v", err)
	}
	content := string(data)
	requireContains(t, content, "An agent reads a goal")
	if strings.Contains(content, "Thanks for listening") || strings.Contains(content, "I'm Alex") {
		t.Fatalf("standard sections leaked into content: %q", content)
	}
}

func TestTransformWritesAllThreeFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message":       map[string]string{"content": hindiReply},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 1200, "completion_tokens": 300},
		})
	}))
	t.Cleanup(srv.Close)

	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	if _, err := f.WriteString("\n[llm]\nprovider = \"openrouter\"\napi_key = \"test\"\nbase_url = \"" + srv.URL + "\"\n"); err != nil {
		t.Fatalf("append config: %v", err)
	}
	_ = f.Close()

	script := filepath.Join(env.baseDir, "ep02_english.txt")
	testsupport.WriteText(t, script, sampleTranscript)

	out, _, err := runCLI(t, []string{
		"transform", "--transcript", script, "--target-language", "hindi", "--topic", "AI agents",
	}, env.configPath)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if calls.Load() == 0 {
		t.Fatal("expected the model to be called")
	}
	requireContains(t, out, "Transformed english -> hindi")

	dir := env.cfg.Paths.TranscriptsDir
	for _, name := range []string{
		"content_only_ep02_english.txt",
		"transformed_hindi_ep02_english.txt",
		"combined_hindi_ep02_english.txt",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	combined, err := os.ReadFile(filepath.Join(dir, "combined_hindi_ep02_english.txt"))
	if err != nil {
		t.Fatalf("read combined: %v", err)
	}
	requireContains(t, string(combined), "एजेंट")

	out, _, err = runCLI(t, []string{"cost"}, env.configPath)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	requireContains(t, out, "hindi")
	// Footers are upper-cased by the table style.
	requireContains(t, strings.ToUpper(out), "1 RUNS")
}

func TestCacheStatsListsTables(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	for _, table := range []string{"llm_cache", "audio_cache", "cost_ledger", "episode_transcripts", "research_cache", "transformation_cache"} {
		requireContains(t, out, table)
	}

	out, _, err = runCLI(t, []string{"cache", "prune"}, env.configPath)
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Pruned 0 LLM and 0 research entries")
}

func TestCostWithoutSpend(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"cost", "--date", "2024-01-15"}, env.configPath)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	requireContains(t, out, "Spend for 2024-01-15")
	requireContains(t, out, "No spend recorded")

	if _, _, err := runCLI(t, []string{"cost", "--date", "15/01/2024"}, env.configPath); err == nil {
		t.Fatal("expected an invalid date error")
	}
}

func TestDepsReportsFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "llm.api_key is required")
}
