// Package deps reports the external tools and assets an episode run relies
// on, for the deps command.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
)

// Status reports the availability of one dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Check reports ffmpeg and the configured music beds. Both are optional:
// transcript-only runs never call ffmpeg and a merge without music beds
// still produces an episode.
func Check(cfg *config.Config) []Status {
	ffmpeg := CheckFFmpeg(cfg.Audio.FFmpegBinary)
	ffmpeg.Optional = true
	if !ffmpeg.Available {
		ffmpeg.Detail += "; audio rendering disabled, use --transcript-only"
	}
	return []Status{ffmpeg, checkMusic(cfg)}
}

// CheckFFmpeg reports the binary the audio merger executes. A value with a
// path separator is checked directly; a bare name is resolved from PATH.
func CheckFFmpeg(binary string) Status {
	status := Status{
		Name:        "FFmpeg",
		Description: "Merges narration with intro and outro music",
		Command:     strings.TrimSpace(binary),
	}
	if status.Command == "" {
		status.Command = "ffmpeg"
	}

	if strings.ContainsRune(status.Command, filepath.Separator) {
		info, err := os.Stat(status.Command)
		if err != nil || !isExecutable(info) {
			status.Detail = fmt.Sprintf("binary %q is not an executable file", status.Command)
			return status
		}
		status.Available = true
		return status
	}

	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found on PATH", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

// checkMusic lists the languages whose intro and outro beds are both on disk.
func checkMusic(cfg *config.Config) Status {
	status := Status{
		Name:        "Music beds",
		Command:     cfg.Paths.AssetsDir,
		Description: "Intro and outro music mixed under the narration",
		Optional:    true,
	}
	langs := make(map[string]struct{}, len(cfg.Audio.IntroMusic))
	for lang := range cfg.Audio.IntroMusic {
		langs[lang] = struct{}{}
	}
	var ready []string
	for lang := range langs {
		intro, outro := cfg.MusicFor(lang)
		if fileExists(intro) && fileExists(outro) {
			ready = append(ready, lang)
		}
	}
	sort.Strings(ready)
	if len(ready) == 0 {
		status.Detail = "no intro/outro music pair found; episodes are merged without music"
		return status
	}
	status.Available = true
	status.Detail = "ready for " + strings.Join(ready, ", ")
	return status
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
