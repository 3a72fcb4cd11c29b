package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/fileutil"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
)

// commandRunner abstracts command execution for testing.
type commandRunner func(ctx context.Context, name string, args ...string) error

const sampleFormat = "aresample=44100,aformat=sample_fmts=fltp:channel_layouts=stereo"

// Merger concatenates clips into one episode with ffmpeg.
type Merger struct {
	cfg    *config.Config
	logger *slog.Logger
	run    commandRunner
}

// NewMerger constructs a merger using cfg.Audio settings.
func NewMerger(cfg *config.Config, logger *slog.Logger) *Merger {
	return &Merger{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "merger"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *Merger) WithCommandRunner(r commandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// Merge writes files, in order, to output. Music markers are skipped. When the
// language (or default) intro and outro music both exist on disk the episode
// opens with the intro bed faded out and closes with the outro bed faded in;
// otherwise clips are joined plainly. Every clip after the first element is
// preceded by the configured pause. It returns "" without error when there is
// nothing to merge.
func (m *Merger) Merge(ctx context.Context, files []string, output, language string) (string, error) {
	if m == nil {
		return "", fmt.Errorf("merger not initialized")
	}
	clips := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" || f == MusicMarker {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return "", fmt.Errorf("audio clip not found %q: %w", f, err)
		}
		clips = append(clips, f)
	}
	if len(clips) == 0 {
		return "", nil
	}
	if strings.TrimSpace(output) == "" {
		return "", fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	intro, outro, withMusic := m.musicFor(language)
	if !withMusic && len(clips) == 1 && !m.cfg.Audio.Normalize {
		if err := fileutil.CopyFile(clips[0], output); err != nil {
			return "", fmt.Errorf("copy single clip: %w", err)
		}
		return output, nil
	}

	tmpPath := filepath.Join(filepath.Dir(output), ".merge-"+filepath.Base(output)+".tmp")
	args := m.buildArgs(clips, intro, outro, withMusic, tmpPath)

	m.logger.Debug("executing ffmpeg",
		logging.String("output", output),
		logging.Int("clip_count", len(clips)),
		logging.Bool("music", withMusic),
		logging.String(logging.FieldLanguage, language),
	)
	if err := m.run(ctx, m.binary(), args...); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("ffmpeg failed: %w", err)
	}
	if _, err := os.Stat(tmpPath); err != nil {
		return "", fmt.Errorf("ffmpeg did not produce output file: %w", err)
	}
	if err := os.Rename(tmpPath, output); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move merged episode into place: %w", err)
	}

	m.logger.Info("episode audio merged",
		logging.String(logging.FieldEventType, "audio_merge_complete"),
		logging.String("output", output),
		logging.Int("clip_count", len(clips)),
		logging.Bool("music", withMusic),
	)
	return output, nil
}

func (m *Merger) binary() string {
	if b := strings.TrimSpace(m.cfg.Audio.FFmpegBinary); b != "" {
		return b
	}
	return "ffmpeg"
}

// musicFor resolves the intro and outro beds. A language-specific file that
// is missing on disk falls back to the default entry.
func (m *Merger) musicFor(language string) (string, string, bool) {
	pick := func(beds map[string]string, kind string) string {
		for _, key := range []string{language, "default"} {
			path := beds[key]
			if path == "" {
				continue
			}
			if fileutil.IsFile(path) {
				return path
			}
			logging.WarnWithContext(m.logger, "music bed not found", "music_missing",
				logging.String("kind", kind),
				logging.String("path", path),
				logging.String(logging.FieldLanguage, language),
				logging.String(logging.FieldImpact, "falling back to the default bed or a plain merge"),
				logging.String(logging.FieldErrorHint, "place the file under assets_dir or fix [audio] music paths"),
			)
		}
		return ""
	}
	intro := pick(m.cfg.Audio.IntroMusic, "intro")
	outro := pick(m.cfg.Audio.OutroMusic, "outro")
	if intro == "" || outro == "" {
		return "", "", false
	}
	return intro, outro, true
}

// buildArgs constructs the ffmpeg command line. Inputs are ordered
// [intro] clips... [outro]; the filter graph resamples each input, delays every
// element after the first by the pause, applies fades to the music beds and
// concatenates.
func (m *Merger) buildArgs(clips []string, intro, outro string, withMusic bool, outputPath string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	inputs := make([]string, 0, len(clips)+2)
	if withMusic {
		inputs = append(inputs, intro)
	}
	inputs = append(inputs, clips...)
	if withMusic {
		inputs = append(inputs, outro)
	}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	pause := m.cfg.Audio.PauseMillis
	fade := strconv.FormatFloat(float64(m.cfg.Audio.FadeMillis)/1000, 'f', 3, 64)

	var graph strings.Builder
	labels := make([]string, 0, len(inputs))
	for i := range inputs {
		filters := []string{sampleFormat}
		isIntro := withMusic && i == 0
		isOutro := withMusic && i == len(inputs)-1
		switch {
		case isIntro:
			if m.cfg.Audio.FadeMillis > 0 {
				filters = append(filters, "areverse", "afade=t=in:st=0:d="+fade, "areverse")
			}
		case isOutro:
			if m.cfg.Audio.FadeMillis > 0 {
				filters = append(filters, "afade=t=in:st=0:d="+fade)
			}
		default:
			if m.cfg.Audio.Normalize {
				filters = append(filters, "loudnorm=I=-16:TP=-1.5:LRA=11", sampleFormat)
			}
		}
		if i > 0 && pause > 0 {
			filters = append(filters, "adelay=delays="+strconv.Itoa(pause)+":all=1")
		}
		label := "a" + strconv.Itoa(i)
		fmt.Fprintf(&graph, "[%d:a]%s[%s];", i, strings.Join(filters, ","), label)
		labels = append(labels, "["+label+"]")
	}
	fmt.Fprintf(&graph, "%sconcat=n=%d:v=0:a=1[out]", strings.Join(labels, ""), len(inputs))

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[out]",
		"-c:a", "libmp3lame",
		"-q:a", "2",
		"-f", "mp3",
		outputPath,
	)
	return args
}

// defaultCommandRunner executes ffmpeg, folding its output into the error.
func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
