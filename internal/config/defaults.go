package config

const (
	defaultConfigPath  = "~/.config/aibuilders/config.toml"
	projectConfigName  = "aibuilders.toml"
	defaultDataDir     = "~/.local/share/aibuilders"
	defaultOutputDir   = "episodes"
	defaultTranscripts = "outputs"
	defaultAudioDir    = "audio-files"
	defaultAssetsDir   = "assets"
	defaultLogDir      = "~/.local/share/aibuilders/logs"
	defaultCacheFile   = "podcast_cache.db"

	defaultLLMProvider      = ProviderAnthropic
	defaultLLMModel         = "claude-3-7-sonnet-20250219"
	defaultLLMTimeout       = 300
	defaultLLMRetryAttempts = 5
	defaultOpenRouterURL    = "https://openrouter.ai/api/v1/chat/completions"

	defaultTTSBaseURL = "https://api.elevenlabs.io/v1"
	defaultTTSTimeout = 120

	defaultLLMTTLHours      = 24
	defaultResearchTTLHours = 168

	defaultMaxDailyCost   = 15.00
	defaultMaxEpisodeCost = 12.00

	defaultFFmpegBinary = "ffmpeg"
	defaultPauseMillis  = 800
	defaultFadeMillis   = 2000

	defaultResearchMaxItems = 10
	defaultResearchTimeout  = 30

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Supported LLM providers.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:        defaultDataDir,
			OutputDir:      defaultOutputDir,
			TranscriptsDir: defaultTranscripts,
			AudioDir:       defaultAudioDir,
			AssetsDir:      defaultAssetsDir,
			LogDir:         defaultLogDir,
		},
		LLM: LLM{
			Provider: defaultLLMProvider,
			Models: map[string]string{
				TierEconomy:  defaultLLMModel,
				TierStandard: defaultLLMModel,
				TierPremium:  defaultLLMModel,
			},
			Title:            "AI Builders Podcast",
			TimeoutSeconds:   defaultLLMTimeout,
			RetryMaxAttempts: defaultLLMRetryAttempts,
		},
		TTS: TTS{
			BaseURL: defaultTTSBaseURL,
			Models: map[string]string{
				TierEconomy:  "eleven_turbo_v2",
				TierStandard: "eleven_multilingual_v2",
				TierPremium:  "eleven_multilingual_v2",
			},
			Stability:       0.35,
			SimilarityBoost: 0.75,
			Style:           0.0,
			UseSpeakerBoost: true,
			TimeoutSeconds:  defaultTTSTimeout,
		},
		Cache: Cache{
			LLMTTLHours:      defaultLLMTTLHours,
			ResearchTTLHours: defaultResearchTTLHours,
		},
		Budget: Budget{
			MaxDailyCost:   defaultMaxDailyCost,
			MaxEpisodeCost: defaultMaxEpisodeCost,
		},
		Audio: Audio{
			FFmpegBinary: defaultFFmpegBinary,
			PauseMillis:  defaultPauseMillis,
			FadeMillis:   defaultFadeMillis,
			Normalize:    true,
			IntroMusic: map[string]string{
				"english": "intro_music_english.mp3",
				"hindi":   "intro_music_hindi.mp3",
				"tamil":   "intro_music_tamil.mp3",
				"default": "intro_music.mp3",
			},
			OutroMusic: map[string]string{
				"english": "outro_music_english.mp3",
				"hindi":   "outro_music_hindi.mp3",
				"tamil":   "outro_music_tamil.mp3",
				"default": "outro_music.mp3",
			},
		},
		Research: Research{
			MaxItems:       defaultResearchMaxItems,
			TimeoutSeconds: defaultResearchTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
