package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// Analysis
	Tone        string
	Format      string // auto, html, markdown or text
	LexiconPath string
	Top         int
	Exclude     []string

	// Output
	OutputPath string // Markdown report
	PDFPath    string
	PDFFont    string
	JSON       bool

	// Rewrite provider
	Provider     string // none, openai or anthropic
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	SystemPrompt string
	RewriteMax   int // cap on rewrite suggestions; 0 means the rewriter default

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool
	CacheCompress    bool

	WatchDebounce time.Duration
	Verbose       bool
}

// Defaults used when neither flags, env nor a config file set a value.
const (
	DefaultTone          = "default"
	DefaultFormat        = "auto"
	DefaultTop           = 5
	DefaultCacheDir      = ".humanscore-cache"
	DefaultWatchDebounce = 300 * time.Millisecond
)

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Tone:          DefaultTone,
		Format:        DefaultFormat,
		Top:           DefaultTop,
		Provider:      ProviderNone,
		CacheDir:      DefaultCacheDir,
		WatchDebounce: DefaultWatchDebounce,
	}
}

// Rewrite providers.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)
