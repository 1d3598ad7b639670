package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/humanscore/internal/app"
)

// options holds raw flag values. Only flags the user actually set are
// applied on top of file and env configuration.
type options struct {
	configPath string
	envFiles   []string
	verbose    bool

	tone     string
	format   string
	lexicon  string
	top      int
	exclude  []string
	jsonOut  bool
	out      string
	pdf      string
	pdfFont  string
	provider string
	llmBase  string
	llmModel string
	llmKey   string
	rewriteN int

	cacheDir        string
	cacheMaxAge     time.Duration
	cacheMaxEntries int
	cacheClear      bool
	cacheStrict     bool
	cacheCompress   bool
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:   "humanscore",
		Short: "Score how human-written a Korean text reads",
		Long: "humanscore analyzes Korean prose with six heuristic measures and reports a 0-100 score,\n" +
			"a letter grade and ranked suggestions. Rewrites can be requested from an OpenAI-compatible\n" +
			"or Anthropic model, with an offline lexicon fallback.",
		SilenceUsage: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Config file (YAML, JSON or TOML)")
	pf.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "Dotenv files to load before reading the environment")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose logging")
	pf.StringVar(&o.tone, "tone", app.DefaultTone, "Tone preset: default, casual, professional, academic, sns")
	pf.StringVar(&o.format, "format", app.DefaultFormat, "Input format: auto, html, markdown, text")
	pf.StringVar(&o.lexicon, "lexicon", "", "Custom lexicon YAML (defaults to the built-in Korean lexicon)")
	pf.IntVar(&o.top, "top", app.DefaultTop, "Number of suggestions to show (0 shows all)")
	pf.StringVar(&o.provider, "provider", app.ProviderNone, "Rewrite provider: none, openai, anthropic")
	pf.StringVar(&o.llmBase, "llm.base", "", "Base URL of the rewrite model API")
	pf.StringVar(&o.llmModel, "llm.model", "", "Rewrite model name")
	pf.StringVar(&o.llmKey, "llm.key", "", "Rewrite API key")
	pf.StringVar(&o.cacheDir, "cache.dir", app.DefaultCacheDir, "Cache directory path (empty disables caching)")
	pf.DurationVar(&o.cacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this (e.g. 72h); 0 disables")
	pf.IntVar(&o.cacheMaxEntries, "cache.maxEntries", 0, "Keep at most this many cache entries; 0 disables")
	pf.BoolVar(&o.cacheClear, "cache.clear", false, "Clear the cache directory before running")
	pf.BoolVar(&o.cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	pf.BoolVar(&o.cacheCompress, "cache.compress", false, "Store cache entries zstd-compressed")

	root.AddCommand(
		newAnalyzeCmd(&o),
		newWatchCmd(&o),
		newRewriteCmd(&o),
		newTonesCmd(),
	)
	return root
}

// addOutputFlags registers the report flags shared by analyze and rewrite.
func addOutputFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.BoolVar(&o.jsonOut, "json", false, "Print JSON instead of the terminal summary")
	f.StringVar(&o.out, "out", "", "Also write a Markdown report to this path")
	f.StringVar(&o.pdf, "pdf", "", "Also write a PDF report to this path")
	f.StringVar(&o.pdfFont, "pdf.font", "", "UTF-8 TrueType font for the PDF (needed for Hangul)")
}

// resolveConfig layers defaults, config file, env and explicitly set flags,
// in that order, then sets the log level.
func resolveConfig(cmd *cobra.Command, o *options) (app.Config, error) {
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := app.DefaultConfig()
	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config: %w", err)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return app.Config{}, err
		}
	}
	app.ApplyEnvOverrides(&cfg)

	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setString("tone", &cfg.Tone, o.tone)
	setString("format", &cfg.Format, o.format)
	setString("lexicon", &cfg.LexiconPath, o.lexicon)
	setString("provider", &cfg.Provider, o.provider)
	setString("llm.base", &cfg.LLMBaseURL, o.llmBase)
	setString("llm.model", &cfg.LLMModel, o.llmModel)
	setString("llm.key", &cfg.LLMAPIKey, o.llmKey)
	setString("cache.dir", &cfg.CacheDir, o.cacheDir)
	if changed("max") {
		cfg.RewriteMax = o.rewriteN
	}
	setString("out", &cfg.OutputPath, o.out)
	setString("pdf", &cfg.PDFPath, o.pdf)
	setString("pdf.font", &cfg.PDFFont, o.pdfFont)
	if changed("top") {
		cfg.Top = o.top
	}
	if changed("exclude") {
		cfg.Exclude = o.exclude
	}
	if changed("json") {
		cfg.JSON = o.jsonOut
	}
	if changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if changed("cache.maxAge") {
		cfg.CacheMaxAge = o.cacheMaxAge
	}
	if changed("cache.maxEntries") {
		cfg.CacheMaxEntries = o.cacheMaxEntries
	}
	if changed("cache.clear") {
		cfg.CacheClear = o.cacheClear
	}
	if changed("cache.strictPerms") {
		cfg.CacheStrictPerms = o.cacheStrict
	}
	if changed("cache.compress") {
		cfg.CacheCompress = o.cacheCompress
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return cfg, app.ValidateConfig(cfg)
}

// withApp resolves configuration, builds the App and closes it afterwards.
func withApp(cmd *cobra.Command, o *options, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	return fn(ctx, a)
}
