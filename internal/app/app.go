package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/humanscore/internal/cache"
	"github.com/hyperifyio/humanscore/internal/extract"
	"github.com/hyperifyio/humanscore/internal/fetch"
	"github.com/hyperifyio/humanscore/internal/lexicon"
	"github.com/hyperifyio/humanscore/internal/llm"
	"github.com/hyperifyio/humanscore/internal/report"
	"github.com/hyperifyio/humanscore/internal/rewrite"
	"github.com/hyperifyio/humanscore/internal/score"
	"github.com/hyperifyio/humanscore/internal/tone"
)

// App wires configuration to the scorer, the rewrite client and the cache.
type App struct {
	cfg      Config
	lex      *lexicon.Lexicon
	store    *cache.Store
	engine   *score.Engine
	rewriter *rewrite.Rewriter
	fetcher  *fetch.Client
}

const fetchTimeout = 30 * time.Second

// New validates cfg and prepares the cache and the optional rewrite provider.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(cfg.Tone); t != "" && !tone.Known(t) {
		log.Warn().Str("tone", t).Msg("unknown tone; using default preset")
	}

	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		l, err := lexicon.Load(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		lex = l
	}

	a := &App{cfg: cfg, lex: lex}
	a.engine = &score.Engine{Lexicon: lex}
	a.rewriter = &rewrite.Rewriter{Lexicon: lex, SystemPrompt: cfg.SystemPrompt, Max: cfg.RewriteMax}
	a.fetcher = &fetch.Client{
		UserAgent:         "humanscore/" + BuildVersion,
		MaxAttempts:       3,
		PerRequestTimeout: fetchTimeout,
	}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("path", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		a.store = &cache.Store{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms, Compress: cfg.CacheCompress}
		a.engine.Cache = a.store
		a.rewriter.Cache = a.store
		a.fetcher.Cache = a.store
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI:
		a.rewriter.Client = llm.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, newLLMHTTPClient(0))
	case ProviderAnthropic:
		a.rewriter.Client = llm.NewAnthropic(cfg.LLMBaseURL, providerKey(cfg), cfg.LLMModel, newLLMHTTPClient(0))
	}
	if a.rewriter.Client != nil {
		log.Debug().Str("model", a.rewriter.Client.Model()).Msg("rewrite provider configured")
	}
	return a, nil
}

// Close applies cache size limits.
func (a *App) Close() {
	if a.store == nil || a.cfg.CacheMaxEntries <= 0 {
		return
	}
	if n, err := cache.EnforceLimits(a.store.Dir, 0, a.cfg.CacheMaxEntries); err != nil {
		log.Warn().Err(err).Msg("cache limit enforcement failed")
	} else if n > 0 {
		log.Debug().Int("evicted", n).Msg("evicted cache entries")
	}
}

// formatFor resolves the input format for a path; "auto" looks at the
// extension and stdin defaults to HTML.
func (a *App) formatFor(path string) string {
	f := strings.ToLower(strings.TrimSpace(a.cfg.Format))
	if f == "" || f == DefaultFormat {
		return extract.DetectFormat(path)
	}
	return f
}

// Analyze scores one document.
func (a *App) Analyze(ctx context.Context, path, content string) report.Document {
	return a.analyzeAs(ctx, path, content, a.formatFor(path))
}

func (a *App) analyzeAs(ctx context.Context, path, content, format string) report.Document {
	res := a.engine.Analyze(ctx, score.Input{Content: content, Tone: a.cfg.Tone, Format: format})
	log.Debug().Str("path", path).Str("format", format).Int("score", res.Score).Str("grade", res.Grade).Msg("analyzed")
	return report.Document{Path: path, Result: res}
}

// Load reads target, a file path or an http(s) URL, and returns its
// content and the extractor format to use. For URLs "auto" follows the
// response content type.
func (a *App) Load(ctx context.Context, target string) (content, format string, err error) {
	if fetch.IsURL(target) {
		page, err := a.fetcher.Get(ctx, target)
		if err != nil {
			return "", "", fmt.Errorf("fetch %s: %w", target, err)
		}
		format = page.Format
		if f := strings.ToLower(strings.TrimSpace(a.cfg.Format)); f != "" && f != DefaultFormat {
			format = f
		}
		return page.Body, format, nil
	}
	b, err := os.ReadFile(target)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", target, err)
	}
	return string(b), a.formatFor(target), nil
}

// AnalyzeReader scores everything read from r, typically stdin.
func (a *App) AnalyzeReader(ctx context.Context, name string, r io.Reader) (report.Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return report.Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	return a.Analyze(ctx, name, string(b)), nil
}

// AnalyzeFiles expands patterns and scores the files in parallel. Arguments
// that are http(s) URLs are fetched instead of globbed. Results keep the
// sorted discovery order, followed by URLs in argument order.
func (a *App) AnalyzeFiles(ctx context.Context, patterns []string) ([]report.Document, error) {
	var globs, targets []string
	for _, p := range patterns {
		if fetch.IsURL(p) {
			targets = append(targets, p)
		} else {
			globs = append(globs, p)
		}
	}
	if len(globs) > 0 {
		paths, err := Discover(globs, a.cfg.Exclude)
		if err != nil {
			return nil, err
		}
		targets = append(paths, targets...)
	}
	docs := make([]report.Document, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range targets {
		g.Go(func() error {
			content, format, err := a.Load(gctx, p)
			if err != nil {
				return err
			}
			docs[i] = a.analyzeAs(gctx, p, content, format)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Rewrite scores one document and attaches rewrite suggestions.
func (a *App) Rewrite(ctx context.Context, path, content string) (report.Document, error) {
	return a.rewriteAs(ctx, path, content, a.formatFor(path))
}

// RewriteTarget loads a file or URL and rewrites it.
func (a *App) RewriteTarget(ctx context.Context, target string) (report.Document, error) {
	content, format, err := a.Load(ctx, target)
	if err != nil {
		return report.Document{}, err
	}
	return a.rewriteAs(ctx, target, content, format)
}

func (a *App) rewriteAs(ctx context.Context, path, content, format string) (report.Document, error) {
	doc := a.analyzeAs(ctx, path, content, format)
	plain := extract.ForFormat(format).Extract(content).Plain
	list, err := a.rewriter.Suggest(ctx, plain, doc.Result)
	if err != nil {
		return doc, err
	}
	doc.Rewrites = list
	return doc, nil
}

// WriteOutputs writes the Markdown and PDF reports requested by the config.
func (a *App) WriteOutputs(docs []report.Document) error {
	if a.cfg.OutputPath == "" && a.cfg.PDFPath == "" {
		return nil
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, report.Markdown(d.Result, report.Options{Source: d.Path, Top: a.cfg.Top, Rewrites: d.Rewrites}))
	}
	md := strings.Join(parts, "\n---\n\n")
	if a.cfg.OutputPath != "" {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote report")
	}
	if a.cfg.PDFPath != "" {
		if err := report.WritePDF(md, a.cfg.PDFPath, a.cfg.PDFFont); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.PDFPath).Msg("wrote pdf report")
	}
	return nil
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }
