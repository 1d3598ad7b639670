package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/BurntSushi/toml"
    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Durations are
// written as Go duration strings ("24h", "250ms").
type FileConfig struct {
    Tone    string   `yaml:"tone" json:"tone" toml:"tone"`
    Format  string   `yaml:"format" json:"format" toml:"format"`
    Lexicon string   `yaml:"lexicon" json:"lexicon" toml:"lexicon"`
    Top     int      `yaml:"top" json:"top" toml:"top"`
    Exclude []string `yaml:"exclude" json:"exclude" toml:"exclude"`
    Verbose bool     `yaml:"verbose" json:"verbose" toml:"verbose"`

    Output struct {
        Markdown string `yaml:"markdown" json:"markdown" toml:"markdown"`
        PDF      string `yaml:"pdf" json:"pdf" toml:"pdf"`
        PDFFont  string `yaml:"pdfFont" json:"pdfFont" toml:"pdfFont"`
        JSON     bool   `yaml:"json" json:"json" toml:"json"`
    } `yaml:"output" json:"output" toml:"output"`

    Rewrite struct {
        Provider     string `yaml:"provider" json:"provider" toml:"provider"`
        BaseURL      string `yaml:"base" json:"base" toml:"base"`
        Model        string `yaml:"model" json:"model" toml:"model"`
        APIKey       string `yaml:"key" json:"key" toml:"key"`
        SystemPrompt string `yaml:"systemPrompt" json:"systemPrompt" toml:"systemPrompt"`
        Max          int    `yaml:"max" json:"max" toml:"max"`
    } `yaml:"rewrite" json:"rewrite" toml:"rewrite"`

    Cache struct {
        Dir         string `yaml:"dir" json:"dir" toml:"dir"`
        MaxAge      string `yaml:"maxAge" json:"maxAge" toml:"maxAge"`
        MaxEntries  int    `yaml:"maxEntries" json:"maxEntries" toml:"maxEntries"`
        Clear       bool   `yaml:"clear" json:"clear" toml:"clear"`
        StrictPerms bool   `yaml:"strictPerms" json:"strictPerms" toml:"strictPerms"`
        Compress    bool   `yaml:"compress" json:"compress" toml:"compress"`
    } `yaml:"cache" json:"cache" toml:"cache"`

    Watch struct {
        Debounce string `yaml:"debounce" json:"debounce" toml:"debounce"`
    } `yaml:"watch" json:"watch" toml:"watch"`
}

// LoadConfigFile reads YAML, JSON or TOML into FileConfig, chosen by extension.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := strings.ToLower(filepath.Ext(path)); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    case ".toml":
        if _, err := toml.Decode(string(b), &fc); err != nil {
            return fc, fmt.Errorf("parse toml: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. Call it on
// defaults, before env and flags are applied.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
    if cfg == nil {
        return nil
    }
    setString := func(dst *string, v string) {
        if strings.TrimSpace(v) != "" {
            *dst = v
        }
    }
    setString(&cfg.Tone, fc.Tone)
    setString(&cfg.Format, fc.Format)
    setString(&cfg.LexiconPath, fc.Lexicon)
    if fc.Top > 0 {
        cfg.Top = fc.Top
    }
    if len(fc.Exclude) > 0 {
        cfg.Exclude = append([]string{}, fc.Exclude...)
    }
    if fc.Verbose {
        cfg.Verbose = true
    }

    setString(&cfg.OutputPath, fc.Output.Markdown)
    setString(&cfg.PDFPath, fc.Output.PDF)
    setString(&cfg.PDFFont, fc.Output.PDFFont)
    if fc.Output.JSON {
        cfg.JSON = true
    }

    setString(&cfg.Provider, fc.Rewrite.Provider)
    setString(&cfg.LLMBaseURL, fc.Rewrite.BaseURL)
    setString(&cfg.LLMModel, fc.Rewrite.Model)
    setString(&cfg.LLMAPIKey, fc.Rewrite.APIKey)
    setString(&cfg.SystemPrompt, fc.Rewrite.SystemPrompt)
    if fc.Rewrite.Max > 0 {
        cfg.RewriteMax = fc.Rewrite.Max
    }

    setString(&cfg.CacheDir, fc.Cache.Dir)
    if fc.Cache.MaxAge != "" {
        d, err := time.ParseDuration(fc.Cache.MaxAge)
        if err != nil {
            return fmt.Errorf("config: cache.maxAge: %w", err)
        }
        cfg.CacheMaxAge = d
    }
    if fc.Cache.MaxEntries > 0 {
        cfg.CacheMaxEntries = fc.Cache.MaxEntries
    }
    if fc.Cache.Clear {
        cfg.CacheClear = true
    }
    if fc.Cache.StrictPerms {
        cfg.CacheStrictPerms = true
    }
    if fc.Cache.Compress {
        cfg.CacheCompress = true
    }
    if fc.Watch.Debounce != "" {
        d, err := time.ParseDuration(fc.Watch.Debounce)
        if err != nil {
            return fmt.Errorf("config: watch.debounce: %w", err)
        }
        cfg.WatchDebounce = d
    }
    return nil
}

// ValidateConfig rejects settings the application cannot act on. Unknown
// tones are not an error; the scorer falls back to the default preset.
func ValidateConfig(cfg Config) error {
    switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
    case "", "auto", "html", "markdown", "md", "text", "plain", "txt":
    default:
        return fmt.Errorf("config: unknown format %q", cfg.Format)
    }
    switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
    case "", ProviderNone:
    case ProviderOpenAI:
        if strings.TrimSpace(cfg.LLMModel) == "" {
            return errors.New("config: rewrite.model is required for the openai provider (or set LLM_MODEL)")
        }
    case ProviderAnthropic:
        if providerKey(cfg) == "" {
            return errors.New("config: rewrite.key is required for the anthropic provider (or set ANTHROPIC_API_KEY)")
        }
    default:
        return fmt.Errorf("config: unknown rewrite provider %q", cfg.Provider)
    }
    if cfg.Top < 0 || cfg.RewriteMax < 0 || cfg.CacheMaxEntries < 0 || cfg.CacheMaxAge < 0 || cfg.WatchDebounce < 0 {
        return errors.New("config: negative limits are not allowed")
    }
    return nil
}
