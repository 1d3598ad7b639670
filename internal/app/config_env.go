package app

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog/log"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when
// they are set. It runs after the config file and before explicit flags, so
// env beats the file and flags beat env.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := os.Getenv("HUMANSCORE_TONE"); v != "" { cfg.Tone = v }
    if v := os.Getenv("HUMANSCORE_FORMAT"); v != "" { cfg.Format = v }
    if v := os.Getenv("HUMANSCORE_LEXICON"); v != "" { cfg.LexiconPath = v }
    if v := os.Getenv("HUMANSCORE_PDF_FONT"); v != "" { cfg.PDFFont = v }
    if v := os.Getenv("HUMANSCORE_CACHE_DIR"); v != "" { cfg.CacheDir = v }
    if v := strings.TrimSpace(os.Getenv("HUMANSCORE_TOP")); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n >= 0 {
            cfg.Top = n
        }
    }

    if v := strings.TrimSpace(os.Getenv("HUMANSCORE_REWRITE_MAX")); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n >= 0 {
            cfg.RewriteMax = n
        }
    }
    if v := os.Getenv("HUMANSCORE_PROVIDER"); v != "" { cfg.Provider = v }
    if v := os.Getenv("LLM_BASE_URL"); v != "" { cfg.LLMBaseURL = v }
    if v := os.Getenv("LLM_MODEL"); v != "" { cfg.LLMModel = v }
    if v := os.Getenv("LLM_API_KEY"); v != "" { cfg.LLMAPIKey = v }

    setDuration := func(dst *time.Duration, envKey string) {
        if s := os.Getenv(envKey); s != "" {
            if d, err := time.ParseDuration(s); err == nil {
                *dst = d
            } else {
                log.Warn().Str("env", envKey).Str("value", s).Msg("ignoring invalid duration")
            }
        }
    }
    setDuration(&cfg.CacheMaxAge, "HUMANSCORE_CACHE_MAX_AGE")
    setDuration(&cfg.WatchDebounce, "HUMANSCORE_WATCH_DEBOUNCE")

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.Verbose, "HUMANSCORE_VERBOSE")
    setBool(&cfg.JSON, "HUMANSCORE_JSON")
    setBool(&cfg.CacheClear, "HUMANSCORE_CACHE_CLEAR")
    setBool(&cfg.CacheStrictPerms, "HUMANSCORE_CACHE_STRICT_PERMS")
    setBool(&cfg.CacheCompress, "HUMANSCORE_CACHE_COMPRESS")
}

// providerKey returns the API key for the configured provider. The
// anthropic provider falls back to ANTHROPIC_API_KEY when no key was given.
func providerKey(cfg Config) string {
    if k := strings.TrimSpace(cfg.LLMAPIKey); k != "" {
        return k
    }
    if strings.EqualFold(strings.TrimSpace(cfg.Provider), ProviderAnthropic) {
        return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
    }
    return ""
}
