package rewrite

import (
    "context"
    "encoding/json"
    "fmt"
    "regexp"
    "strings"
    "unicode/utf8"

    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/humanscore/internal/cache"
    "github.com/hyperifyio/humanscore/internal/lexicon"
    "github.com/hyperifyio/humanscore/internal/llm"
    "github.com/hyperifyio/humanscore/internal/score"
)

// Suggestion is one concrete edit: replace Original with Revised.
type Suggestion struct {
    Original string `json:"original"`
    Revised  string `json:"revised"`
    Reason   string `json:"reason"`
    Source   string `json:"source,omitempty"` // "llm" or "lexicon"
}

// Cache is the memo store for model answers. *cache.Store satisfies it.
type Cache interface {
    Get(ctx context.Context, key string) ([]byte, bool, error)
    Save(ctx context.Context, key string, data []byte) error
}

// Rewriter turns an analysis into concrete edits, asking a model when one is
// configured and falling back to lexicon replacements otherwise.
type Rewriter struct {
    Client  llm.Completer
    Cache   Cache
    Lexicon *lexicon.Lexicon
    // SystemPrompt, when non-empty, overrides the default system message.
    SystemPrompt string
    // Max caps the number of returned suggestions; 0 means 8.
    Max int
}

const (
    defaultMax   = 8
    maxTextRunes = 6000
)

type response struct {
    Suggestions []Suggestion `json:"suggestions"`
}

// Suggest returns edits for plain, the extracted text that produced res.
// It never changes plain and only returns edits whose Original occurs in it.
func (r *Rewriter) Suggest(ctx context.Context, plain string, res score.Result) ([]Suggestion, error) {
    if res.IsEmpty || strings.TrimSpace(plain) == "" {
        return nil, nil
    }
    lex := r.Lexicon
    if lex == nil {
        lex = lexicon.Default()
    }
    limit := r.Max
    if limit <= 0 {
        limit = defaultMax
    }

    if r.Client != nil {
        sys := buildSystemMessage()
        if strings.TrimSpace(r.SystemPrompt) != "" {
            sys = r.SystemPrompt
        }
        user := buildUserMessage(plain, res, lex)
        key := cache.KeyFrom("rewrite/"+r.Client.Model(), sys+"\n\n"+user)
        if r.Cache != nil {
            if raw, ok, err := r.Cache.Get(ctx, key); err != nil {
                log.Warn().Err(err).Msg("rewrite cache read failed")
            } else if ok {
                if out := parseResponse(raw, plain); len(out) > 0 {
                    log.Debug().Int("suggestions", len(out)).Msg("rewrite cache hit")
                    return capList(out, limit), nil
                }
            }
        }
        raw, err := r.Client.Complete(ctx, sys, user)
        if err != nil {
            log.Warn().Err(err).Str("model", r.Client.Model()).Msg("rewrite request failed; using lexicon fallback")
        } else if out := parseResponse([]byte(raw), plain); len(out) > 0 {
            if r.Cache != nil {
                if b, err := json.Marshal(response{Suggestions: out}); err == nil {
                    if err := r.Cache.Save(ctx, key, b); err != nil {
                        log.Warn().Err(err).Msg("rewrite cache write failed")
                    }
                }
            }
            return capList(out, limit), nil
        } else {
            log.Warn().Str("model", r.Client.Model()).Msg("rewrite response unusable; using lexicon fallback")
        }
        if err := ctx.Err(); err != nil {
            return nil, err
        }
    }
    return capList(Fallback(plain, lex), limit), nil
}

func buildSystemMessage() string {
    return "You are a Korean copy editor who makes machine-sounding prose read as if a person wrote it. " +
        "Respond with strict JSON only: {\"suggestions\":[{\"original\":string,\"revised\":string,\"reason\":string}]}. " +
        "Each original must be copied verbatim from the text, one sentence or shorter. " +
        "Keep the meaning, write revised and reason in Korean, and return at most 8 suggestions."
}

func buildUserMessage(plain string, res score.Result, lex *lexicon.Lexicon) string {
    var sb strings.Builder
    fmt.Fprintf(&sb, "Score: %d/100 (grade %s, tone %s)\n", res.Score, res.Grade, res.Tone)
    sb.WriteString("Weakest measures:\n")
    for _, m := range res.Metrics {
        if m.MaxScore > 0 && float64(m.Score)/float64(m.MaxScore) < 0.6 {
            fmt.Fprintf(&sb, "- %s: %d/%d\n", m.Label, m.Score, m.MaxScore)
        }
    }
    if _, found := lex.StockHits(plain); len(found) > 0 {
        sb.WriteString("Stock phrases to replace: ")
        sb.WriteString(strings.Join(found, ", "))
        sb.WriteString("\n")
    }
    sb.WriteString("Text:\n\n")
    sb.WriteString(truncateRunes(plain, maxTextRunes))
    return sb.String()
}

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

func parseResponse(raw []byte, plain string) []Suggestion {
    s := strings.TrimSpace(string(raw))
    if m := fenceRe.FindStringSubmatch(s); m != nil {
        s = m[1]
    }
    var resp response
    if err := json.Unmarshal([]byte(s), &resp); err != nil {
        return nil
    }
    out := make([]Suggestion, 0, len(resp.Suggestions))
    seen := map[string]bool{}
    for _, sg := range resp.Suggestions {
        sg.Original = strings.TrimSpace(sg.Original)
        sg.Revised = strings.TrimSpace(sg.Revised)
        sg.Reason = strings.TrimSpace(sg.Reason)
        if sg.Original == "" || sg.Revised == "" || sg.Original == sg.Revised {
            continue
        }
        if !strings.Contains(plain, sg.Original) || seen[sg.Original] {
            continue
        }
        seen[sg.Original] = true
        sg.Source = "llm"
        out = append(out, sg)
    }
    return out
}

func capList(s []Suggestion, n int) []Suggestion {
    if len(s) > n {
        return s[:n]
    }
    return s
}

func truncateRunes(s string, n int) string {
    if utf8.RuneCountInString(s) <= n {
        return s
    }
    r := []rune(s)
    return string(r[:n])
}
