package score

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/humanscore/internal/cache"
	"github.com/hyperifyio/humanscore/internal/extract"
	"github.com/hyperifyio/humanscore/internal/lexicon"
	"github.com/hyperifyio/humanscore/internal/tone"
)

// MinChars is the non-whitespace rune count below which a document is
// reported as empty.
const MinChars = 100

// Version is mixed into cache keys; bump it whenever scoring output changes.
const Version = "3"

// Cache is the optional memo store. *cache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Engine scores documents. The zero value uses the embedded lexicon, picks
// the extractor from Input.Format and has no cache. An Engine is safe for
// concurrent use.
type Engine struct {
	Lexicon   *lexicon.Lexicon
	Extractor extract.Extractor
	Cache     Cache
}

// Analyze scores HTML content with the default engine.
func Analyze(content, toneName string) Result {
	var e Engine
	return e.Analyze(context.Background(), Input{Content: content, Tone: toneName})
}

// Analyze scores one input. It never fails: degenerate input comes back as
// an empty result, and cache problems are logged and ignored.
func (e *Engine) Analyze(ctx context.Context, in Input) Result {
	lex := e.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	preset := tone.Get(in.Tone)
	ext := e.Extractor
	if ext == nil {
		ext = extract.ForFormat(in.Format)
	}

	var key string
	if e.Cache != nil {
		key = cache.KeyFrom(fmt.Sprintf("score/%s/%s/%d/%s/%s/%T", Version, lex.Locale, lex.Version, lex.Digest, preset.ID, ext), in.Content)
		if raw, ok, err := e.Cache.Get(ctx, key); err != nil {
			log.Warn().Err(err).Msg("score cache read failed")
		} else if ok {
			var res Result
			if err := json.Unmarshal(raw, &res); err == nil {
				log.Debug().Str("tone", string(preset.ID)).Msg("score cache hit")
				return res
			}
		}
	}

	res := analyze(ext, in.Content, preset, lex)
	log.Debug().Str("tone", string(preset.ID)).Int("score", res.Score).Str("grade", res.Grade).Bool("empty", res.IsEmpty).Msg("analysis complete")

	if e.Cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := e.Cache.Save(ctx, key, b); err != nil {
				log.Warn().Err(err).Msg("score cache write failed")
			}
		}
	}
	return res
}

type measure struct {
	kind   Kind
	weight int
	fn     func(view, int) Metric
}

func analyze(ext extract.Extractor, content string, preset tone.Preset, lex *lexicon.Lexicon) Result {
	text := safeExtract(ext, content)
	if nonSpaceRunes(text.Plain) < MinChars {
		return emptyResult(preset.ID, lex)
	}

	v := newView(text, lex)
	w := preset.Weights
	measures := []measure{
		{KindSentence, w.Sentence, measureSentence},
		{KindPersonal, w.Personal, measurePersonal},
		{KindPattern, w.Pattern, measurePattern},
		{KindParagraph, w.Paragraph, measureParagraph},
		{KindColloquial, w.Colloquial, measureColloquial},
		{KindInformal, w.Informal, measureInformal},
	}

	// Each goroutine owns one slot, so order does not depend on scheduling.
	metrics := make([]Metric, len(measures))
	var g errgroup.Group
	for i, ms := range measures {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Warn().Str("metric", string(ms.kind)).Interface("panic", r).Msg("measure failed; scoring as zero")
					metrics[i] = v.metric(ms.kind, ms.weight)
				}
			}()
			metrics[i] = ms.fn(v, ms.weight)
			return nil
		})
	}
	_ = g.Wait()

	return aggregate(preset.ID, metrics)
}

func safeExtract(ext extract.Extractor, content string) (t extract.Text) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("extraction failed")
			t = extract.Text{}
		}
	}()
	return ext.Extract(content)
}

func emptyResult(id tone.ID, lex *lexicon.Lexicon) Result {
	return Result{
		Score:   0,
		Grade:   "-",
		Tone:    string(id),
		Metrics: []Metric{},
		Suggestions: []Suggestion{{
			Kind:     Info,
			Text:     lex.Message("empty", MinChars),
			Priority: priorityEmpty,
		}},
		IsEmpty: true,
	}
}

func aggregate(id tone.ID, metrics []Metric) Result {
	total := 0.0
	pooled := make([]Suggestion, 0, 8)
	for _, m := range metrics {
		total += float64(m.Score)
		pooled = append(pooled, m.Suggestions...)
	}
	sort.SliceStable(pooled, func(i, j int) bool { return pooled[i].Priority > pooled[j].Priority })

	s := int(math.Round(total))
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return Result{
		Score:       s,
		Grade:       Grade(s),
		Tone:        string(id),
		Metrics:     metrics,
		Suggestions: pooled,
	}
}

// Grade maps a composite score to its letter bucket.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 55:
		return "C"
	default:
		return "D"
	}
}
