// Package lexicon holds the locale-specific pattern tables the scorer
// matches against. Tables are data: swapping the YAML file swaps the
// language without touching measurement code.
package lexicon

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"
)

//go:embed ko.yaml
var defaultYAML []byte

// StockPhrase is a stock expression and its plainer replacement.
type StockPhrase struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Plain  string `yaml:"plain" json:"plain"`
}

// File is the on-disk schema.
type File struct {
	Locale           string            `yaml:"locale"`
	Version          int               `yaml:"version"`
	Labels           map[string]string `yaml:"labels"`
	StockPhrases     []StockPhrase     `yaml:"stock_phrases"`
	PersonalPatterns []string          `yaml:"personal_patterns"`
	Colloquial       []string          `yaml:"colloquial"`
	Informal         map[string]string `yaml:"informal"`
	Messages         map[string]string `yaml:"messages"`
}

// Lexicon is a validated, compiled File. It is read-only after Parse.
type Lexicon struct {
	Locale       language.Tag
	Version      int
	// Digest identifies the table contents; edited copies that keep the
	// locale and version still get a different digest.
	Digest       string
	StockPhrases []StockPhrase
	Colloquial   []string

	labels   map[string]string
	messages map[string]string
	personal []*regexp.Regexp
	informal []*regexp.Regexp
}

// Keys every lexicon must define.
var (
	LabelKeys    = []string{"sentence", "personal", "pattern", "paragraph", "colloquial", "informal"}
	InformalKeys = []string{"emoji", "laughter", "tilde", "exclaim", "ellipsis"}
	MessageKeys  = []string{
		"empty",
		"sentence_uniform", "sentence_low",
		"personal_missing", "personal_low",
		"pattern_high", "pattern_some",
		"paragraph_uniform",
		"colloquial_missing", "colloquial_low",
		"informal_low",
	}
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid lexicon")

// Parse decodes and validates a YAML lexicon.
func Parse(data []byte) (*Lexicon, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return Compile(f)
}

// Load reads a lexicon file from disk.
func Load(path string) (*Lexicon, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lex, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// Compile validates f and compiles its patterns.
func Compile(f File) (*Lexicon, error) {
	tag, err := language.Parse(strings.TrimSpace(f.Locale))
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %v", ErrInvalid, f.Locale, err)
	}
	if len(f.StockPhrases) == 0 || len(f.PersonalPatterns) == 0 || len(f.Colloquial) == 0 {
		return nil, fmt.Errorf("%w: stock_phrases, personal_patterns and colloquial must be non-empty", ErrInvalid)
	}
	for _, k := range LabelKeys {
		if strings.TrimSpace(f.Labels[k]) == "" {
			return nil, fmt.Errorf("%w: missing label %q", ErrInvalid, k)
		}
	}
	for _, k := range MessageKeys {
		if strings.TrimSpace(f.Messages[k]) == "" {
			return nil, fmt.Errorf("%w: missing message %q", ErrInvalid, k)
		}
	}
	for _, p := range f.StockPhrases {
		if p.Phrase == "" {
			return nil, fmt.Errorf("%w: empty stock phrase", ErrInvalid)
		}
	}

	canon, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	sum := sha256.Sum256(canon)

	lex := &Lexicon{
		Locale:       tag,
		Version:      f.Version,
		Digest:       hex.EncodeToString(sum[:]),
		StockPhrases: f.StockPhrases,
		Colloquial:   f.Colloquial,
		labels:       f.Labels,
		messages:     f.Messages,
	}
	for _, expr := range f.PersonalPatterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: personal pattern %q: %v", ErrInvalid, expr, err)
		}
		lex.personal = append(lex.personal, re)
	}
	for _, k := range InformalKeys {
		expr := f.Informal[k]
		if expr == "" {
			return nil, fmt.Errorf("%w: missing informal pattern %q", ErrInvalid, k)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: informal pattern %q: %v", ErrInvalid, k, err)
		}
		lex.informal = append(lex.informal, re)
	}
	return lex, nil
}

var loadDefault = sync.OnceValue(func() *Lexicon {
	lex, err := Parse(defaultYAML)
	if err != nil {
		panic("embedded lexicon: " + err.Error())
	}
	return lex
})

// Default returns the embedded Korean lexicon.
func Default() *Lexicon { return loadDefault() }

// Label returns the display name of a metric kind.
func (l *Lexicon) Label(kind string) string {
	if s, ok := l.labels[kind]; ok {
		return s
	}
	return kind
}

// Message formats the suggestion template stored under key.
func (l *Lexicon) Message(key string, args ...any) string {
	tmpl, ok := l.messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// CountPersonal sums matches of every personal-voice pattern.
func (l *Lexicon) CountPersonal(text string) int {
	return countRegexps(l.personal, text)
}

// CountInformal sums matches of every paralinguistic pattern.
func (l *Lexicon) CountInformal(text string) int {
	return countRegexps(l.informal, text)
}

// CountColloquial sums literal occurrences of the colloquial lexemes.
func (l *Lexicon) CountColloquial(text string) int {
	n := 0
	for _, w := range l.Colloquial {
		if w != "" {
			n += strings.Count(text, w)
		}
	}
	return n
}

// StockHits returns literal occurrence counts of the stock phrases and the
// phrases that matched, in table order.
func (l *Lexicon) StockHits(text string) (int, []string) {
	total := 0
	var found []string
	for _, p := range l.StockPhrases {
		n := strings.Count(text, p.Phrase)
		if n == 0 {
			continue
		}
		total += n
		found = append(found, p.Phrase)
	}
	return total, found
}

func countRegexps(res []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range res {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}
