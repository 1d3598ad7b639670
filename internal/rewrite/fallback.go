package rewrite

import (
    "fmt"
    "sort"
    "strings"

    "github.com/hyperifyio/humanscore/internal/lexicon"
)

// Fallback rewrites every sentence that contains a stock phrase, swapping
// the phrase for its plainer form (or dropping it when none is listed).
// Sentences come back in text order, each at most once.
func Fallback(plain string, lex *lexicon.Lexicon) []Suggestion {
    var out []Suggestion
    index := map[string]int{}
    applied := map[[2]string]bool{}
    for _, sp := range lex.StockPhrases {
        from := 0
        for {
            i := strings.Index(plain[from:], sp.Phrase)
            if i < 0 {
                break
            }
            start, end := sentenceAround(plain, from+i, from+i+len(sp.Phrase))
            from = end
            original := strings.TrimSpace(plain[start:end])
            if original == "" {
                continue
            }
            if applied[[2]string{original, sp.Phrase}] {
                continue
            }
            applied[[2]string{original, sp.Phrase}] = true
            reason := fmt.Sprintf("'%s'는 기계적으로 들리는 상투 표현입니다.", sp.Phrase)
            if k, ok := index[original]; ok {
                out[k].Revised = replacePhrase(out[k].Revised, sp)
                out[k].Reason += " " + reason
                continue
            }
            index[original] = len(out)
            out = append(out, Suggestion{
                Original: original,
                Revised:  replacePhrase(original, sp),
                Reason:   reason,
                Source:   "lexicon",
            })
        }
    }
    // Phrases are matched table-first; present them in reading order.
    sortByPosition(out, plain)
    kept := out[:0]
    for _, s := range out {
        if s.Revised != "" && s.Revised != s.Original {
            kept = append(kept, s)
        }
    }
    return kept
}

func replacePhrase(s string, sp lexicon.StockPhrase) string {
    s = strings.ReplaceAll(s, sp.Phrase, sp.Plain)
    return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// sentenceAround widens [start,end) to the enclosing sentence: back to the
// previous terminator or newline, forward through the next terminator run.
func sentenceAround(s string, start, end int) (int, int) {
    for start > 0 {
        c := s[start-1]
        if c == '.' || c == '!' || c == '?' || c == '\n' {
            break
        }
        start--
    }
    for end < len(s) && !isTerminator(s[end]) && s[end] != '\n' {
        end++
    }
    for end < len(s) && isTerminator(s[end]) {
        end++
    }
    return start, end
}

func isTerminator(c byte) bool { return c == '.' || c == '!' || c == '?' }

func sortByPosition(list []Suggestion, plain string) {
    sort.SliceStable(list, func(i, j int) bool {
        return strings.Index(plain, list[i].Original) < strings.Index(plain, list[j].Original)
    })
}
