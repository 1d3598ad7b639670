package extract

import (
    "regexp"
    "strings"
    "unicode/utf8"

    "golang.org/x/net/html"
)

// Text holds the three views the scorer reads from an editor document.
type Text struct {
    // Plain is the full text with markup removed and block boundaries
    // turned into newlines.
    Plain string
    // Paragraphs are the non-empty block texts in document order.
    Paragraphs []string
    // Sentences are split per paragraph; fragments of MinSentenceRunes or
    // fewer runes are dropped.
    Sentences []string
}

// MinSentenceRunes is the noise cutoff: fragments with this many runes or
// fewer never count as sentences.
const MinSentenceRunes = 5

var sentenceBreak = regexp.MustCompile(`[.!?…]+`)

// FromHTML extracts plain text, paragraphs and sentences from an HTML
// fragment. It never panics; input the parser cannot handle degrades to a
// tag-stripped plain string with no paragraphs or sentences.
func FromHTML(input string) (out Text) {
    defer func() {
        if r := recover(); r != nil {
            out = Text{Plain: stripTags(input)}
        }
    }()

    node, err := html.Parse(strings.NewReader(input))
    if err != nil || node == nil {
        return Text{Plain: stripTags(input)}
    }
    root := findFirst(node, "body")
    if root == nil {
        root = node
    }

    var b strings.Builder
    collectText(&b, root)
    paragraphs := collectParagraphs(root)
    return Text{
        Plain:      normalizeWhitespace(b.String()),
        Paragraphs: paragraphs,
        Sentences:  SplitSentences(paragraphs),
    }
}

// SplitSentences splits each paragraph on runs of terminal punctuation.
// A paragraph without terminal punctuation is a single sentence.
func SplitSentences(paragraphs []string) []string {
    out := make([]string, 0, len(paragraphs)*2)
    for _, p := range paragraphs {
        for _, piece := range sentenceBreak.Split(p, -1) {
            s := strings.TrimSpace(piece)
            if utf8.RuneCountInString(s) <= MinSentenceRunes {
                continue
            }
            out = append(out, s)
        }
    }
    return out
}

func findFirst(n *html.Node, tag string) *html.Node {
    if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
        return n
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        if res := findFirst(c, tag); res != nil {
            return res
        }
    }
    return nil
}

func collectText(b *strings.Builder, n *html.Node) {
    if n.Type == html.ElementNode {
        name := strings.ToLower(n.Data)
        if skipped(name) {
            return
        }
        if name == "br" || isBlock(name) {
            b.WriteString("\n")
        }
    }
    if n.Type == html.TextNode {
        b.WriteString(n.Data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        collectText(b, c)
    }
    if n.Type == html.ElementNode && isBlock(strings.ToLower(n.Data)) {
        b.WriteString("\n")
    }
}

// collectParagraphs walks block containers. A block with no nested blocks is
// one paragraph; inline runs sitting loose inside a container (plain-text
// input lands here) are split on newlines.
func collectParagraphs(root *html.Node) []string {
    var out []string
    var loose strings.Builder
    flush := func() {
        for _, line := range strings.Split(loose.String(), "\n") {
            if s := strings.TrimSpace(line); s != "" {
                out = append(out, s)
            }
        }
        loose.Reset()
    }

    var walk func(n *html.Node)
    walk = func(n *html.Node) {
        for c := n.FirstChild; c != nil; c = c.NextSibling {
            if c.Type == html.ElementNode {
                name := strings.ToLower(c.Data)
                if skipped(name) {
                    continue
                }
                if isBlock(name) {
                    flush()
                    if hasBlockDescendant(c) {
                        walk(c)
                        flush()
                        continue
                    }
                    var b strings.Builder
                    inlineText(&b, c)
                    if s := strings.TrimSpace(b.String()); s != "" {
                        out = append(out, s)
                    }
                    continue
                }
            }
            inlineText(&loose, c)
        }
    }
    walk(root)
    flush()
    return out
}

func inlineText(b *strings.Builder, n *html.Node) {
    switch n.Type {
    case html.TextNode:
        b.WriteString(n.Data)
        return
    case html.ElementNode:
        name := strings.ToLower(n.Data)
        if skipped(name) {
            return
        }
        if name == "br" {
            b.WriteString("\n")
            return
        }
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        inlineText(b, c)
    }
}

func hasBlockDescendant(n *html.Node) bool {
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        if c.Type != html.ElementNode {
            continue
        }
        name := strings.ToLower(c.Data)
        if skipped(name) {
            continue
        }
        if isBlock(name) || hasBlockDescendant(c) {
            return true
        }
    }
    return false
}

func isBlock(name string) bool {
    switch name {
    case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote", "pre",
        "div", "section", "article", "main", "header", "aside",
        "ul", "ol", "dl", "dt", "dd", "table", "tr", "td", "th",
        "figure", "figcaption", "hr":
        return true
    }
    return false
}

// skipped reports elements whose contents never count as prose: scripts and
// embedded media. A paragraph holding only media therefore comes out empty.
func skipped(name string) bool {
    switch name {
    case "script", "style", "noscript", "template", "head",
        "img", "video", "audio", "iframe", "picture", "svg", "canvas",
        "embed", "object", "source", "track":
        return true
    }
    return false
}

// stripTags is the last-resort path when parsing fails.
func stripTags(s string) string {
    var b strings.Builder
    inTag := false
    for _, r := range s {
        switch {
        case r == '<':
            inTag = true
            b.WriteByte(' ')
        case r == '>' && inTag:
            inTag = false
        case !inTag:
            b.WriteRune(r)
        }
    }
    return normalizeWhitespace(b.String())
}

func normalizeWhitespace(s string) string {
    // Collapse multiple spaces and blank lines
    lines := strings.Split(s, "\n")
    out := make([]string, 0, len(lines))
    for _, line := range lines {
        trimmed := strings.TrimSpace(line)
        if trimmed == "" {
            if len(out) > 0 && out[len(out)-1] == "" {
                continue
            }
            out = append(out, "")
            continue
        }
        out = append(out, collapseSpaces(trimmed))
    }
    for len(out) > 0 && out[0] == "" {
        out = out[1:]
    }
    for len(out) > 0 && out[len(out)-1] == "" {
        out = out[:len(out)-1]
    }
    return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
    var b strings.Builder
    lastSpace := false
    for _, r := range s {
        if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
            if !lastSpace {
                b.WriteByte(' ')
                lastSpace = true
            }
            continue
        }
        b.WriteRune(r)
        lastSpace = false
    }
    return b.String()
}
