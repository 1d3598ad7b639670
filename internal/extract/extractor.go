package extract

import (
    "bytes"
    "html"
    "strings"

    "github.com/yuin/goldmark"
)

// Extractor turns one input format into the scorer's text views.
// Implementations must be deterministic and never panic.
type Extractor interface {
    Extract(input string) Text
}

// HTMLExtractor reads editor HTML fragments.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(input string) Text {
    return FromHTML(input)
}

// MarkdownExtractor renders Markdown to HTML with goldmark first, so block
// structure (paragraphs, list items, headings) survives into segmentation.
type MarkdownExtractor struct{}

func (MarkdownExtractor) Extract(input string) Text {
    var buf bytes.Buffer
    if err := goldmark.Convert([]byte(input), &buf); err != nil {
        return PlainExtractor{}.Extract(input)
    }
    return FromHTML(buf.String())
}

// PlainExtractor treats every non-blank line as a paragraph. Angle brackets
// are escaped so they are read as text rather than tags.
type PlainExtractor struct{}

func (PlainExtractor) Extract(input string) Text {
    var b strings.Builder
    for _, line := range strings.Split(input, "\n") {
        if strings.TrimSpace(line) == "" {
            continue
        }
        b.WriteString("<p>")
        b.WriteString(html.EscapeString(line))
        b.WriteString("</p>")
    }
    return FromHTML(b.String())
}

// ForFormat returns the extractor for "html", "markdown"/"md" or
// "text"/"plain". Unknown names fall back to HTML.
func ForFormat(format string) Extractor {
    switch strings.ToLower(strings.TrimSpace(format)) {
    case "markdown", "md":
        return MarkdownExtractor{}
    case "text", "plain", "txt":
        return PlainExtractor{}
    default:
        return HTMLExtractor{}
    }
}

// DetectFormat guesses the input format from a file extension.
func DetectFormat(path string) string {
    p := strings.ToLower(path)
    switch {
    case strings.HasSuffix(p, ".md"), strings.HasSuffix(p, ".markdown"):
        return "markdown"
    case strings.HasSuffix(p, ".txt"):
        return "text"
    default:
        return "html"
    }
}
