package report

import (
    "bufio"
    "errors"
    "strings"

    "github.com/jung-kurt/gofpdf"
)

const bodyFamily = "body"

// WritePDF renders the Markdown report produced by Markdown into a simple
// A4 PDF. The built-in Helvetica font cannot draw Hangul, so pass a UTF-8
// TrueType font (for example NanumGothic.ttf) in fontPath for Korean text.
func WritePDF(markdown, outPath, fontPath string) error {
    if strings.TrimSpace(outPath) == "" {
        return errors.New("pdf: output path is required")
    }
    pdf := gofpdf.New("P", "mm", "A4", "")
    family := "Helvetica"
    if strings.TrimSpace(fontPath) != "" {
        pdf.AddUTF8Font(bodyFamily, "", fontPath)
        pdf.AddUTF8Font(bodyFamily, "B", fontPath)
        family = bodyFamily
    }
    if err := pdf.Error(); err != nil {
        return err
    }
    pdf.SetFont(family, "", 11)
    pdf.AddPage()

    scanner := bufio.NewScanner(strings.NewReader(markdown))
    scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
    for scanner.Scan() {
        s := strings.TrimSpace(scanner.Text())
        switch {
        case s == "":
            pdf.Ln(4)
        case strings.HasPrefix(s, "#"):
            i := 0
            for i < len(s) && s[i] == '#' {
                i++
            }
            text := strings.TrimSpace(s[i:])
            if text == "" {
                continue
            }
            size := 15.0
            if i >= 2 {
                size = 12.5
            }
            pdf.SetFont(family, "B", size)
            pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
            pdf.SetFont(family, "", 11)
        case strings.HasPrefix(s, "|"):
            if strings.Trim(s, "|-: ") == "" {
                continue // table rule
            }
            cells := strings.Split(strings.Trim(s, "|"), "|")
            for i, c := range cells {
                w := 30.0
                align := "R"
                if i == 0 {
                    w, align = 70, "L"
                }
                pdf.CellFormat(w, 6, strings.TrimSpace(c), "1", 0, align, false, 0, "")
            }
            pdf.Ln(-1)
        default:
            pdf.MultiCell(0, 5.5, strings.ReplaceAll(s, "**", ""), "", "L", false)
        }
    }
    if err := scanner.Err(); err != nil {
        return err
    }
    return pdf.OutputFileAndClose(outPath)
}
