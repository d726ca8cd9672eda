package extractors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page holds the reconstructed text lines of one PDF page.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Lines are the text lines in reading order. Wide horizontal gaps
	// between fragments are rendered as double spaces, which lets the
	// table extractor recognise column alignment.
	Lines []string
}

// Text joins the page lines into a single string.
func (p Page) Text() string {
	return strings.Join(p.Lines, "\n")
}

// ReadPDFPages opens a PDF and reconstructs per-page text lines from
// the positioned text fragments. Pages that cannot be parsed are
// skipped; a PDF where every page fails still returns the readable
// remainder.
func ReadPDFPages(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var pages []Page
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		lines := assembleLines(page.Content().Text)
		if len(lines) == 0 {
			// Fall back to the flat text stream for pages whose
			// positioned content is empty or unreadable.
			if text, err := page.GetPlainText(nil); err == nil && strings.TrimSpace(text) != "" {
				lines = nonEmptyLines(text)
			}
		}

		pages = append(pages, Page{Number: i, Lines: lines})
	}

	return pages, nil
}

// assembleLines groups positioned fragments into lines by vertical
// position, then orders each line horizontally. Fragment gaps wider
// than a couple of character widths become double spaces.
func assembleLines(texts []pdf.Text) []string {
	if len(texts) == 0 {
		return nil
	}

	rows := make(map[int][]pdf.Text)
	var ys []int
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		y := int(t.Y + 0.5)
		if _, seen := rows[y]; !seen {
			ys = append(ys, y)
		}
		rows[y] = append(rows[y], t)
	}

	// PDF user space grows upward: higher Y is earlier on the page.
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var lines []string
	for _, y := range ys {
		frags := rows[y]
		sort.Slice(frags, func(a, b int) bool { return frags[a].X < frags[b].X })

		var sb strings.Builder
		prevEnd := -1.0
		for _, t := range frags {
			if prevEnd >= 0 {
				gap := t.X - prevEnd
				switch {
				case gap > 2*charWidth(t):
					sb.WriteString("  ")
				case gap > 0.25*charWidth(t):
					sb.WriteString(" ")
				}
			}
			sb.WriteString(t.S)
			prevEnd = t.X + t.W
		}

		line := strings.TrimRight(sb.String(), " ")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// charWidth estimates one character width from the fragment font size.
func charWidth(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.5
	}
	return 4.0
}

// nonEmptyLines splits text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
