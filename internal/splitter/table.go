package splitter

import (
	"regexp"
	"strings"
)

// separatorRow matches markdown-style header separator rows such as
// "|---|---|" or "+----+----+".
var separatorRow = regexp.MustCompile(`^[|+\-=: ]+$`)

// splitTable splits a serialised table along row boundaries only.
// A table that fits the chunk size is a single chunk. When splitting is
// required, the detected header row is repeated at the top of every
// resulting chunk so each chunk remains independently interpretable.
// No chunk ever ends mid-row.
func (s *Splitter) splitTable(text string) []string {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	rows := strings.Split(text, "\n")
	header, body := tableHeader(rows)
	headerText := strings.Join(header, "\n")

	var chunks []string
	cur := make([]string, 0, len(body))
	curLen := len(headerText)

	flush := func() {
		if len(cur) == 0 {
			return
		}
		parts := cur
		if headerText != "" {
			parts = append(append([]string{}, header...), cur...)
		}
		chunks = append(chunks, strings.Join(parts, "\n"))
		cur = cur[:0]
		curLen = len(headerText)
	}

	for _, row := range body {
		// A single row longer than the budget still ships whole:
		// row boundaries are the only legal split points.
		if len(cur) > 0 && curLen+len(row)+1 > s.chunkSize {
			flush()
		}
		cur = append(cur, row)
		curLen += len(row) + 1
	}
	flush()

	return chunks
}

// tableHeader detects a repeatable header: the first row, plus the
// second when it is a separator row. Returns the header rows and the
// remaining body rows. Tables without a detectable header return no
// header and the full row set as body.
func tableHeader(rows []string) (header, body []string) {
	if len(rows) < 3 {
		return nil, rows
	}
	if separatorRow.MatchString(strings.TrimSpace(rows[1])) && strings.TrimSpace(rows[1]) != "" {
		return rows[:2], rows[2:]
	}
	if strings.HasPrefix(strings.TrimSpace(rows[0]), "|") {
		return rows[:1], rows[1:]
	}
	return nil, rows
}
