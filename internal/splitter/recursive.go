package splitter

import "strings"

// separators are tried in order: paragraph, line, sentence, word.
// Only when none yields a piece within the chunk size does the splitter
// fall back to a hard character cut.
var separators = []string{"\n\n", "\n", ". ", " "}

// splitText splits plain text at natural boundaries with overlap
// between consecutive chunks. Used for text, OCR, chart and structured
// content; the latter three are usually shorter than one chunk and come
// back as a single piece.
func (s *Splitter) splitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	pieces := splitByBoundaries(text, separators, s.chunkSize)
	return s.assemble(pieces)
}

// splitByBoundaries recursively breaks text into pieces no longer than
// size, preferring the earliest separator in seps that applies.
func splitByBoundaries(text string, seps []string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}
	if len(seps) == 0 {
		return hardCut(text, size)
	}

	parts := splitAfter(text, seps[0])
	if len(parts) == 1 {
		// Separator absent; try the next finer boundary.
		return splitByBoundaries(text, seps[1:], size)
	}

	var out []string
	for _, part := range parts {
		if len(part) > size {
			out = append(out, splitByBoundaries(part, seps[1:], size)...)
		} else {
			out = append(out, part)
		}
	}
	return out
}

// splitAfter splits text on sep, keeping the separator attached to the
// preceding piece so reassembly is lossless.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	// Drop a trailing empty piece produced by a trailing separator.
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// hardCut slices text into rune windows of at most size characters.
// Last resort when no natural boundary exists within the budget.
func hardCut(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// assemble merges boundary pieces into chunks of at most chunkSize,
// seeding each chunk after the first with the previous chunk's tail to
// preserve cross-boundary context for retrieval.
func (s *Splitter) assemble(pieces []string) []string {
	var chunks []string
	var cur strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(cur.String())
		cur.Reset()
		if chunk == "" {
			return
		}
		chunks = append(chunks, chunk)
		cur.WriteString(overlapTail(chunk, s.overlap))
	}

	for _, piece := range pieces {
		if cur.Len() > 0 && cur.Len()+len(piece) > s.chunkSize {
			flush()
			// Drop the overlap seed when it would push this chunk past
			// the budget; the size invariant wins over overlap.
			if cur.Len()+len(piece) > s.chunkSize {
				cur.Reset()
			}
		}
		cur.WriteString(piece)
	}

	if chunk := strings.TrimSpace(cur.String()); chunk != "" && chunk != overlapTail(last(chunks), s.overlap) {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// overlapTail returns the last n characters of text, extended left to
// the nearest word boundary so overlaps never begin mid-word.
func overlapTail(text string, n int) string {
	if n <= 0 || text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	tail := runes[len(runes)-n:]
	if idx := strings.IndexAny(string(tail), " \n"); idx >= 0 {
		return strings.TrimLeft(string(tail[idx:]), " \n")
	}
	return string(tail)
}

func last(chunks []string) string {
	if len(chunks) == 0 {
		return ""
	}
	return chunks[len(chunks)-1]
}
