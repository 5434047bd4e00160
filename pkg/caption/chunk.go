// Package caption splits narration text into display-ready caption chunks
// and assigns each chunk a proportional time-fraction of its scene.
//
// No word-level timestamps are available from the narration source, so
// character count stands in for spoken duration: a chunk holding 30% of the
// scene's characters is shown for 30% of the scene.
package caption

import (
	"strings"
	"unicode/utf8"
)

// Chunk is one on-screen caption unit: a small group of wrapped lines plus
// the [StartFraction, EndFraction) window of the scene it occupies.
// Fractions across a scene's chunk list partition [0,1] contiguously.
type Chunk struct {
	Lines         []string
	CharCount     int
	StartFraction float64
	EndFraction   float64
}

// Options tunes wrapping and grouping.
type Options struct {
	MaxLineChars  int // per-line character budget (default 34)
	LinesPerChunk int // lines shown at once (default 2)
}

// DefaultOptions returns the project defaults.
func DefaultOptions() Options {
	return Options{MaxLineChars: 34, LinesPerChunk: 2}
}

// Korean post-particles that mark a natural phrase boundary. Breaking a line
// right after one of these reads better than breaking mid-phrase.
const particleRunes = "은는이가을를에의로와과도만"

// minBreakRatio is how far into the line budget a preferred break point
// (comma, particle, space) must sit before it is taken.
const minBreakRatio = 0.35

// Split chunks narration text. Empty text yields a single empty chunk
// spanning the whole scene, so every scene always has something to paint.
func Split(text string, opts Options) []Chunk {
	if opts.MaxLineChars <= 0 {
		opts.MaxLineChars = 34
	}
	if opts.LinesPerChunk <= 0 {
		opts.LinesPerChunk = 2
	}

	var lines []string
	for _, sentence := range splitSentences(text) {
		lines = append(lines, wrapLine(sentence, opts.MaxLineChars)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	var chunks []Chunk
	total := 0
	for i := 0; i < len(lines); i += opts.LinesPerChunk {
		end := min(i+opts.LinesPerChunk, len(lines))
		group := lines[i:end]

		count := 0
		for _, l := range group {
			count += utf8.RuneCountInString(l)
		}
		total += count
		chunks = append(chunks, Chunk{Lines: group, CharCount: count})
	}

	assignFractions(chunks, total)
	return chunks
}

// assignFractions distributes the [0,1] scene window across chunks in
// proportion to character count. The final chunk is clamped to end at
// exactly 1.0 to correct floating-point drift.
func assignFractions(chunks []Chunk, total int) {
	if len(chunks) == 0 {
		return
	}
	if total <= 0 {
		// No measurable text: spread chunks evenly.
		step := 1.0 / float64(len(chunks))
		for i := range chunks {
			chunks[i].StartFraction = float64(i) * step
			chunks[i].EndFraction = float64(i+1) * step
		}
		chunks[len(chunks)-1].EndFraction = 1.0
		return
	}

	cursor := 0.0
	for i := range chunks {
		chunks[i].StartFraction = cursor
		cursor += float64(chunks[i].CharCount) / float64(total)
		chunks[i].EndFraction = cursor
	}
	chunks[0].StartFraction = 0.0
	chunks[len(chunks)-1].EndFraction = 1.0
}

// splitSentences breaks text on sentence-terminal punctuation followed by
// whitespace or end of string. Text without terminators is one unit.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var units []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Swallow a run of terminators ("?!", "...").
		for i+1 < len(runes) && isTerminal(runes[i+1]) {
			i++
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue // mid-token punctuation, e.g. "3.5"
		}
		unit := strings.TrimSpace(string(runes[start : i+1]))
		if unit != "" {
			units = append(units, unit)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		units = append(units, tail)
	}
	return units
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// wrapLine wraps one sentence to the character budget. Tokens (contiguous
// non-space runs) are never split across lines unless a single token alone
// exceeds the entire budget, in which case it is hard-cut.
//
// When a line must break, the break point is chosen among token boundaries
// past minBreakRatio of the budget, preferring in order: after a comma,
// after a Korean post-particle, after any token.
func wrapLine(sentence string, budget int) []string {
	tokens := strings.Fields(sentence)
	if len(tokens) == 0 {
		return nil
	}

	var lines []string
	var current []string
	currentLen := 0

	flushAt := func(n int) {
		lines = append(lines, strings.Join(current[:n], " "))
		current = append([]string(nil), current[n:]...)
		currentLen = 0
		for i, t := range current {
			if i > 0 {
				currentLen++
			}
			currentLen += utf8.RuneCountInString(t)
		}
	}

	for _, tok := range tokens {
		tokLen := utf8.RuneCountInString(tok)

		for {
			needed := tokLen
			if len(current) > 0 {
				needed++ // joining space
			}
			if currentLen+needed <= budget {
				current = append(current, tok)
				currentLen += needed
				break
			}

			if len(current) == 0 {
				// A single token longer than the whole budget: hard cut,
				// keeping the last piece as the start of the next line.
				pieces := hardCut(tok, budget)
				lines = append(lines, pieces[:len(pieces)-1]...)
				tok = pieces[len(pieces)-1]
				tokLen = utf8.RuneCountInString(tok)
				continue
			}

			// Line is full; pick the best boundary among the fitted tokens.
			if n := preferredBreak(current, budget); n > 0 {
				flushAt(n)
			} else {
				flushAt(len(current))
			}
		}
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// preferredBreak returns how many leading tokens to keep on the current
// line, or 0 when no preferred boundary exists past the minimum ratio.
func preferredBreak(tokens []string, budget int) int {
	minPos := int(float64(budget) * minBreakRatio)

	commaAt, particleAt := 0, 0
	pos := 0
	for i, tok := range tokens {
		if i > 0 {
			pos++
		}
		pos += utf8.RuneCountInString(tok)
		if pos < minPos || i == len(tokens)-1 {
			continue
		}
		last, _ := utf8.DecodeLastRuneInString(tok)
		switch {
		case last == ',' || last == '，' || last == '、':
			commaAt = i + 1
		case strings.ContainsRune(particleRunes, last):
			particleAt = i + 1
		}
	}

	if commaAt > 0 {
		return commaAt
	}
	return particleAt
}

// hardCut slices an overlong token into budget-sized pieces.
func hardCut(tok string, budget int) []string {
	runes := []rune(tok)
	var pieces []string
	for len(runes) > budget {
		pieces = append(pieces, string(runes[:budget]))
		runes = runes[budget:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}
