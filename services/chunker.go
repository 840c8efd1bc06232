package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Chunker splits page text into overlapping chunks sized for the
// embedding model.
type Chunker struct {
	maxChunkSize   int
	overlap        int
	minChunkSize   int
	sentenceRegex  *regexp.Regexp
	paragraphRegex *regexp.Regexp
}

// NewChunker creates a chunker with the given size bounds.
func NewChunker(maxChunkSize, overlap, minChunkSize int) *Chunker {
	return &Chunker{
		maxChunkSize:   maxChunkSize,
		overlap:        overlap,
		minChunkSize:   minChunkSize,
		sentenceRegex:  regexp.MustCompile(`[.!?]+[\s]+`),
		paragraphRegex: regexp.MustCompile(`\n\n+`),
	}
}

// ChunkText chunks text with paragraph and sentence boundary
// awareness. Consecutive chunks share up to overlap characters so
// context is not lost at boundaries.
func (ck *Chunker) ChunkText(text string) []string {
	paragraphs := ck.paragraphRegex.Split(text, -1)

	var chunks []string
	currentChunk := new(strings.Builder)
	currentSize := 0

	for _, paragraph := range paragraphs {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) == 0 {
			continue
		}

		// Paragraphs too large on their own get split at sentence
		// boundaries first.
		for _, piece := range ck.splitOversized(paragraph) {
			pieceSize := len(piece)

			if currentSize+pieceSize > ck.maxChunkSize && currentSize >= ck.minChunkSize {
				chunks = append(chunks, currentChunk.String())

				overlapText := ck.overlapTail(currentChunk.String())
				currentChunk = new(strings.Builder)
				currentChunk.WriteString(overlapText)
				currentSize = len(overlapText)
			}

			if currentChunk.Len() > 0 {
				currentChunk.WriteString("\n\n")
				currentSize += 2
			}
			currentChunk.WriteString(piece)
			currentSize += pieceSize
		}
	}

	if currentChunk.Len() > 0 && strings.TrimSpace(currentChunk.String()) != "" {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}

// splitOversized breaks a paragraph longer than maxChunkSize at
// sentence boundaries, falling back to a hard cut for a single
// sentence that is itself too long. Hard cuts land on rune
// boundaries; text without sentence terminators (CJK prose, long
// identifiers) must never produce invalid UTF-8.
func (ck *Chunker) splitOversized(paragraph string) []string {
	if len(paragraph) <= ck.maxChunkSize {
		return []string{paragraph}
	}

	var pieces []string
	current := new(strings.Builder)

	for _, sentence := range ck.splitSentences(paragraph) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if len(sentence) > ck.maxChunkSize {
			if current.Len() > 0 {
				pieces = append(pieces, current.String())
				current = new(strings.Builder)
			}
			for len(sentence) > ck.maxChunkSize {
				cut := cutBefore(sentence, ck.maxChunkSize)
				pieces = append(pieces, sentence[:cut])
				sentence = sentence[cut:]
			}
		}

		if current.Len()+len(sentence)+1 > ck.maxChunkSize && current.Len() > 0 {
			pieces = append(pieces, current.String())
			current = new(strings.Builder)
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}

	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}

	return pieces
}

// splitSentences splits at sentence terminators, keeping each
// terminator with its sentence so a question stays a question after
// chunks are reassembled.
func (ck *Chunker) splitSentences(paragraph string) []string {
	bounds := ck.sentenceRegex.FindAllStringIndex(paragraph, -1)
	sentences := make([]string, 0, len(bounds)+1)

	start := 0
	for _, b := range bounds {
		sentences = append(sentences, paragraph[start:b[1]])
		start = b[1]
	}
	if start < len(paragraph) {
		sentences = append(sentences, paragraph[start:])
	}

	return sentences
}

// overlapTail returns the trailing overlap window of a finished chunk,
// snapped forward to a rune boundary and then to a word boundary.
func (ck *Chunker) overlapTail(text string) string {
	if ck.overlap <= 0 || len(text) <= ck.overlap {
		return ""
	}

	start := len(text) - ck.overlap
	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}

	tail := text[start:]
	if idx := strings.IndexAny(tail, " \n"); idx >= 0 && idx < len(tail)-1 {
		tail = tail[idx+1:]
	}

	return strings.TrimSpace(tail)
}

// cutBefore returns the largest rune boundary at or below max. A first
// rune wider than max is kept whole so the caller always makes
// progress.
func cutBefore(s string, max int) int {
	if max >= len(s) {
		return len(s)
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	if max == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return max
}
