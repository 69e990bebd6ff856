package extract

import "strings"

// defaultSeparators is the priority order for recursive splitting: paragraph
// breaks first, then lines, sentences, words, and finally raw characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter breaks long text into overlapping chunks. It tries the highest
// priority separator present in the text and recurses with finer separators
// for any piece that is still too large, then greedily merges pieces into
// chunks of at most ChunkSize characters with Overlap characters carried
// between consecutive chunks.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{ChunkSize: chunkSize, Overlap: overlap}
}

func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, defaultSeparators)
}

func (s *Splitter) split(text string, separators []string) []string {
	// Choose the first separator that occurs in the text; "" always matches
	// and splits into single runes.
	sep := separators[len(separators)-1]
	var finer []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			finer = separators[i+1:]
			break
		}
	}

	var chunks []string
	var small []string
	for _, piece := range splitBy(text, sep) {
		if len(piece) < s.ChunkSize {
			small = append(small, piece)
			continue
		}
		if len(small) > 0 {
			chunks = append(chunks, s.merge(small, sep)...)
			small = nil
		}
		if len(finer) == 0 {
			// No separator permits a smaller split; emit oversized as-is.
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, finer)...)
		}
	}
	if len(small) > 0 {
		chunks = append(chunks, s.merge(small, sep)...)
	}
	return chunks
}

// merge greedily joins pieces into chunks bounded by ChunkSize, retaining an
// Overlap-sized tail of the previous chunk as the seed of the next.
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := len(sep)
	var chunks []string
	var window []string
	total := 0

	joinLen := func(extra int) int {
		n := total + extra
		if len(window) > 0 {
			n += sepLen
		}
		return n
	}

	emit := func() {
		joined := strings.TrimSpace(strings.Join(window, sep))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, p := range pieces {
		if joinLen(len(p)) > s.ChunkSize && len(window) > 0 {
			emit()
			// Shrink the window to at most Overlap characters of tail, and
			// keep shrinking while the tail plus the incoming piece would
			// still overflow the chunk bound.
			for len(window) > 0 && (total > s.Overlap || joinLen(len(p)) > s.ChunkSize) {
				drop := len(window[0])
				if len(window) > 1 {
					drop += sepLen
				}
				total -= drop
				window = window[1:]
			}
		}
		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, p)
		total += len(p)
	}
	emit()
	return chunks
}

// splitBy splits text on sep; an empty separator splits into single runes.
func splitBy(text, sep string) []string {
	if sep == "" {
		parts := make([]string, 0, len(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
		return parts
	}
	return strings.Split(text, sep)
}
