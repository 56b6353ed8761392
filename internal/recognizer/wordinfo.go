package recognizer

// WordType classifies a word's script. CJK characters get per-character
// boxes while Latin and digit runs merge into one box per word.
type WordType int

const (
	WordCJK WordType = iota
	WordEnNum
)

// DefaultWordGapCols is the column jump between consecutive characters
// above which a new word starts even without a script change.
const DefaultWordGapCols = 5

// WordInfo describes the per-word structure of a recognized line.
type WordInfo struct {
	// Words holds the characters of each word.
	Words [][]string

	// WordCols holds the CTC column index of each character per word.
	WordCols [][]int

	// WordTypes classifies each word's script.
	WordTypes []WordType

	// LineTxtLen is the line's sequence length scaled by its aspect
	// ratio relative to the widest crop of its batch.
	LineTxtLen float32

	// Confs holds the per-character probabilities of the line.
	Confs []float32
}

// BuildWordInfo groups the decoded characters of a line into words.
// Word boundaries come from whitespace, script changes, and column gaps
// wider than gapCols; gapCols <= 0 selects DefaultWordGapCols.
func BuildWordInfo(line DecodedLine, gapCols int) WordInfo {
	if gapCols <= 0 {
		gapCols = DefaultWordGapCols
	}
	validCols := make([]int, 0, len(line.Selection))
	for i, sel := range line.Selection {
		if sel {
			validCols = append(validCols, i)
		}
	}
	if len(validCols) == 0 {
		return WordInfo{}
	}

	colWidth := make([]int, len(validCols))
	for i := 1; i < len(validCols); i++ {
		colWidth[i] = validCols[i] - validCols[i-1]
	}

	runes := []rune(line.Text)
	firstWidth := 2
	if len(runes) > 0 && isCJK(runes[0]) {
		firstWidth = 3
	}
	colWidth[0] = min(firstWidth, validCols[0])

	var info WordInfo
	var word []string
	var wordCols []int
	state := WordType(-1)

	flush := func() {
		if len(word) == 0 {
			return
		}
		info.Words = append(info.Words, word)
		info.WordCols = append(info.WordCols, wordCols)
		info.WordTypes = append(info.WordTypes, state)
		word = nil
		wordCols = nil
	}

	for i, r := range runes {
		if isWhitespace(r) {
			flush()
			continue
		}

		charState := WordEnNum
		if isCJK(r) {
			charState = WordCJK
		}
		if state < 0 {
			state = charState
		}
		if state != charState || (i < len(colWidth) && colWidth[i] > gapCols) {
			flush()
			state = charState
		}

		word = append(word, string(r))
		if i < len(validCols) {
			wordCols = append(wordCols, validCols[i])
		}
	}
	flush()

	return info
}

func isCJK(r rune) bool { return r >= 0x4e00 && r <= 0x9fff }

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x85, 0xA0:
		return true
	}
	return false
}
