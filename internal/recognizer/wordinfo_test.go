package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineWith builds a DecodedLine whose characters sit at the given
// timestep columns.
func lineWith(text string, cols []int, steps int) DecodedLine {
	sel := make([]bool, steps)
	for _, c := range cols {
		sel[c] = true
	}
	return DecodedLine{Text: text, Selection: sel, Steps: steps}
}

func TestBuildWordInfoSingleLatinWord(t *testing.T) {
	info := BuildWordInfo(lineWith("cat", []int{2, 3, 4}, 10), 0)

	require.Len(t, info.Words, 1)
	assert.Equal(t, []string{"c", "a", "t"}, info.Words[0])
	assert.Equal(t, []int{2, 3, 4}, info.WordCols[0])
	assert.Equal(t, []WordType{WordEnNum}, info.WordTypes)
}

func TestBuildWordInfoWhitespaceSplits(t *testing.T) {
	info := BuildWordInfo(lineWith("ab cd", []int{1, 2, 3, 4, 5}, 10), 0)

	require.Len(t, info.Words, 2)
	assert.Equal(t, []string{"a", "b"}, info.Words[0])
	assert.Equal(t, []string{"c", "d"}, info.Words[1])
}

func TestBuildWordInfoScriptChangeSplits(t *testing.T) {
	info := BuildWordInfo(lineWith("ab中文", []int{1, 2, 3, 4}, 10), 0)

	require.Len(t, info.Words, 2)
	assert.Equal(t, []WordType{WordEnNum, WordCJK}, info.WordTypes)
	assert.Equal(t, []string{"中", "文"}, info.Words[1])
}

func TestBuildWordInfoColumnGapSplits(t *testing.T) {
	// The jump from column 3 to column 12 exceeds the gap threshold.
	info := BuildWordInfo(lineWith("abcd", []int{2, 3, 12, 13}, 20), 0)

	require.Len(t, info.Words, 2)
	assert.Equal(t, []string{"a", "b"}, info.Words[0])
	assert.Equal(t, []string{"c", "d"}, info.Words[1])
	assert.Equal(t, []int{12, 13}, info.WordCols[1])
}

func TestBuildWordInfoCustomGapThreshold(t *testing.T) {
	// A gap of 4 columns splits only when the threshold is below it.
	line := lineWith("abcd", []int{2, 3, 7, 8}, 20)
	assert.Len(t, BuildWordInfo(line, 0).Words, 1)
	assert.Len(t, BuildWordInfo(line, 3).Words, 2)
}

func TestBuildWordInfoEmptySelection(t *testing.T) {
	info := BuildWordInfo(DecodedLine{Text: "", Selection: make([]bool, 5), Steps: 5}, 0)
	assert.Empty(t, info.Words)
	assert.Empty(t, info.WordTypes)
}

func TestBuildWordInfoFirstColumnNearEdge(t *testing.T) {
	// A first character at column 0 must not trigger the gap split even
	// for wide nominal first widths.
	info := BuildWordInfo(lineWith("中ab", []int{0, 1, 2}, 10), 0)
	require.Len(t, info.Words, 2)
	assert.Equal(t, []WordType{WordCJK, WordEnNum}, info.WordTypes)
}

func TestIsCJK(t *testing.T) {
	assert.True(t, isCJK('中'))
	assert.True(t, isCJK('鿿'))
	assert.False(t, isCJK('a'))
	assert.False(t, isCJK('5'))
}
