package recognizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// blankIndex is the CTC blank class, always at position zero.
const blankIndex = 0

// Dictionary maps CTC class indices to characters. Index 0 is the
// blank token and a space entry follows the file's characters, matching
// the class layout the recognition model was trained with.
type Dictionary struct {
	tokens []string
}

// LoadDictionary reads a character file, one token per line. Lines keep
// their content verbatim apart from a trailing carriage return and a
// leading UTF-8 BOM on the first line.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recognizer: opening dictionary: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	chars := make([]string, 0, 8192)
	first := true
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		chars = append(chars, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("recognizer: reading dictionary: %w", err)
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("recognizer: dictionary is empty: %s", path)
	}
	return NewDictionary(chars), nil
}

// NewDictionary builds a dictionary from a raw character list, adding
// the blank and space tokens around it.
func NewDictionary(chars []string) *Dictionary {
	tokens := make([]string, 0, len(chars)+2)
	tokens = append(tokens, "blank")
	tokens = append(tokens, chars...)
	tokens = append(tokens, " ")
	return &Dictionary{tokens: tokens}
}

// Size returns the number of classes including blank and space.
func (d *Dictionary) Size() int { return len(d.tokens) }

// Token returns the character for a class index, empty when out of range.
func (d *Dictionary) Token(i int) string {
	if i < 0 || i >= len(d.tokens) {
		return ""
	}
	return d.tokens[i]
}
