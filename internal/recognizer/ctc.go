package recognizer

import (
	"math"
	"strings"
)

// DecodedLine is one greedily decoded CTC sequence.
type DecodedLine struct {
	// Text is the collapsed character sequence.
	Text string

	// Confidence is the mean of the kept character probabilities.
	Confidence float32

	// Confs holds the probability of each kept character, rounded to
	// five decimals. A line with no kept characters carries a single 0.
	Confs []float32

	// Selection marks the timesteps that contributed a character.
	Selection []bool

	// Steps is the sequence length of the model output.
	Steps int
}

// DecodeGreedy decodes one [steps, classes] probability slice. Repeated
// consecutive classes collapse into one character and the blank class
// is dropped.
func (d *Dictionary) DecodeGreedy(preds []float32, steps, classes int) DecodedLine {
	indices := make([]int, steps)
	probs := make([]float32, steps)
	for t := 0; t < steps; t++ {
		idx, val := argmax(preds[t*classes : (t+1)*classes])
		indices[t] = idx
		probs[t] = val
	}

	selection := make([]bool, steps)
	for i := range selection {
		selection[i] = true
	}
	for i := 1; i < steps; i++ {
		if indices[i] == indices[i-1] {
			selection[i] = false
		}
	}
	for i := range indices {
		if indices[i] == blankIndex {
			selection[i] = false
		}
	}

	var sb strings.Builder
	confs := make([]float32, 0, steps)
	for i, sel := range selection {
		if !sel {
			continue
		}
		sb.WriteString(d.Token(indices[i]))
		confs = append(confs, roundConf(probs[i]))
	}
	if len(confs) == 0 {
		confs = append(confs, 0)
	}

	var sum float32
	for _, c := range confs {
		sum += c
	}

	return DecodedLine{
		Text:       sb.String(),
		Confidence: sum / float32(len(confs)),
		Confs:      confs,
		Selection:  selection,
		Steps:      steps,
	}
}

func roundConf(v float32) float32 {
	return float32(math.Round(float64(v)*1e5) / 1e5)
}

func argmax(v []float32) (int, float32) {
	if len(v) == 0 {
		return -1, 0
	}
	idx := 0
	best := v[0]
	for i := 1; i < len(v); i++ {
		if v[i] > best {
			best = v[i]
			idx = i
		}
	}
	return idx, best
}
