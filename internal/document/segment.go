package document

import "strings"

const (
	// Placeholder marks where the segment text goes in its HTML template.
	Placeholder = "{}"
	// AudioUnresolved is the audio value of a freshly parsed segment.
	AudioUnresolved = "unresolved"
	// AudioSkip marks a segment that is intentionally not synthesized.
	AudioSkip = "skip"
)

// Segment is one renderable and speakable unit of the document.
type Segment struct {
	UID   int
	HTML  string
	Label string
	Text  string
	Audio string
	Hint  string
	// Speech is the unit as written, before display recasing. Audio
	// normalization reads it; it is not persisted.
	Speech string
}

// SpeechText returns the text audio normalization starts from.
func (s Segment) SpeechText() string {
	if s.Speech != "" {
		return s.Speech
	}
	return s.Text
}

// Render substitutes the segment text into its HTML template.
func (s Segment) Render() string {
	return strings.Replace(s.HTML, Placeholder, s.Text, 1)
}

// LabelCounts returns how many segments carry each label.
func LabelCounts(segments []Segment) map[string]int {
	counts := make(map[string]int)
	for _, seg := range segments {
		counts[seg.Label]++
	}
	return counts
}
