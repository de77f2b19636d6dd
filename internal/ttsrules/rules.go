// Package ttsrules loads the text normalization rules shared with the web
// client and applies them before text is hashed or sent for synthesis.
//
// The rule document is the tts_rules.json file the web client fetches, so a
// segment normalized here hashes to the same audio name the client computes.
package ttsrules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gioibon/internal/textutil"
)

// Rules is the normalization rule document. Every step is optional and the
// steps run in field order.
type Rules struct {
	RemoveHTML      bool      `json:"remove_html"`
	RemoveChars     []string  `json:"remove_chars"`
	CollapseSpaces  bool      `json:"collapse_spaces"`
	Phonetics       Phonetics `json:"phonetics"`
	CapitalizeUpper bool      `json:"capitalize_upper"`
}

// Phonetic replaces From (case-insensitively) with To.
type Phonetic struct {
	From string
	To   string
}

// Phonetics keeps substitutions in document order, which is the order the
// web client applies them in.
type Phonetics []Phonetic

// UnmarshalJSON decodes a JSON object while preserving key order.
func (p *Phonetics) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("phonetics: expected object")
	}
	var out Phonetics
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("phonetics: expected string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("phonetics %q: %w", key, err)
		}
		out = append(out, Phonetic{From: key, To: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalJSON encodes the substitutions as an object in their current order.
func (p Phonetics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ph := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ph.From)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(ph.To)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DefaultRules strips brackets, parentheses and asterisks and collapses
// whitespace. It is used when no rule document is configured.
func DefaultRules() Rules {
	return Rules{
		RemoveChars:    []string{"(", ")", "[", "]", "*"},
		CollapseSpaces: true,
	}
}

// LoadRules reads a rule document from path.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read tts rules: %w", err)
	}
	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse tts rules %s: %w", path, err)
	}
	return rules, nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>?`)

type compiledPhonetic struct {
	pattern     *regexp.Regexp
	replacement string
}

// Normalizer applies a compiled rule set.
type Normalizer struct {
	rules     Rules
	remove    map[rune]struct{}
	phonetics []compiledPhonetic
}

// NewNormalizer compiles rules.
func NewNormalizer(rules Rules) *Normalizer {
	n := &Normalizer{rules: rules, remove: make(map[rune]struct{})}
	for _, chars := range rules.RemoveChars {
		for _, r := range chars {
			n.remove[r] = struct{}{}
		}
	}
	for _, ph := range rules.Phonetics {
		if ph.From == "" {
			continue
		}
		n.phonetics = append(n.phonetics, compiledPhonetic{
			pattern:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta(ph.From)),
			replacement: ph.To,
		})
	}
	return n
}

// Rules returns the rule set the normalizer was built from.
func (n *Normalizer) Rules() Rules { return n.rules }

// Normalize returns the text sent to the provider and hashed for the cache.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	if n.rules.RemoveHTML {
		text = htmlTagPattern.ReplaceAllString(text, "")
	}
	if len(n.remove) > 0 {
		text = strings.Map(func(r rune) rune {
			if _, ok := n.remove[r]; ok {
				return ' '
			}
			return r
		}, text)
	}
	if n.rules.CollapseSpaces {
		text = textutil.CollapseSpaces(text)
	}
	for _, ph := range n.phonetics {
		text = ph.pattern.ReplaceAllLiteralString(text, ph.replacement)
	}
	if n.rules.CapitalizeUpper && textutil.IsAllUpper(text) {
		text = textutil.CapitalizeFirst(text)
	}
	return text
}
