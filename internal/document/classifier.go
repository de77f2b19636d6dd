package document

import (
	"regexp"
	"strings"
	"unicode"
)

// Kind is the classification of a paragraph.
type Kind int

const (
	KindLiteral Kind = iota
	KindNote
	KindHeading
	KindRule
	KindPlain
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindNote:
		return "note"
	case KindHeading:
		return "heading"
	case KindRule:
		return "rule"
	default:
		return "plain"
	}
}

// Block is a classified paragraph.
type Block struct {
	Kind       Kind
	Level      int
	RuleNumber string
	Body       string
	literal    literal
}

type classifierRule struct {
	kind  Kind
	match func(para string) (Block, bool)
}

var (
	headingPattern = regexp.MustCompile(`^(#+)\s*(.*)$`)
	rulePattern    = regexp.MustCompile(`(?s)^\s*(\d+)\\?\.\s+(.*)`)
	noteReplacer   = strings.NewReplacer("|", "", "*", "")
)

// classifierRules is evaluated in order; the first match wins.
var classifierRules = []classifierRule{
	{kind: KindLiteral, match: matchLiteral},
	{kind: KindNote, match: matchNote},
	{kind: KindHeading, match: matchHeading},
	{kind: KindRule, match: matchRule},
	{kind: KindPlain, match: func(para string) (Block, bool) {
		return Block{Kind: KindPlain, Body: para}, true
	}},
}

// Classify assigns a paragraph to the first matching rule.
func Classify(para string) Block {
	for _, rule := range classifierRules {
		if block, ok := rule.match(para); ok {
			return block
		}
	}
	return Block{Kind: KindPlain, Body: para}
}

func matchLiteral(para string) (Block, bool) {
	lit, ok := findLiteral(para)
	if !ok {
		return Block{}, false
	}
	return Block{Kind: KindLiteral, Body: lit.text, literal: lit}, true
}

func matchNote(para string) (Block, bool) {
	if !strings.HasPrefix(para, "|") {
		return Block{}, false
	}
	lines := strings.Split(para, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(noteReplacer.Replace(line))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return Block{Kind: KindNote, Body: strings.Join(kept, " ")}, true
}

func matchHeading(para string) (Block, bool) {
	if !strings.HasPrefix(para, "#") {
		return Block{}, false
	}
	m := headingPattern.FindStringSubmatch(strings.ReplaceAll(para, "\n", " "))
	if m == nil {
		return Block{}, false
	}
	return Block{Kind: KindHeading, Level: len(m[1]), Body: m[2]}, true
}

func matchRule(para string) (Block, bool) {
	m := rulePattern.FindStringSubmatch(para)
	if m == nil {
		return Block{}, false
	}
	return Block{Kind: KindRule, RuleNumber: m[1], Body: m[2]}, true
}

// isDecorative reports whether a paragraph holds no letters or digits.
func isDecorative(para string) bool {
	return !strings.ContainsFunc(para, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}
