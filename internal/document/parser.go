package document

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"gioibon/internal/labeler"
	"gioibon/internal/logging"
	"gioibon/internal/textutil"
)

var (
	frontMatterPattern = regexp.MustCompile(`(?s)\A---.*?---`)
	decorativeLine     = regexp.MustCompile(`(?m)^[ \t]*(?:\\?\*[ \t]*)+$\n?`)
	paragraphBreak     = regexp.MustCompile(`\n\s*\n`)
	chapterPattern     = regexp.MustCompile(`(?i)^PHẨM\s+\d+`)
)

// Options configures optional parser output.
type Options struct {
	// RuleNames, when set, adds a "<label>-name" segment before each rule.
	RuleNames RuleNames
}

// Parser converts a document into segments.
type Parser struct {
	opts   Options
	logger *slog.Logger
}

// NewParser constructs a parser.
func NewParser(opts Options, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Parser{opts: opts, logger: logger}
}

// parseState is the context threaded through one parse.
type parseState struct {
	labels   *labeler.State
	segments []Segment
	nextUID  int
}

func (st *parseState) emit(html, label, text string) {
	st.emitUnit(html, label, text, text)
}

// emitRecased emits a unit whose display text is title-cased when the unit
// is all uppercase. The original casing is kept for speech.
func (st *parseState) emitRecased(html, label, unit string) {
	st.emitUnit(html, label, textutil.TitleIfUpper(unit), unit)
}

func (st *parseState) emitUnit(html, label, text, speech string) {
	st.segments = append(st.segments, Segment{
		UID:    st.nextUID,
		HTML:   html,
		Label:  label,
		Text:   text,
		Audio:  AudioUnresolved,
		Hint:   textutil.Hint(text),
		Speech: speech,
	})
	st.nextUID++
}

func (st *parseState) lastUID() int {
	return st.nextUID - 1
}

// Parse returns the ordered segments of raw. Audio is left unresolved.
func (p *Parser) Parse(raw string) []Segment {
	st := &parseState{labels: labeler.New(), nextUID: 1}
	counts := make(map[Kind]int)
	dropped := 0

	for _, para := range Paragraphs(raw) {
		if isDecorative(para) {
			dropped++
			continue
		}
		block := Classify(para)
		counts[block.Kind]++
		switch block.Kind {
		case KindLiteral:
			if block.literal.drop {
				dropped++
				continue
			}
			st.emit(block.literal.html, block.literal.label, block.literal.text)
		case KindNote:
			if block.Body == "" {
				dropped++
				continue
			}
			st.emit(`<p class="note">{}</p>`, "note-"+strconv.Itoa(st.lastUID()), block.Body)
		case KindHeading:
			p.emitHeading(st, block)
		case KindRule:
			label := st.labels.RuleLabel(block.RuleNumber)
			if name, ok := p.opts.RuleNames[label]; ok {
				st.emit(`<p class="rule-name">{}</p>`, label+"-name", name)
			}
			p.emitBody(st, block.Body, label)
		default:
			p.emitBody(st, block.Body, st.labels.Label())
		}
	}

	p.logger.Debug("paragraphs classified",
		logging.Int("segments", len(st.segments)),
		logging.Int("headings", counts[KindHeading]),
		logging.Int("rules", counts[KindRule]),
		logging.Int("notes", counts[KindNote]),
		logging.Int("dropped", dropped),
	)
	return st.segments
}

// Paragraphs normalizes raw to NFC with LF line endings, removes the front
// matter block and decorative separator lines, and splits on blank lines.
func Paragraphs(raw string) []string {
	text := norm.NFC.String(strings.TrimPrefix(raw, "\ufeff"))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = frontMatterPattern.ReplaceAllString(text, "")
	text = decorativeLine.ReplaceAllString(text, "")

	var paras []string
	for _, para := range paragraphBreak.Split(text, -1) {
		if para = strings.TrimSpace(para); para != "" {
			paras = append(paras, para)
		}
	}
	return paras
}

func (p *Parser) emitHeading(st *parseState, block Block) {
	text := textutil.CollapseSpaces(textutil.CleanLine(block.Body))
	st.labels.Update(text, block.Level)
	label := st.labels.Label()
	if chapterPattern.MatchString(text) {
		label = st.labels.ChapterLabel()
	}
	level := min(block.Level, 6)
	tag := "h" + strconv.Itoa(level)
	st.emitRecased("<"+tag+">"+Placeholder+"</"+tag+">", label, text)
}

func (p *Parser) emitBody(st *parseState, body, label string) {
	if parts, ok := fixedPartsFor(body); ok {
		for i, html := range wrapParts(parts) {
			st.emit(html, label, parts[i])
		}
		return
	}

	var lines [][]string
	for _, line := range strings.Split(body, "\n") {
		clean := textutil.CleanLine(line)
		if clean == "" {
			continue
		}
		if units := splitUnits(clean, label); len(units) > 0 {
			lines = append(lines, units)
		}
	}
	for i, htmls := range wrapLines(lines) {
		for j, html := range htmls {
			st.emitRecased(html, label, lines[i][j])
		}
	}
}

func fixedPartsFor(body string) ([]string, bool) {
	clean := textutil.CollapseSpaces(textutil.CleanLine(body))
	for _, fs := range fixedSplits {
		if strings.Contains(clean, fs.identifier) {
			return fs.parts, true
		}
	}
	return nil, false
}

// splitUnits applies the split policy for one cleaned line: chant lines stay
// whole, no-quote-split sections split only into sentences, everything else
// splits into sentences and then on quotes.
func splitUnits(line, label string) []string {
	if isChant(line) {
		return []string{line}
	}
	sentences := textutil.SplitSentences(line)
	if !splitsQuotes(label) {
		return sentences
	}
	var units []string
	for _, sentence := range sentences {
		units = append(units, textutil.SplitQuotes(sentence)...)
	}
	return units
}

func isChant(line string) bool {
	upper := strings.ToUpper(line)
	for _, marker := range chantMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

func splitsQuotes(label string) bool {
	lower := strings.ToLower(label)
	for _, prefix := range noQuoteSplitPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}
