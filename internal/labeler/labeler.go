// Package labeler tracks a reader's position in the prayer book and derives
// the label carried by every segment.
//
// Labels depend only on the heading stream and on whether a paragraph is a
// numbered rule, never on segment content:
//
//	nidana-opening, nidana, nidana-ending   introduction phases
//	pj-opening, Pj 1, Pj 2, pj-ending       a rule section
//	end                                     closing section
package labeler

import (
	"strings"

	"gioibon/internal/textutil"
)

// Section identifies the current top-level part of the document.
type Section string

const (
	SectionNone   Section = ""
	SectionNidana Section = "nidana"
	SectionEnd    Section = "end"
	SectionOther  Section = "other"
)

// Phase is the sub-state inside the introduction.
type Phase string

const (
	PhaseOpening Phase = "opening"
	PhaseMain    Phase = "main"
	PhaseEnding  Phase = "ending"
)

const (
	introMarker      = "MỞ ĐẦU"
	closingMarker    = "KẾT THÚC"
	introMainMarker  = "TỤNG PHẦN MỞ ĐẦU"
	introEndMarker   = "KẾT PHẦN MỞ ĐẦU"
	openingSuffix    = "-opening"
	endingSuffix     = "-ending"
	chapterSuffix    = "-chapter"
	noSectionPrefix  = "other"
)

// sectionPrefixes maps level-1 section headings to their label prefixes.
var sectionPrefixes = map[string]Section{
	"THUYẾT GIỚI TRIỆT KHAI":         "pj",
	"THUYẾT GIỚI TĂNG TÀNG":          "ss",
	"THUYẾT GIỚI BẤT ĐỊNH":           "ay",
	"THUYẾT GIỚI ƯNG XẢ ĐỐI TRỊ":     "np",
	"THUYẾT GIỚI ƯNG ĐỐI TRỊ":        "pc",
	"THUYẾT GIỚI ƯNG PHÁT LỘ":        "pd",
	"THUYẾT GIỚI ƯNG HỌC PHÁP":       "sk",
	"THUYẾT GIỚI DÀN XẾP TRANH TỤNG": "as",
}

// PrefixForHeading returns the rule-section prefix for a level-1 heading.
func PrefixForHeading(heading string) (Section, bool) {
	section, ok := sectionPrefixes[strings.ToUpper(strings.TrimSpace(heading))]
	return section, ok
}

// State is the label context threaded through a single parse.
type State struct {
	section Section
	phase   Phase
	inRule  bool
}

// New returns a state positioned before any heading.
func New() *State {
	return &State{}
}

// Section returns the current top-level section.
func (s *State) Section() Section { return s.section }

// Prefix returns the prefix used in labels for the current section.
func (s *State) Prefix() string {
	if s.section == SectionNone {
		return noSectionPrefix
	}
	return string(s.section)
}

// InRule reports whether a numbered rule has been seen in the current section.
func (s *State) InRule() bool { return s.inRule }

// Update applies a heading event. Level-1 headings select the section; level-2
// headings advance the introduction phases. Other headings leave the state
// unchanged.
func (s *State) Update(heading string, level int) {
	clean := strings.ToUpper(strings.TrimSpace(heading))
	switch {
	case level == 1:
		switch {
		case strings.Contains(clean, introMarker):
			s.section = SectionNidana
			s.phase = PhaseOpening
		case strings.Contains(clean, closingMarker):
			s.section = SectionEnd
		default:
			if section, ok := sectionPrefixes[clean]; ok {
				s.section = section
				s.inRule = false
			} else {
				s.section = SectionOther
			}
		}
	case level == 2 && s.section == SectionNidana:
		switch {
		case strings.Contains(clean, introMainMarker):
			s.phase = PhaseMain
		case strings.Contains(clean, introEndMarker):
			s.phase = PhaseEnding
		}
	}
}

// Label returns the label for content following the last heading.
func (s *State) Label() string {
	return s.label(false, "")
}

// RuleLabel marks the start of numbered rule n and returns its label.
func (s *State) RuleLabel(n string) string {
	return s.label(true, n)
}

// ChapterLabel returns the label for a chapter heading in the current section.
func (s *State) ChapterLabel() string {
	return s.Prefix() + chapterSuffix
}

func (s *State) label(isRule bool, n string) string {
	switch s.section {
	case SectionNidana:
		if s.phase == PhaseMain {
			return string(SectionNidana)
		}
		return string(SectionNidana) + "-" + string(s.phase)
	case SectionEnd:
		return string(SectionEnd)
	}
	if isRule {
		s.inRule = true
		return textutil.Capitalize(s.Prefix()) + " " + n
	}
	if s.inRule {
		return s.Prefix() + endingSuffix
	}
	return s.Prefix() + openingSuffix
}
