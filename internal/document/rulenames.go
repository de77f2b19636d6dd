package document

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RuleNames maps a rule label such as "Pj 1" to its display name such as
// "Pj 1. Methunadhamma".
type RuleNames map[string]string

var (
	ruleNameHeading = regexp.MustCompile(`^([^\d]+)\s+(\d+)(?:\.\s*(.*))?$`)

	paliCategories = map[string]string{
		"Pārājika":             "Pj",
		"Saṅghādisesa":         "Ss",
		"Aniyata":              "Ay",
		"Nissaggiya Pācittiya": "Np",
		"Pācittiya":            "Pc",
		"Pāṭidesanīya":         "Pd",
		"Sekhiya":              "Sk",
		"Adhikaraṇasamatha":    "As",
	}
)

// LoadRuleNames reads rule names from a Pali markdown document.
func LoadRuleNames(path string) (RuleNames, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule names: %w", err)
	}
	defer file.Close()
	return ParseRuleNames(file)
}

// ParseRuleNames collects "#### <Category> <N>[. <Name>]" headings.
func ParseRuleNames(r io.Reader) (RuleNames, error) {
	names := make(RuleNames)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(norm.NFC.String(scanner.Text()))
		text, ok := strings.CutPrefix(line, "#### ")
		if !ok {
			continue
		}
		m := ruleNameHeading.FindStringSubmatch(strings.TrimSpace(text))
		if m == nil {
			continue
		}
		prefix, ok := paliCategories[strings.TrimSpace(m[1])]
		if !ok {
			continue
		}
		label := prefix + " " + m[2]
		if name := strings.TrimSpace(m[3]); name != "" {
			names[label] = label + ". " + name
		} else {
			names[label] = label
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rule names: %w", err)
	}
	return names, nil
}
