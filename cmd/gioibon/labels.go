package main

import (
	"sort"
	"strconv"
	"strings"
)

// sortLabels orders labels by prefix, then by rule number, so "Pc 2" sorts
// before "Pc 10".
func sortLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		pi, ni, oki := splitRuleLabel(labels[i])
		pj, nj, okj := splitRuleLabel(labels[j])
		if oki && okj && pi == pj {
			return ni < nj
		}
		return labels[i] < labels[j]
	})
}

func splitRuleLabel(label string) (string, int, bool) {
	prefix, num, ok := strings.Cut(label, " ")
	if !ok {
		return "", 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return "", 0, false
	}
	return prefix, n, true
}
