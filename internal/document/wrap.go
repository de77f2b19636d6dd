package document

import "gioibon/internal/textutil"

// wrapLines returns one HTML template per unit. The first unit of the first
// line opens the paragraph, the last unit of the last line closes it, the last
// unit of any other line ends with a line break, and every other unit is
// followed by a space.
func wrapLines(lines [][]string) [][]string {
	out := make([][]string, len(lines))
	for i, units := range lines {
		out[i] = make([]string, len(units))
		lastLine := i == len(lines)-1
		for j := range units {
			prefix := textutil.Ternary(i == 0 && j == 0, "<p>", "")
			suffix := " "
			if j == len(units)-1 {
				suffix = textutil.Ternary(lastLine, "</p>", "<br>")
			}
			out[i][j] = prefix + Placeholder + suffix
		}
	}
	return out
}

// wrapParts wraps fixed parts as consecutive lines of one paragraph.
func wrapParts(parts []string) []string {
	lines := make([][]string, len(parts))
	for i, part := range parts {
		lines[i] = []string{part}
	}
	wrapped := wrapLines(lines)
	out := make([]string, len(parts))
	for i := range wrapped {
		out[i] = wrapped[i][0]
	}
	return out
}
