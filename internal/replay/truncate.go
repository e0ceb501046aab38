package replay

import "github.com/mattn/go-runewidth"

// truncateLine trims a line to the given display width, accounting for
// wide runes, and marks the cut with an ellipsis.
func truncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(line) <= width {
		return line
	}
	if width == 1 {
		return "…"
	}
	out := make([]rune, 0, width)
	used := 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if used+w > width-1 {
			break
		}
		out = append(out, r)
		used += w
	}
	return string(out) + "…"
}
