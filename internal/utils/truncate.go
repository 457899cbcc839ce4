package utils

// MaxActivityTextLen bounds free-text excerpts embedded in activity details.
const MaxActivityTextLen = 50

// TruncateText returns at most MaxActivityTextLen runes of s, appending an
// ellipsis when anything was cut.
func TruncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxActivityTextLen {
		return s
	}
	return string(runes[:MaxActivityTextLen]) + "..."
}
