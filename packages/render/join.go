package render

import "strings"

// JoinWith joins items into a natural-language list: all but the last item
// joined with sep, then lastSep, then the last item.
func JoinWith(items []string, sep, lastSep string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], sep) + lastSep + items[len(items)-1]
}

// Join is JoinWith with the default separators: ", " and " and ".
func Join(items []string) string {
	return JoinWith(items, ", ", " and ")
}

// Plural appends "s" to word unless n is exactly 1.
func Plural(word string, n float64) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
