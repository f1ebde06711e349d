package datfile

import (
	"strconv"
	"strings"
)

const (
	TitleWidth   = 73
	OptionWidth  = 32
	titleFill    = "-"
	minTitleDash = 3
)

// TextFill pads text with fill up to length, using at least minimum fill characters.
func TextFill(text string, length int, fill string, minimum int, fillLeft bool) string {
	n := length - len(text)
	if n < minimum {
		n = minimum
	}
	pad := strings.Repeat(fill, n)
	if fillLeft {
		return pad + text
	}
	return text + pad
}

// LineTitle right-aligns title in a dash-filled field of TitleWidth.
func LineTitle(title string) string {
	return TextFill(title, TitleWidth, titleFill, minTitleDash, true)
}

// LineOption aligns value at column OptionWidth.
func LineOption(key, value string) string {
	return TextFill(key, OptionWidth, " ", 1, false) + value
}

// LineOptionComment is LineOption followed by an aligned trailing comment.
func LineOptionComment(key, value, comment string) string {
	return TextFill(key, OptionWidth, " ", 1, false) +
		TextFill(value, OptionWidth, " ", 1, false) + LineComment(comment)
}

// LineOptionList joins options space-separated in insertion order.
func LineOptionList(opts Options) string {
	parts := make([]string, len(opts))
	for i, opt := range opts {
		parts[i] = opt.String()
	}
	return strings.Join(parts, " ")
}

func LineComment(comment string) string {
	return commentMarker + " " + comment
}

// FormatFloat writes the shortest representation that parses back to f.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func FormatFloats(fs ...float64) []string {
	s := make([]string, len(fs))
	for i, f := range fs {
		s[i] = FormatFloat(f)
	}
	return s
}
