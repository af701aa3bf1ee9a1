package utils

import (
	"html"
	"math"
	"regexp"
	"strings"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes tags and unescapes entities.
func StripHTML(s string) string {
	return html.UnescapeString(htmlTag.ReplaceAllString(s, " "))
}

// WordCount counts whitespace-separated words of the text content of s.
func WordCount(s string) int {
	return len(strings.Fields(StripHTML(s)))
}

// ReadingTime is the reading time in whole minutes, rounded up.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}
