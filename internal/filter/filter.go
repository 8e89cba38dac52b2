// Package filter rejects feed entries that touch banned topics.
package filter

import "strings"

// Topics we never surface. Substring match, case-insensitive.
var denylist = []string{
	"astrology",
	"horoscope",
	"zodiac",
	"tarot",
	"psychic",
	"paranormal",
	"ghost hunting",
	"haunted",
	"ufo sighting",
	"clairvoyant",
	"numerology",
}

// IsFiltered reports whether a title/body pair mentions a denylisted
// topic. Pure function, no I/O.
func IsFiltered(title, body string) bool {
	text := strings.ToLower(title + " " + body)
	for _, keyword := range denylist {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
