package normalize

import (
	"strings"
	"unicode"
)

// roomTypeTokens maps loose room-type tokens to the display vocabulary.
var roomTypeTokens = map[string]string{
	"single":         "Single Sharing",
	"1":              "Single Sharing",
	"one":            "Single Sharing",
	"single sharing": "Single Sharing",
	"double":         "Double Sharing",
	"2":              "Double Sharing",
	"two":            "Double Sharing",
	"double sharing": "Double Sharing",
	"triple":         "Triple Sharing",
	"3":              "Triple Sharing",
	"three":          "Triple Sharing",
	"triple sharing": "Triple Sharing",
}

// RoomTypeLabel maps a loose room-type token ("single", "1",
// "single_sharing") to the display vocabulary. Unknown tokens are
// title-cased with separators replaced by spaces.
func RoomTypeLabel(raw string) string {
	words := splitWords(raw)
	if len(words) == 0 {
		return ""
	}
	key := strings.ToLower(strings.Join(words, " "))
	if label, ok := roomTypeTokens[key]; ok {
		return label
	}
	// "1 sharing", "2 seater" and similar
	if label, ok := roomTypeTokens[strings.ToLower(words[0])]; ok && len(words) == 2 {
		return label
	}
	return titleCase(words)
}

// GenderLabel maps gender tokens to Male, Female or Co-living.
// Anything unrecognized passes through unchanged.
func GenderLabel(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case t == "":
		return raw
	case strings.HasPrefix(t, "m"):
		return "Male"
	case strings.HasPrefix(t, "f"):
		return "Female"
	case strings.Contains(t, "co"):
		return "Co-living"
	default:
		return raw
	}
}

func splitWords(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
}

func titleCase(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		out[i] = string(r)
	}
	return strings.Join(out, " ")
}
