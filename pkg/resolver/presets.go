package resolver

import "strings"

// presets maps short keywords to canned search phrases for common ambient
// genres, so "!p lofi" finds the usual stream instead of whatever happens to
// match the bare word.
var presets = map[string]string{
	"lofi":      "lofi hip hop radio - beats to relax/study to",
	"jazz":      "smooth jazz instrumental music",
	"piano":     "relaxing piano music",
	"chill":     "chill beats to relax",
	"minecraft": "minecraft background music",
	"classical": "classical music for studying",
	"rain":      "rain sounds for sleeping",
	"nature":    "forest sounds relaxing",
	"study":     "study music concentration",
	"rock":      "classic rock music",
	"pop":       "popular music hits",
}

// expandPreset substitutes a preset alias with its canonical search phrase.
// Matching is case-insensitive on the trimmed query.
func expandPreset(query string) string {
	if phrase, ok := presets[strings.ToLower(strings.TrimSpace(query))]; ok {
		return phrase
	}
	return query
}
