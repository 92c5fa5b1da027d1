package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPreset(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"known preset", "lofi", "lofi hip hop radio - beats to relax/study to"},
		{"case insensitive", "LoFi", "lofi hip hop radio - beats to relax/study to"},
		{"surrounding whitespace", "  jazz  ", "smooth jazz instrumental music"},
		{"not a preset", "never gonna give you up", "never gonna give you up"},
		{"preset inside longer query stays as-is", "lofi girl stream", "lofi girl stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandPreset(tt.query))
		})
	}
}

func TestEveryPresetHasAPhrase(t *testing.T) {
	for alias, phrase := range presets {
		assert.NotEmpty(t, phrase, "preset %q", alias)
	}
	assert.Len(t, presets, 11)
}

func good(title string) candidate {
	return candidate{ID: "x", Title: title, Duration: 240, ViewCount: 50000}
}

func TestIsGood(t *testing.T) {
	tests := []struct {
		name string
		c    candidate
		want bool
	}{
		{"typical song", good("A Nice Song"), true},
		{"too short", candidate{Title: "clip", Duration: 20, ViewCount: 50000}, false},
		{"boundary short", candidate{Title: "clip", Duration: 30, ViewCount: 50000}, false},
		{"too long", candidate{Title: "mix", Duration: 7200, ViewCount: 50000}, false},
		{"boundary long", candidate{Title: "mix", Duration: 1800, ViewCount: 50000}, false},
		{"shorts tag", good("song #shorts"), false},
		{"live rebroadcast", good("Concert LIVE in Tokyo"), false},
		{"too few views", candidate{Title: "obscure", Duration: 240, ViewCount: 900}, false},
		{"boundary views", candidate{Title: "obscure", Duration: 240, ViewCount: 1000}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isGood(tt.c))
		})
	}
}

func TestPickCandidate(t *testing.T) {
	t.Run("first good wins", func(t *testing.T) {
		got := pickCandidate([]candidate{
			{Title: "short clip", Duration: 10, ViewCount: 50000},
			good("the one"),
			good("also fine"),
		})
		assert.Equal(t, "the one", got.Title)
	})

	t.Run("falls back to first raw result", func(t *testing.T) {
		got := pickCandidate([]candidate{
			{Title: "live stream", Duration: 0, ViewCount: 10},
			{Title: "another dud", Duration: 5, ViewCount: 2},
		})
		assert.Equal(t, "live stream", got.Title)
	})
}

func TestParseSearchOutput(t *testing.T) {
	out := `
{"id":"abc","title":"First Song","webpage_url":"https://youtube.com/watch?v=abc","duration":241,"view_count":12345}
not json at all
{"id":"def","title":"","duration":100}
{"id":"ghi","title":"Second Song","duration":90.5,"view_count":42}
`
	candidates := parseSearchOutput(out)
	require.Len(t, candidates, 2)
	assert.Equal(t, "First Song", candidates[0].Title)
	assert.Equal(t, 241.0, candidates[0].Duration)
	assert.Equal(t, "Second Song", candidates[1].Title)

	assert.Empty(t, parseSearchOutput(""))
	assert.Empty(t, parseSearchOutput("\n\n"))
}

func TestCandidateURL(t *testing.T) {
	withURL := candidate{ID: "abc", WebpageURL: "https://youtube.com/watch?v=abc"}
	assert.Equal(t, "https://youtube.com/watch?v=abc", withURL.url())

	idOnly := candidate{ID: "abc"}
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", idOnly.url())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "Unknown"},
		{-5, "Unknown"},
		{59, "0:59"},
		{61, "1:01"},
		{240, "4:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.seconds), "seconds=%v", tt.seconds)
	}
}
