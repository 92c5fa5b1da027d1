package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/miyabito/kanade/pkg/session"
)

// ErrNotFound is returned when a search yields nothing playable.
var ErrNotFound = errors.New("no songs found")

const (
	searchResults = 5

	// Quality filter bounds: long enough to be a song, short enough to not
	// be a compilation or a rebroadcast.
	minDurationSec = 30
	maxDurationSec = 1800
	minViews       = 1000
)

// Resolver turns free-text queries into playable songs using yt-dlp search.
type Resolver struct {
	ytdlpPath string
	log       *zap.Logger
}

// New creates a resolver that shells out to the given yt-dlp binary.
func New(ytdlpPath string, log *zap.Logger) *Resolver {
	return &Resolver{ytdlpPath: ytdlpPath, log: log}
}

// candidate is the slice of yt-dlp's --dump-json output the filter needs.
type candidate struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	WebpageURL string  `json:"webpage_url"`
	Duration   float64 `json:"duration"`
	ViewCount  float64 `json:"view_count"`
}

func (c candidate) url() string {
	if c.WebpageURL != "" {
		return c.WebpageURL
	}
	return "https://www.youtube.com/watch?v=" + c.ID
}

// Resolve searches for the query (expanding preset aliases first) and picks
// the best candidate. Requester is left empty for the caller to fill in.
func (r *Resolver) Resolve(ctx context.Context, query string) (*session.Song, error) {
	query = expandPreset(query)

	candidates, err := r.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}

	picked := pickCandidate(candidates)
	r.log.Info("resolved song",
		zap.String("query", query),
		zap.String("title", picked.Title),
		zap.Float64("duration_sec", picked.Duration),
	)

	return &session.Song{
		ID:       uuid.NewString(),
		Title:    picked.Title,
		URL:      picked.url(),
		Duration: formatDuration(picked.Duration),
	}, nil
}

func (r *Resolver) search(ctx context.Context, query string) ([]candidate, error) {
	cmd := exec.CommandContext(ctx, r.ytdlpPath,
		"--dump-json",
		"--no-playlist",
		"--no-warnings",
		fmt.Sprintf("ytsearch%d:%s", searchResults, query))

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	candidates := parseSearchOutput(out.String())

	// yt-dlp exits non-zero when some results fail to extract; as long as we
	// got candidates the search succeeded.
	if len(candidates) == 0 {
		if runErr != nil {
			r.log.Warn("yt-dlp search failed",
				zap.String("query", query),
				zap.String("stderr", strings.TrimSpace(stderr.String())),
				zap.Error(runErr),
			)
			return nil, errors.Wrap(ErrNotFound, runErr.Error())
		}
		return nil, ErrNotFound
	}
	return candidates, nil
}

// parseSearchOutput decodes one JSON object per line, skipping lines that do
// not parse.
func parseSearchOutput(out string) []candidate {
	var candidates []candidate
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var c candidate
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			continue
		}
		if c.Title == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// pickCandidate returns the first result that passes the quality filter, or
// the first raw result when none do. The caller always gets something back.
func pickCandidate(candidates []candidate) candidate {
	for _, c := range candidates {
		if isGood(c) {
			return c
		}
	}
	return candidates[0]
}

func isGood(c candidate) bool {
	if c.Duration <= minDurationSec || c.Duration >= maxDurationSec {
		return false
	}
	title := strings.ToLower(c.Title)
	if strings.Contains(title, "#shorts") || strings.Contains(title, "live") {
		return false
	}
	return c.ViewCount > minViews
}

// formatDuration renders seconds as M:SS or H:MM:SS, "Unknown" when the
// source reported no duration.
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "Unknown"
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
