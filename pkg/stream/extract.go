package stream

import (
	"context"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
)

// urlExtractor resolves a canonical media URL to a direct audio stream URL
// without spawning a process.
type urlExtractor interface {
	bestAudioURL(ctx context.Context, url string) (string, error)
}

// youtubeExtractor uses the pure-Go youtube client for the fallback path.
type youtubeExtractor struct {
	client *youtube.Client
}

func newYouTubeExtractor() *youtubeExtractor {
	return &youtubeExtractor{client: &youtube.Client{}}
}

func (e *youtubeExtractor) bestAudioURL(ctx context.Context, url string) (string, error) {
	video, err := e.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", errors.Wrap(err, "resolve video")
	}

	formats := video.Formats.Type("audio")
	if len(formats) == 0 {
		return "", errors.New("no audio-only formats")
	}

	best := bestAudioFormat(formats)
	streamURL, err := e.client.GetStreamURLContext(ctx, video, best)
	if err != nil {
		return "", errors.Wrap(err, "resolve stream url")
	}
	return streamURL, nil
}

// bestAudioFormat picks the highest-bitrate format from a non-empty list.
func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	best := &formats[0]
	for i := range formats {
		if formats[i].Bitrate > best.Bitrate {
			best = &formats[i]
		}
	}
	return best
}
