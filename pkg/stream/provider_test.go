package stream

import (
	"context"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractArgs(t *testing.T) {
	args := extractArgs("https://youtube.com/watch?v=abc")

	assert.Equal(t, []string{
		"--extract-audio",
		"--audio-format", "best",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--output", "-",
		"https://youtube.com/watch?v=abc",
	}, args)
}

func TestTranscodeArgs(t *testing.T) {
	args := transcodeArgs()

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-i pipe:0")
	assert.Contains(t, joined, "-f s16le")
	assert.Contains(t, joined, "-ar 48000")
	assert.Contains(t, joined, "-ac 2")
	assert.Equal(t, "pipe:1", args[len(args)-1])
}

func TestFallbackArgs(t *testing.T) {
	args := fallbackArgs("https://cdn.example.com/audio")

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-reconnect 1")
	assert.Contains(t, joined, "-i https://cdn.example.com/audio")
	assert.Contains(t, joined, "-ar 48000")
	assert.Equal(t, "pipe:1", args[len(args)-1])
}

func TestWrapUnavailable(t *testing.T) {
	err := wrapUnavailable(errors.New("spawn yt-dlp: not found"), errors.New("no audio-only formats"))

	assert.ErrorIs(t, err, ErrStreamUnavailable)
	assert.Contains(t, err.Error(), "spawn yt-dlp")
	assert.Contains(t, err.Error(), "no audio-only formats")
}

func TestBestAudioFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 249, Bitrate: 50000},
		{ItagNo: 251, Bitrate: 160000},
		{ItagNo: 250, Bitrate: 70000},
	}

	best := bestAudioFormat(formats)
	assert.Equal(t, 251, best.ItagNo)
}

func TestBestAudioFormatSingle(t *testing.T) {
	formats := youtube.FormatList{{ItagNo: 140, Bitrate: 128000}}
	assert.Equal(t, 140, bestAudioFormat(formats).ItagNo)
}

type fakeExtractor struct {
	url string
	err error
}

func (f *fakeExtractor) bestAudioURL(ctx context.Context, url string) (string, error) {
	return f.url, f.err
}

func TestOpenBothPathsFail(t *testing.T) {
	p := &PCMProvider{
		ytdlpPath:  "/nonexistent/yt-dlp",
		ffmpegPath: "/nonexistent/ffmpeg",
		extractor:  &fakeExtractor{err: errors.New("no audio-only formats")},
		log:        zap.NewNop(),
	}

	rc, err := p.Open(context.Background(), "https://youtube.com/watch?v=abc")
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, ErrStreamUnavailable)
}

func TestOpenFallsBackWhenPrimaryCannotSpawn(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a posix shell")
	}

	// The fallback decoder only needs to spawn for Open to succeed; sh will
	// exit on the unknown flags, which is the stream's problem, not Open's.
	p := &PCMProvider{
		ytdlpPath:  "/nonexistent/yt-dlp",
		ffmpegPath: "/bin/sh",
		extractor:  &fakeExtractor{url: "https://cdn.example.com/audio"},
		log:        zap.NewNop(),
	}

	rc, err := p.Open(context.Background(), "https://youtube.com/watch?v=abc")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.NoError(t, rc.Close())
}

type nopReadCloser struct {
	io.Reader
	closed bool
}

func (n *nopReadCloser) Close() error {
	n.closed = true
	return nil
}

func TestProcStreamCloseIsIdempotent(t *testing.T) {
	inner := &nopReadCloser{Reader: strings.NewReader("pcm")}
	s := &procStream{pcm: inner}

	buf := make([]byte, 3)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "pcm", string(buf[:n]))

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.True(t, inner.closed)
}
