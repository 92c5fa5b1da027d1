// Package stream produces live decoded-audio byte streams: raw interleaved
// signed 16-bit little-endian PCM, 48kHz, stereo, no container framing.
package stream

import (
	"context"
	"io"
	"os/exec"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrStreamUnavailable is returned when neither the primary pipeline nor the
// fallback could be constructed. A stream that errors after Open returns is
// the caller's problem, not the provider's.
var ErrStreamUnavailable = errors.New("audio stream unavailable")

// Provider opens a decoded PCM stream for a canonical media URL.
type Provider interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// PCMProvider extracts and transcodes audio with external processes.
// Primary strategy: yt-dlp piping raw audio into ffmpeg. Fallback when the
// primary fails to spawn: in-process extraction of a direct stream URL and a
// single ffmpeg decoding it.
type PCMProvider struct {
	ytdlpPath  string
	ffmpegPath string
	extractor  urlExtractor
	log        *zap.Logger
}

// NewPCMProvider creates a provider using the given binaries.
func NewPCMProvider(ytdlpPath, ffmpegPath string, log *zap.Logger) *PCMProvider {
	return &PCMProvider{
		ytdlpPath:  ytdlpPath,
		ffmpegPath: ffmpegPath,
		extractor:  newYouTubeExtractor(),
		log:        log,
	}
}

// Open returns a live PCM stream for url. Closing the stream kills every
// process behind it.
func (p *PCMProvider) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	rc, primaryErr := p.openPipeline(ctx, url)
	if primaryErr == nil {
		return rc, nil
	}

	p.log.Warn("primary extraction pipeline failed to start, falling back",
		zap.String("url", url),
		zap.Error(primaryErr),
	)

	rc, fallbackErr := p.openFallback(ctx, url)
	if fallbackErr != nil {
		return nil, wrapUnavailable(primaryErr, fallbackErr)
	}
	return rc, nil
}

func wrapUnavailable(primaryErr, fallbackErr error) error {
	return errors.Wrapf(ErrStreamUnavailable, "primary: %v; fallback: %v", primaryErr, fallbackErr)
}

// openPipeline spawns the yt-dlp | ffmpeg pair. Either process exiting kills
// the other so neither can outlive its session.
func (p *PCMProvider) openPipeline(ctx context.Context, url string) (io.ReadCloser, error) {
	extract := exec.CommandContext(ctx, p.ytdlpPath, extractArgs(url)...)
	transcode := exec.CommandContext(ctx, p.ffmpegPath, transcodeArgs()...)

	rawAudio, err := extract.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "yt-dlp stdout pipe")
	}
	transcode.Stdin = rawAudio

	pcm, err := transcode.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "ffmpeg stdout pipe")
	}

	if err := extract.Start(); err != nil {
		return nil, errors.Wrap(err, "spawn yt-dlp")
	}
	if err := transcode.Start(); err != nil {
		kill(extract)
		extract.Wait()
		return nil, errors.Wrap(err, "spawn ffmpeg")
	}

	s := &procStream{pcm: pcm, cmds: []*exec.Cmd{extract, transcode}}

	// Cross-kill: whichever process exits first takes the other with it.
	g := new(errgroup.Group)
	g.Go(func() error {
		err := extract.Wait()
		kill(transcode)
		return errors.Wrap(err, "yt-dlp")
	})
	g.Go(func() error {
		err := transcode.Wait()
		kill(extract)
		return errors.Wrap(err, "ffmpeg")
	})
	go func() {
		if err := g.Wait(); err != nil {
			p.log.Debug("extraction pipeline exited", zap.String("url", url), zap.Error(err))
		}
	}()

	return s, nil
}

// openFallback resolves a direct audio-only stream URL in-process and decodes
// it with a single ffmpeg at the highest available audio quality.
func (p *PCMProvider) openFallback(ctx context.Context, url string) (io.ReadCloser, error) {
	streamURL, err := p.extractor.bestAudioURL(ctx, url)
	if err != nil {
		return nil, err
	}

	decode := exec.CommandContext(ctx, p.ffmpegPath, fallbackArgs(streamURL)...)
	pcm, err := decode.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "ffmpeg stdout pipe")
	}
	if err := decode.Start(); err != nil {
		return nil, errors.Wrap(err, "spawn ffmpeg")
	}

	s := &procStream{pcm: pcm, cmds: []*exec.Cmd{decode}}
	go func() {
		if err := decode.Wait(); err != nil {
			p.log.Debug("fallback decoder exited", zap.String("url", url), zap.Error(err))
		}
	}()
	return s, nil
}

// procStream is the PCM output of one or two owned processes. Close tears
// all of them down; the per-process waiters reap them.
type procStream struct {
	pcm  io.ReadCloser
	cmds []*exec.Cmd
	once sync.Once
}

func (s *procStream) Read(b []byte) (int, error) {
	return s.pcm.Read(b)
}

func (s *procStream) Close() error {
	s.once.Do(func() {
		s.pcm.Close()
		for _, cmd := range s.cmds {
			kill(cmd)
		}
	})
	return nil
}

func kill(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}

func extractArgs(url string) []string {
	return []string{
		"--extract-audio",
		"--audio-format", "best",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--output", "-",
		url,
	}
}

func transcodeArgs() []string {
	return []string{
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", "48000",
		"-ac", "2",
		"-acodec", "pcm_s16le",
		"pipe:1",
	}
}

func fallbackArgs(streamURL string) []string {
	return []string{
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", streamURL,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", "48000",
		"-ac", "2",
		"pipe:1",
	}
}
