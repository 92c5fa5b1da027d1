// Command audition resolves a query and plays the decoded PCM on the local
// speakers. A development tool for checking the resolve and stream path
// without a Discord connection.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"

	"github.com/miyabito/kanade/internal/config"
	"github.com/miyabito/kanade/pkg/resolver"
	"github.com/miyabito/kanade/pkg/stream"
)

const sampleRate = beep.SampleRate(48000)

func main() {
	flag.Parse()
	query := strings.Join(flag.Args(), " ")
	if query == "" {
		log.Fatal("usage: audition <search query or preset>")
	}

	cfg := config.LoadTools()
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	song, err := resolver.New(cfg.YtdlpPath, logger).Resolve(ctx, query)
	cancel()
	if err != nil {
		logger.Fatal("resolve failed", zap.Error(err))
	}
	logger.Info("resolved", zap.String("title", song.Title), zap.String("url", song.URL))

	provider := stream.NewPCMProvider(cfg.YtdlpPath, cfg.FfmpegPath, logger)
	rc, err := provider.Open(context.Background(), song.URL)
	if err != nil {
		logger.Fatal("stream open failed", zap.Error(err))
	}
	defer rc.Close()

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		logger.Fatal("speaker init failed", zap.Error(err))
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(&pcmStreamer{r: rc}, beep.Callback(func() { close(done) })))
	<-done
	logger.Info("playback finished")
}

// pcmStreamer adapts a raw s16le 48kHz stereo byte stream to a beep streamer.
type pcmStreamer struct {
	r   io.Reader
	err error
}

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if p.err != nil {
		return 0, false
	}

	buf := make([]byte, len(samples)*4)
	n, err := io.ReadFull(p.r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err != io.EOF {
			p.err = err
		}
		if n == 0 {
			return 0, false
		}
	}

	frames := n / 4
	for i := 0; i < frames; i++ {
		l := int16(buf[i*4]) | int16(buf[i*4+1])<<8
		r := int16(buf[i*4+2]) | int16(buf[i*4+3])<<8
		samples[i][0] = float64(l) / 32768
		samples[i][1] = float64(r) / 32768
	}
	return frames, frames > 0
}

func (p *pcmStreamer) Err() error {
	return p.err
}
