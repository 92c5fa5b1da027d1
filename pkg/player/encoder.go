package player

import (
	"github.com/pkg/errors"
	"layeh.com/gopus"
)

const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960                      // samples per channel per 20ms frame
	frameBytes = frameSize * channels * 2 // s16le
)

// Encoder turns one PCM frame into an opus packet. It is an interface so the
// state machine can be tested without a cgo opus build.
type Encoder interface {
	Encode(pcm []int16, frameSize, maxBytes int) ([]byte, error)
}

// EncoderFactory builds one encoder per track.
type EncoderFactory func() (Encoder, error)

type opusEncoder struct {
	enc *gopus.Encoder
}

// NewOpusEncoder creates a 48kHz stereo opus encoder at 128kbps.
func NewOpusEncoder() (Encoder, error) {
	enc, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return nil, errors.Wrap(err, "create opus encoder")
	}
	enc.SetBitrate(128000)
	return &opusEncoder{enc: enc}, nil
}

func (e *opusEncoder) Encode(pcm []int16, frameSize, maxBytes int) ([]byte, error) {
	return e.enc.Encode(pcm, frameSize, maxBytes)
}

// pcmToInt16 reinterprets little-endian s16 bytes as samples.
func pcmToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}
