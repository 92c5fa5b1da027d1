// Package player holds the per-guild playback state machine: it pulls songs
// from the session queue, opens audio streams, feeds the voice transport and
// advances on completion or error.
package player

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/miyabito/kanade/pkg/session"
	"github.com/miyabito/kanade/pkg/stream"
)

const defaultIdleTimeout = 5 * time.Minute

// Controller drives playback for all guilds. Cross-guild operations are
// fully independent; per-guild sequencing is enforced by the session record.
type Controller struct {
	store       *session.Store
	provider    stream.Provider
	notify      Notifier
	newEncoder  EncoderFactory
	idleTimeout time.Duration
	log         *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithIdleTimeout overrides the cool-down before an idle connection is
// released.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Controller) { c.idleTimeout = d }
}

// WithEncoderFactory overrides how per-track opus encoders are built.
func WithEncoderFactory(f EncoderFactory) Option {
	return func(c *Controller) { c.newEncoder = f }
}

// New creates a playback controller.
func New(store *session.Store, provider stream.Provider, notify Notifier, log *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		provider:    provider,
		notify:      notify,
		newEncoder:  NewOpusEncoder,
		idleTimeout: defaultIdleTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enqueue appends a song to the session queue. When no playback is in
// flight it starts the advance loop and reports started=true; otherwise an
// AddedToQueue event is emitted.
func (c *Controller) Enqueue(s *session.Session, song *session.Song) (pos int, started bool) {
	pos, claimed := s.EnqueueAndClaim(song)

	c.log.Info("queued song",
		zap.String("guild_id", s.GuildID()),
		zap.String("song_id", song.ID),
		zap.String("title", song.Title),
		zap.Int("position", pos),
	)

	if claimed {
		go c.advance(s)
		return pos, true
	}

	c.notify.AddedToQueue(s.AnnounceChannel(), AddedToQueue{
		Title:     song.Title,
		URL:       song.URL,
		Requester: song.Requester,
		Position:  pos,
		Duration:  song.Duration,
	})
	return pos, false
}

// Skip forces the current track to stop, which drives the idle signal and
// hence the next advance. Fails when nothing is playing.
func (c *Controller) Skip(guildID string) error {
	s, ok := c.store.Lookup(guildID)
	if !ok || !s.IsPlaying() {
		return ErrNothingPlaying
	}
	p := s.PlayerHandle()
	if p == nil {
		return ErrNothingPlaying
	}
	p.Stop()
	c.log.Info("skipped current song", zap.String("guild_id", guildID))
	return nil
}

// Stop clears the queue and the current song, stops the player, tears down
// the transport and cancels any idle timer, all atomically observable.
func (c *Controller) Stop(guildID string) error {
	s, ok := c.store.Lookup(guildID)
	if !ok {
		return ErrNotConnected
	}
	tr, p, ok := s.Shutdown()
	if !ok {
		return ErrNotConnected
	}
	if p != nil {
		p.Stop()
	}
	tr.Disconnect()
	c.log.Info("stopped playback and disconnected", zap.String("guild_id", guildID))
	return nil
}

// NotifyReset emits a Disconnected event for a session that was wiped after
// an unexpected transport loss. Wired as the gateway's reset callback.
func (c *Controller) NotifyReset(s *session.Session) {
	c.notify.Disconnected(s.AnnounceChannel(), Disconnected{Reason: "voice transport dropped"})
}

// Shutdown releases every session's resources. Used on process exit.
func (c *Controller) Shutdown() {
	c.store.ForEach(func(s *session.Session) {
		if tr, p, ok := s.Shutdown(); ok {
			if p != nil {
				p.Stop()
			}
			tr.Disconnect()
		}
	})
}

// advance is the core loop: invoked whenever a playback slot frees up. A
// song that fails to stream is reported and skipped so one bad entry never
// stalls the queue.
func (c *Controller) advance(s *session.Session) {
	for {
		song, ok := s.NextTrack()
		if !ok {
			if s.Conn() == nil {
				return
			}
			c.log.Debug("queue drained, arming idle disconnect",
				zap.String("guild_id", s.GuildID()),
				zap.Duration("timeout", c.idleTimeout),
			)
			s.ArmIdle(c.idleTimeout, func() { c.idleDisconnect(s) })
			return
		}

		ctx, cancel := context.WithCancel(context.Background())

		rc, err := c.provider.Open(ctx, song.URL)
		if err != nil {
			cancel()
			c.log.Warn("failed to open stream",
				zap.String("guild_id", s.GuildID()),
				zap.String("song_id", song.ID),
				zap.Error(err),
			)
			c.notify.PlaybackError(s.AnnounceChannel(), PlaybackError{
				Title:   song.Title,
				Message: "could not open an audio stream",
			})
			continue
		}

		enc, err := c.newEncoder()
		if err != nil {
			cancel()
			rc.Close()
			c.log.Error("failed to create encoder", zap.Error(err))
			c.notify.PlaybackError(s.AnnounceChannel(), PlaybackError{
				Title:   song.Title,
				Message: "audio encoder unavailable",
			})
			continue
		}

		tr, ok := s.BeginTrack(&track{cancel: cancel, src: rc})
		if !ok {
			// Transport vanished between dequeue and start (session reset or
			// stop); BeginTrack rolled the dequeue back.
			cancel()
			rc.Close()
			return
		}

		// Emitted before the feed goroutine starts so notifications observe
		// the same order as the state transitions.
		c.notify.NowPlaying(s.AnnounceChannel(), NowPlaying{
			Title:       song.Title,
			URL:         song.URL,
			Requester:   song.Requester,
			QueueLength: s.QueueLen(),
		})
		c.log.Info("now playing",
			zap.String("guild_id", s.GuildID()),
			zap.String("song_id", song.ID),
			zap.String("title", song.Title),
		)

		go c.feed(ctx, s, song, tr, enc, rc)
		return
	}
}

func (c *Controller) feed(ctx context.Context, s *session.Session, song *session.Song, tr session.Transport, enc Encoder, rc io.ReadCloser) {
	err := streamFrames(ctx, tr, enc, rc)
	rc.Close()

	if err != nil && ctx.Err() == nil {
		c.log.Warn("playback failed mid-stream",
			zap.String("guild_id", s.GuildID()),
			zap.String("song_id", song.ID),
			zap.Error(err),
		)
		c.notify.PlaybackError(s.AnnounceChannel(), PlaybackError{
			Title:   song.Title,
			Message: err.Error(),
		})
	}

	c.advance(s)
}

// streamFrames pushes 20ms PCM frames through the encoder into the
// transport. The send blocks when the transport is slow, so a stalled
// consumer applies back-pressure to the decoder instead of buffering.
func streamFrames(ctx context.Context, tr session.Transport, enc Encoder, rc io.Reader) error {
	tr.Speaking(true)
	defer tr.Speaking(false)

	buf := make([]byte, frameBytes)
	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := io.ReadFull(rc, buf); err != nil {
			if ctx.Err() != nil || err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil // natural end of stream, or we closed it
			}
			return errors.Wrap(err, "read pcm frame")
		}

		packet, err := enc.Encode(pcmToInt16(buf), frameSize, frameBytes)
		if err != nil {
			return errors.Wrap(err, "encode opus frame")
		}

		select {
		case tr.OpusSend() <- packet:
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Controller) idleDisconnect(s *session.Session) {
	tr, ok := s.DisconnectIfIdle()
	if !ok {
		return // playback resumed before the timer fired
	}
	tr.Disconnect()
	c.log.Info("disconnected after idle cool-down", zap.String("guild_id", s.GuildID()))
	c.notify.Disconnected(s.AnnounceChannel(), Disconnected{Reason: "inactivity"})
}

// track is the owned handle for one playing song: cancelling the context
// stops the frame loop and closing the source kills the processes behind it.
type track struct {
	cancel context.CancelFunc
	src    io.Closer
	once   sync.Once
}

func (t *track) Stop() {
	t.once.Do(func() {
		t.cancel()
		t.src.Close()
	})
}
