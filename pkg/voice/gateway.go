// Package voice wraps establishment and teardown of Discord voice transports.
package voice

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/miyabito/kanade/pkg/session"
)

var (
	// ErrConnectTimeout is returned when a transport does not become ready
	// within the connect deadline.
	ErrConnectTimeout = errors.New("voice connection timed out")

	// ErrPermissionDenied is returned by the command surface when the bot
	// lacks Connect or Speak on the target channel. The gateway assumes the
	// check already happened.
	ErrPermissionDenied = errors.New("missing permission to connect and speak")
)

const (
	connectTimeout = 10 * time.Second
	readyPoll      = 100 * time.Millisecond
)

// Gateway establishes voice transports and resets sessions on unexpected
// transport-level disconnects.
type Gateway struct {
	dg    *discordgo.Session
	store *session.Store
	log   *zap.Logger

	// onReset is invoked after an unexpected disconnect wiped a session.
	onReset func(s *session.Session)
}

// NewGateway creates a gateway bound to a Discord session and the store.
func NewGateway(dg *discordgo.Session, store *session.Store, log *zap.Logger) *Gateway {
	return &Gateway{dg: dg, store: store, log: log}
}

// OnReset registers a callback fired after an unexpected disconnect has
// reset a session. Used by the controller to emit a Disconnected event.
func (g *Gateway) OnReset(fn func(s *session.Session)) {
	g.onReset = fn
}

// EnsureConnection attaches a ready transport to the session, joining the
// voice channel if necessary. Idempotent when a transport already exists.
// On a connect timeout the half-open handle is torn down before returning.
func (g *Gateway) EnsureConnection(s *session.Session, guildID, channelID string) error {
	if s.Conn() != nil {
		return nil
	}

	g.log.Info("joining voice channel",
		zap.String("guild_id", guildID),
		zap.String("channel_id", channelID),
	)

	// Self-deafened, not self-muted.
	vc, err := g.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return errors.Wrap(err, "join voice channel")
	}

	deadline := time.After(connectTimeout)
	ticker := time.NewTicker(readyPoll)
	defer ticker.Stop()

	for {
		// discordgo flips Ready under the connection's own mutex.
		vc.RLock()
		ready := vc.Ready
		vc.RUnlock()
		if ready {
			break
		}

		select {
		case <-deadline:
			vc.Disconnect()
			return ErrConnectTimeout
		case <-ticker.C:
		}
	}

	s.SetConn(&conn{vc: vc})
	g.log.Info("voice connection ready", zap.String("guild_id", guildID))
	return nil
}

// HandleVoiceStateUpdate is a discordgo handler that watches for the bot
// itself dropping out of a voice channel. An unexpected disconnect resets the
// whole session: playback cannot resume transparently across a transport
// loss, so consistency wins over continuity.
func (g *Gateway) HandleVoiceStateUpdate(dg *discordgo.Session, vsu *discordgo.VoiceStateUpdate) {
	if dg.State.User == nil || vsu.UserID != dg.State.User.ID {
		return
	}
	if vsu.ChannelID != "" {
		return // joined or moved, not a disconnect
	}

	s, ok := g.store.Lookup(vsu.GuildID)
	if !ok {
		return
	}

	player, hadState := s.Reset()
	if player != nil {
		player.Stop()
	}
	if !hadState {
		return // teardown we initiated ourselves; nothing to report
	}

	g.log.Warn("voice transport dropped, session reset", zap.String("guild_id", vsu.GuildID))
	if g.onReset != nil {
		g.onReset(s)
	}
}
