package voice

import (
	"github.com/bwmarrin/discordgo"
)

// conn adapts a discordgo voice connection to the session.Transport the
// controller drives. Keeping discordgo behind this seam is what lets the
// playback state machine run against fakes in tests.
type conn struct {
	vc *discordgo.VoiceConnection
}

func (c *conn) OpusSend() chan<- []byte {
	return c.vc.OpusSend
}

func (c *conn) Speaking(b bool) error {
	return c.vc.Speaking(b)
}

func (c *conn) Disconnect() error {
	return c.vc.Disconnect()
}

func (c *conn) Ready() bool {
	return c.vc.Ready
}
