package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// NowPlayingCommand shows the song currently being played.
func NowPlayingCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess, ok := deps.Store.Lookup(m.GuildID)
	if !ok {
		sendEmbedMessage(s, m.ChannelID, "🔇 Nothing Playing", "No song is currently playing.", colorInfo)
		return
	}

	current := sess.Current()
	if !sess.IsPlaying() || current == nil {
		sendEmbedMessage(s, m.ChannelID, "🔇 Nothing Playing", "No song is currently playing.", colorInfo)
		return
	}

	description := fmt.Sprintf("[%s](%s)\nDuration: `%s`\nRequested by: %s",
		current.Title, current.URL, current.Duration, current.Requester)
	sendEmbedMessage(s, m.ChannelID, "🎵 Now Playing", description, colorPlaying)
}
