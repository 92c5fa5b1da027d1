package commands

import (
	"github.com/bwmarrin/discordgo"
)

// StopCommand clears the queue, stops playback and leaves the voice channel.
func StopCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if err := deps.Controller.Stop(m.GuildID); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Not connected to a voice channel!", colorError)
		return
	}
	deps.Presence.ClearMusicPresence()
	sendEmbedMessage(s, m.ChannelID, "⏹️ Stopped", "Stopped playback and disconnected.", colorInfo)
}
