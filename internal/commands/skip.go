package commands

import (
	"github.com/bwmarrin/discordgo"
)

// SkipCommand stops the current song; the playback loop advances on its own.
func SkipCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if err := deps.Controller.Skip(m.GuildID); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing!", colorError)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "⏭️ Skipped", "Skipped to the next song.", colorInfo)
}
