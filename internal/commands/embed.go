package commands

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	colorPlaying = 0x00FF00
	colorQueued  = 0xFFA500
	colorError   = 0xFF0000
	colorInfo    = 0x0099FF
)

// sendEmbedMessage sends a simple titled embed to a channel.
func sendEmbedMessage(s *discordgo.Session, channelID, title, description string, color int) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil && deps != nil {
		deps.Log.Warn("failed to send embed",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
	}
}
