package commands

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand displays all available commands and the preset song aliases.
func HelpCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := &discordgo.MessageEmbed{
		Title:       "Kanade",
		Description: "Here are all the available commands for the bot:",
		Color:       colorInfo,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Music Commands",
				Value: strings.Join([]string{
					"• `!p <song>` / `!play <song>` - Search and play a song",
					"• `!skip` - Skip the currently playing song",
					"• `!stop` - Stop playback and disconnect from voice channel",
					"• `!queue` / `!q` - Show the current queue",
					"• `!np` - Show the currently playing song",
				}, "\n"),
				Inline: false,
			},
			{
				Name: "Quick Songs",
				Value: strings.Join([]string{
					"• `!p lofi` - Lofi hip hop",
					"• `!p jazz` - Smooth jazz",
					"• `!p piano` - Relaxing piano",
					"• `!p chill` - Chill music",
					"• `!p minecraft` - Minecraft soundtrack",
					"• `!p classical` - Classical music",
					"• `!p rain` - Rain sounds",
					"• `!p nature` - Nature sounds",
					"• `!p study` - Study music",
					"• `!p rock` - Classic rock",
					"• `!p pop` - Pop hits",
				}, "\n"),
				Inline: false,
			},
			{
				Name: "Other Commands",
				Value: strings.Join([]string{
					"• `!help` - Show this help message",
					"• `!ping` - Check if the bot is alive",
				}, "\n"),
				Inline: false,
			},
			{
				Name: "💡 Tips",
				Value: strings.Join([]string{
					"• Join a voice channel **before** using music commands",
					"• The bot leaves automatically after 5 minutes of inactivity",
				}, "\n"),
				Inline: false,
			},
		},
	}

	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
