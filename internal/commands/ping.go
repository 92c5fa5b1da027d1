package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// PingCommand reports the gateway heartbeat latency.
func PingCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("🏓 Pong! Latency: %dms", s.HeartbeatLatency().Milliseconds()))
}
