// Package handlers routes incoming Discord events to command handlers.
package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/miyabito/kanade/internal/commands"
)

// MessageHandler dispatches prefix commands. Bot messages are ignored.
func MessageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	if !strings.HasPrefix(m.Content, "!") {
		return
	}

	args := strings.Fields(m.Content)
	command := strings.ToLower(strings.TrimPrefix(args[0], "!"))

	switch command {
	case "p", "play":
		commands.PlayCommand(s, m, args[1:])
	case "skip":
		commands.SkipCommand(s, m)
	case "stop":
		commands.StopCommand(s, m)
	case "queue", "q":
		commands.QueueCommand(s, m)
	case "np":
		commands.NowPlayingCommand(s, m)
	case "help":
		commands.HelpCommand(s, m)
	case "ping":
		commands.PingCommand(s, m)
	}
}
