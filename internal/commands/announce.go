package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/miyabito/kanade/internal/presence"
	"github.com/miyabito/kanade/pkg/player"
)

// discordNotifier renders playback events as channel embeds and keeps the
// bot's presence in sync with what is playing.
type discordNotifier struct {
	s        *discordgo.Session
	presence *presence.Manager
	log      *zap.Logger
}

// NewNotifier builds the Discord-backed playback event sink.
func NewNotifier(s *discordgo.Session, pm *presence.Manager, log *zap.Logger) player.Notifier {
	return &discordNotifier{s: s, presence: pm, log: log}
}

func (n *discordNotifier) NowPlaying(channelID string, ev player.NowPlaying) {
	n.presence.UpdateMusicPresence(ev.Title)

	description := fmt.Sprintf("[%s](%s)\nRequested by: %s", ev.Title, ev.URL, ev.Requester)
	if ev.QueueLength > 0 {
		description += fmt.Sprintf("\nSongs in queue: %d", ev.QueueLength)
	}
	n.send(channelID, "🎵 Now Playing", description, colorPlaying)
}

func (n *discordNotifier) AddedToQueue(channelID string, ev player.AddedToQueue) {
	description := fmt.Sprintf("[%s](%s)\nPosition: %d\nDuration: `%s`\nRequested by: %s",
		ev.Title, ev.URL, ev.Position, ev.Duration, ev.Requester)
	n.send(channelID, "➕ Added to Queue", description, colorQueued)
}

func (n *discordNotifier) PlaybackError(channelID string, ev player.PlaybackError) {
	n.send(channelID, "❌ Playback Error",
		fmt.Sprintf("Couldn't play **%s**, skipping to the next song.", ev.Title), colorError)
}

func (n *discordNotifier) Disconnected(channelID string, ev player.Disconnected) {
	n.presence.ClearMusicPresence()
	n.send(channelID, "👋 Disconnected", "Left the voice channel due to "+ev.Reason+".", colorInfo)
}

func (n *discordNotifier) send(channelID, title, description string, color int) {
	if channelID == "" {
		return
	}
	embed := &discordgo.MessageEmbed{Title: title, Description: description, Color: color}
	if _, err := n.s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		n.log.Warn("failed to announce playback event",
			zap.String("channel_id", channelID),
			zap.String("event", title),
			zap.Error(err),
		)
	}
}
