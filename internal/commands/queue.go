package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/miyabito/kanade/pkg/session"
)

const queueDisplayLimit = 10

// QueueCommand shows the current song and the next entries in the queue.
func QueueCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess, ok := deps.Store.Lookup(m.GuildID)
	if !ok {
		sendEmbedMessage(s, m.ChannelID, "📋 Queue", "The queue is empty.", colorInfo)
		return
	}

	current, queue, playing := sess.Snapshot()
	if !playing && len(queue) == 0 {
		sendEmbedMessage(s, m.ChannelID, "📋 Queue", "The queue is empty.", colorInfo)
		return
	}

	sendEmbedMessage(s, m.ChannelID, "📋 Queue", renderQueue(current, queue, playing), colorInfo)
}

// renderQueue builds the queue listing: the current song, then up to ten
// upcoming entries, then a one-line summary of the rest.
func renderQueue(current *session.Song, queue []*session.Song, playing bool) string {
	var b strings.Builder

	if playing && current != nil {
		fmt.Fprintf(&b, "**Now Playing:** [%s](%s)\n", current.Title, current.URL)
	}

	if len(queue) == 0 {
		b.WriteString("\nNothing else is queued.")
		return b.String()
	}

	b.WriteString("\n**Up Next:**\n")
	for i, song := range queue {
		if i == queueDisplayLimit {
			fmt.Fprintf(&b, "... and %d more songs", len(queue)-queueDisplayLimit)
			break
		}
		fmt.Fprintf(&b, "%d. [%s](%s) `%s`\n", i+1, song.Title, song.URL, song.Duration)
	}

	return strings.TrimRight(b.String(), "\n")
}
