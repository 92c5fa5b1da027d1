package commands

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/miyabito/kanade/pkg/voice"
)

const resolveTimeout = 30 * time.Second

// PlayCommand resolves a query (or preset alias) and queues it for the
// caller's guild, joining their voice channel if the bot is not connected.
func PlayCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error",
			"Please provide a song name, YouTube URL, or a preset like `lofi` (see `!help`).", colorError)
		return
	}

	voiceChannelID := findUserVoiceChannel(s, m.GuildID, m.Author.ID)
	if voiceChannelID == "" {
		sendEmbedMessage(s, m.ChannelID, "❌ Error",
			"You need to be in a voice channel to play music!", colorError)
		return
	}

	if err := checkVoicePermissions(s, voiceChannelID); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error",
			"I don't have permission to join and speak in your voice channel!", colorError)
		return
	}

	searching, _ := s.ChannelMessageSend(m.ChannelID, "🔍 Searching...")

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	song, err := deps.Resolver.Resolve(ctx, query)

	if searching != nil {
		s.ChannelMessageDelete(m.ChannelID, searching.ID)
	}
	if err != nil {
		deps.Log.Warn("resolve failed",
			zap.String("guild_id", m.GuildID),
			zap.String("query", query),
			zap.Error(err),
		)
		sendEmbedMessage(s, m.ChannelID, "❌ No Results",
			"Couldn't find anything for: **"+query+"**", colorError)
		return
	}
	song.Requester = m.Author.Mention()

	sess := deps.Store.GetOrCreate(m.GuildID)
	sess.SetAnnounceChannel(m.ChannelID)

	if err := deps.Gateway.EnsureConnection(sess, m.GuildID, voiceChannelID); err != nil {
		if errors.Is(err, voice.ErrConnectTimeout) {
			sendEmbedMessage(s, m.ChannelID, "❌ Error",
				"Took too long to join the voice channel. Please try again.", colorError)
		} else {
			sendEmbedMessage(s, m.ChannelID, "❌ Error",
				"Failed to join your voice channel.", colorError)
		}
		return
	}

	deps.Controller.Enqueue(sess, song)
}

// findUserVoiceChannel returns the voice channel the user currently occupies
// in the guild, or "" when they are not in one.
func findUserVoiceChannel(s *discordgo.Session, guildID, userID string) string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

// checkVoicePermissions verifies the bot can connect and speak in the channel.
func checkVoicePermissions(s *discordgo.Session, channelID string) error {
	perms, err := s.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		return err
	}
	need := int64(discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak)
	if perms&need != need {
		return voice.ErrPermissionDenied
	}
	return nil
}
