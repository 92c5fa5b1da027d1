// Package presence keeps the bot's Discord status line in sync with playback.
package presence

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const defaultActivity = "🎵 !help for commands"

// Manager updates the bot's presence. Safe for concurrent use; the last
// writer wins, which is fine for a status line.
type Manager struct {
	mu      sync.Mutex
	session *discordgo.Session
	log     *zap.Logger
}

// NewManager creates a presence manager bound to a Discord session.
func NewManager(session *discordgo.Session, log *zap.Logger) *Manager {
	return &Manager{session: session, log: log}
}

// SetDefault shows the standing help hint. Called once after the gateway
// opens and again whenever music presence is cleared.
func (m *Manager) SetDefault() {
	m.update(defaultActivity, discordgo.ActivityTypeGame)
}

// UpdateMusicPresence shows the currently playing song title.
func (m *Manager) UpdateMusicPresence(title string) {
	m.update(title, discordgo.ActivityTypeListening)
}

// ClearMusicPresence returns the status line to the default hint.
func (m *Manager) ClearMusicPresence() {
	m.SetDefault()
}

func (m *Manager) update(name string, typ discordgo.ActivityType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{Name: name, Type: typ},
		},
	})
	if err != nil {
		m.log.Warn("failed to update presence", zap.Error(err))
	}
}
