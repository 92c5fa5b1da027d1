// Package commands implements the prefix command surface. Handlers parse the
// message, resolve the guild session and delegate to the playback controller.
package commands

import (
	"go.uber.org/zap"

	"github.com/miyabito/kanade/internal/presence"
	"github.com/miyabito/kanade/pkg/player"
	"github.com/miyabito/kanade/pkg/resolver"
	"github.com/miyabito/kanade/pkg/session"
	"github.com/miyabito/kanade/pkg/voice"
)

// Deps holds the wiring every command handler needs.
type Deps struct {
	Store      *session.Store
	Resolver   *resolver.Resolver
	Gateway    *voice.Gateway
	Controller *player.Controller
	Presence   *presence.Manager
	Log        *zap.Logger
}

var deps *Deps

// Configure injects the command dependencies. Must be called before the
// Discord session opens.
func Configure(d *Deps) {
	deps = d
}
