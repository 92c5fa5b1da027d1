package session

import (
	"sync"
	"time"
)

// Song is a resolved, playable track. Built by the resolver; the caller fills
// in Requester before the song enters a queue.
type Song struct {
	ID        string // correlation id for logs
	Title     string
	URL       string
	Duration  string // human readable, "Unknown" when the source reports none
	Requester string
}

// Transport is the live audio delivery channel to a voice channel. The
// discordgo-backed implementation lives in pkg/voice; tests use fakes.
type Transport interface {
	OpusSend() chan<- []byte
	Speaking(bool) error
	Disconnect() error
	Ready() bool
}

// Player is the handle to whatever is currently feeding the transport.
// Stop ends the current track early; it must be safe to call more than once.
type Player interface {
	Stop()
}

// Session is the full mutable playback state for one guild. A single mutex
// guards the whole record so queue mutations, the playing flag and the idle
// timer can never be observed mid-transition.
type Session struct {
	guildID string

	mu         sync.Mutex
	queue      []*Song
	current    *Song
	playing    bool
	advancing  bool // a playback start has been claimed but NextTrack has not run yet
	conn       Transport
	player     Player
	announceCh string
	idleTimer  *time.Timer
}

func newSession(guildID string) *Session {
	return &Session{guildID: guildID}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() string {
	return s.guildID
}

// EnqueueAndClaim appends a song and reports its 1-based queue position.
// claimed is true when the caller is now responsible for starting playback:
// nothing is playing and no other caller has claimed the slot yet.
func (s *Session) EnqueueAndClaim(song *Song) (pos int, claimed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, song)
	pos = len(s.queue)

	if s.playing || s.advancing {
		return pos, false
	}
	s.advancing = true
	return pos, true
}

// NextTrack dequeues the front song and marks the session as playing. On an
// empty queue it clears current and the playing flag instead. Any pending
// idle timer is cancelled in the same critical section, so a timer can never
// fire between a dequeue and the playing flip.
func (s *Session) NextTrack() (*Song, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advancing = false

	if len(s.queue) == 0 {
		s.playing = false
		s.current = nil
		return nil, false
	}

	song := s.queue[0]
	s.queue = s.queue[1:]
	s.current = song
	s.playing = true
	s.stopIdleLocked()
	return song, true
}

// ArmIdle schedules fire after d, replacing any previously armed timer.
func (s *Session) ArmIdle(d time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopIdleLocked()
	s.idleTimer = time.AfterFunc(d, fire)
}

// CancelIdle stops a pending idle timer, if any.
func (s *Session) CancelIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopIdleLocked()
}

func (s *Session) stopIdleLocked() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
}

// DisconnectIfIdle releases the transport when the session is still idle:
// nothing playing, no start claimed, and a connection present. The caller
// disconnects the returned transport outside the lock.
func (s *Session) DisconnectIfIdle() (Transport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing || s.advancing || s.conn == nil {
		return nil, false
	}
	t := s.conn
	s.conn = nil
	s.player = nil
	s.idleTimer = nil
	return t, true
}

// Shutdown atomically clears the queue, the current song, the playing flag
// and both handles, and cancels any idle timer. ok is false when there is no
// connection to tear down. The caller stops the player and disconnects the
// transport outside the lock.
func (s *Session) Shutdown() (t Transport, p Player, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, nil, false
	}
	t = s.conn
	p = s.player
	s.conn = nil
	s.player = nil
	s.queue = nil
	s.current = nil
	s.playing = false
	s.advancing = false
	s.stopIdleLocked()
	return t, p, true
}

// Reset wipes the session after an unexpected transport-level disconnect.
// Playback cannot resume across such a disconnect, so the queue is dropped
// too. hadState reports whether there was anything to clean up, letting the
// caller skip notifications for resets that follow an intentional teardown.
func (s *Session) Reset() (p Player, hadState bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hadState = s.conn != nil || s.player != nil || s.playing || len(s.queue) > 0
	p = s.player
	s.conn = nil
	s.player = nil
	s.queue = nil
	s.current = nil
	s.playing = false
	s.advancing = false
	s.stopIdleLocked()
	return p, hadState
}

// IsPlaying reports whether a song is actively feeding the player.
func (s *Session) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Current returns the song actively feeding the player, nil when idle.
func (s *Session) Current() *Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// QueueLen returns the number of queued songs, excluding the current one.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Snapshot returns the current song and a copy of the queue for display.
func (s *Session) Snapshot() (current *Song, queue []*Song, playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue = make([]*Song, len(s.queue))
	copy(queue, s.queue)
	return s.current, queue, s.playing
}

// SetConn attaches the transport. Called by the gateway once a connection is
// ready.
func (s *Session) SetConn(t Transport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = t
}

// Conn returns the attached transport, nil when disconnected.
func (s *Session) Conn() Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// BeginTrack attaches the player handle for a freshly dequeued song,
// verifying in the same critical section that the transport still exists.
// When it is gone the dequeued state is rolled back so the session stays
// startable; the caller abandons the track.
func (s *Session) BeginTrack(p Player) (Transport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		s.playing = false
		s.current = nil
		s.player = nil
		return nil, false
	}
	s.player = p
	return s.conn, true
}

// SetPlayer attaches the handle for the track currently being fed.
func (s *Session) SetPlayer(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = p
}

// PlayerHandle returns the current player handle, nil when nothing is fed.
func (s *Session) PlayerHandle() Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// SetAnnounceChannel records the text channel playback events are reported to.
func (s *Session) SetAnnounceChannel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announceCh = channelID
}

// AnnounceChannel returns the text channel playback events are reported to.
func (s *Session) AnnounceChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.announceCh
}
