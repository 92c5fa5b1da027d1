package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopTransport struct {
	disconnected bool
}

func (t *nopTransport) OpusSend() chan<- []byte { return make(chan []byte, 1) }
func (t *nopTransport) Speaking(bool) error     { return nil }
func (t *nopTransport) Disconnect() error       { t.disconnected = true; return nil }
func (t *nopTransport) Ready() bool             { return true }

type nopPlayer struct {
	stopped bool
}

func (p *nopPlayer) Stop() { p.stopped = true }

func song(title string) *Song {
	return &Song{ID: title, Title: title, URL: "https://example.com/" + title}
}

func TestEnqueueAndClaim(t *testing.T) {
	s := newSession("g1")

	pos, claimed := s.EnqueueAndClaim(song("a"))
	assert.Equal(t, 1, pos)
	assert.True(t, claimed, "first enqueue on an idle session should claim the start")

	pos, claimed = s.EnqueueAndClaim(song("b"))
	assert.Equal(t, 2, pos)
	assert.False(t, claimed, "claim is held until NextTrack runs")

	got, ok := s.NextTrack()
	require.True(t, ok)
	assert.Equal(t, "a", got.Title)

	// Now playing; further enqueues never claim.
	pos, claimed = s.EnqueueAndClaim(song("c"))
	assert.Equal(t, 2, pos)
	assert.False(t, claimed)
}

func TestNextTrackIsFIFO(t *testing.T) {
	s := newSession("g1")
	for _, title := range []string{"a", "b", "c"} {
		s.EnqueueAndClaim(song(title))
	}

	var order []string
	for {
		got, ok := s.NextTrack()
		if !ok {
			break
		}
		order = append(order, got.Title)
	}

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.False(t, s.IsPlaying())
	assert.Nil(t, s.Current())
}

func TestNextTrackEmptyClearsPlaying(t *testing.T) {
	s := newSession("g1")
	s.EnqueueAndClaim(song("a"))

	_, ok := s.NextTrack()
	require.True(t, ok)
	assert.True(t, s.IsPlaying())

	_, ok = s.NextTrack()
	assert.False(t, ok)
	assert.False(t, s.IsPlaying())

	// The claim was released, so the next enqueue claims again.
	_, claimed := s.EnqueueAndClaim(song("b"))
	assert.True(t, claimed)
}

func TestNextTrackCancelsIdleTimer(t *testing.T) {
	s := newSession("g1")
	fired := make(chan struct{}, 1)
	s.ArmIdle(20*time.Millisecond, func() { fired <- struct{}{} })

	s.EnqueueAndClaim(song("a"))
	_, ok := s.NextTrack()
	require.True(t, ok)

	select {
	case <-fired:
		t.Fatal("idle timer fired after playback resumed")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestArmIdleReplacesPrevious(t *testing.T) {
	s := newSession("g1")
	firedFirst := make(chan struct{})
	firedSecond := make(chan struct{})

	s.ArmIdle(15*time.Millisecond, func() { close(firedFirst) })
	s.ArmIdle(30*time.Millisecond, func() { close(firedSecond) })

	select {
	case <-firedFirst:
		t.Fatal("replaced timer fired")
	case <-firedSecond:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("replacement timer never fired")
	}
}

func TestDisconnectIfIdle(t *testing.T) {
	tr := &nopTransport{}

	t.Run("idle with connection", func(t *testing.T) {
		s := newSession("g1")
		s.SetConn(tr)
		got, ok := s.DisconnectIfIdle()
		require.True(t, ok)
		assert.Same(t, Transport(tr), got)
		assert.Nil(t, s.Conn())
	})

	t.Run("still playing", func(t *testing.T) {
		s := newSession("g1")
		s.SetConn(tr)
		s.EnqueueAndClaim(song("a"))
		s.NextTrack()
		_, ok := s.DisconnectIfIdle()
		assert.False(t, ok)
		assert.NotNil(t, s.Conn())
	})

	t.Run("no connection", func(t *testing.T) {
		s := newSession("g1")
		_, ok := s.DisconnectIfIdle()
		assert.False(t, ok)
	})
}

func TestDisconnectIfIdleRespectsClaimedStart(t *testing.T) {
	s := newSession("g1")
	s.SetConn(&nopTransport{})

	_, claimed := s.EnqueueAndClaim(song("a"))
	require.True(t, claimed)

	// A start has been claimed but NextTrack has not run yet; an idle timer
	// firing in this window must leave the transport alone.
	_, ok := s.DisconnectIfIdle()
	assert.False(t, ok, "idle teardown must not run while a start is claimed")
	assert.NotNil(t, s.Conn())

	got, ok := s.NextTrack()
	require.True(t, ok)
	assert.Equal(t, "a", got.Title)
	assert.True(t, s.IsPlaying())

	// Drain and verify the session can still claim a fresh start.
	_, ok = s.NextTrack()
	assert.False(t, ok)
	_, claimed = s.EnqueueAndClaim(song("b"))
	assert.True(t, claimed, "session must still be able to start playback")
}

func TestBeginTrack(t *testing.T) {
	t.Run("transport present", func(t *testing.T) {
		s := newSession("g1")
		tr := &nopTransport{}
		s.SetConn(tr)
		s.EnqueueAndClaim(song("a"))
		s.NextTrack()

		p := &nopPlayer{}
		got, ok := s.BeginTrack(p)
		require.True(t, ok)
		assert.Same(t, Transport(tr), got)
		assert.Same(t, Player(p), s.PlayerHandle())
	})

	t.Run("transport gone rolls the dequeue back", func(t *testing.T) {
		s := newSession("g1")
		s.EnqueueAndClaim(song("a"))
		_, ok := s.NextTrack()
		require.True(t, ok)
		require.True(t, s.IsPlaying())

		_, ok = s.BeginTrack(&nopPlayer{})
		assert.False(t, ok)
		assert.False(t, s.IsPlaying())
		assert.Nil(t, s.Current())
		assert.Nil(t, s.PlayerHandle())

		// The rollback must leave the session startable.
		_, claimed := s.EnqueueAndClaim(song("b"))
		assert.True(t, claimed)
	})
}

func TestShutdownClearsEverything(t *testing.T) {
	s := newSession("g1")
	tr := &nopTransport{}
	p := &nopPlayer{}

	s.SetConn(tr)
	s.SetPlayer(p)
	s.EnqueueAndClaim(song("a"))
	s.NextTrack()
	s.EnqueueAndClaim(song("b"))

	gotT, gotP, ok := s.Shutdown()
	require.True(t, ok)
	assert.Same(t, Transport(tr), gotT)
	assert.Same(t, Player(p), gotP)

	assert.False(t, s.IsPlaying())
	assert.Nil(t, s.Current())
	assert.Zero(t, s.QueueLen())
	assert.Nil(t, s.Conn())
	assert.Nil(t, s.PlayerHandle())

	// Second shutdown has nothing to tear down.
	_, _, ok = s.Shutdown()
	assert.False(t, ok)
}

func TestResetReportsHadState(t *testing.T) {
	t.Run("active session", func(t *testing.T) {
		s := newSession("g1")
		s.SetConn(&nopTransport{})
		s.EnqueueAndClaim(song("a"))
		s.NextTrack()

		_, hadState := s.Reset()
		assert.True(t, hadState)
		assert.False(t, s.IsPlaying())
		assert.Zero(t, s.QueueLen())
	})

	t.Run("already torn down", func(t *testing.T) {
		s := newSession("g1")
		_, hadState := s.Reset()
		assert.False(t, hadState)
	})
}

func TestSnapshotCopiesQueue(t *testing.T) {
	s := newSession("g1")
	s.EnqueueAndClaim(song("a"))
	s.NextTrack()
	s.EnqueueAndClaim(song("b"))
	s.EnqueueAndClaim(song("c"))

	current, queue, playing := s.Snapshot()
	require.NotNil(t, current)
	assert.Equal(t, "a", current.Title)
	assert.True(t, playing)
	require.Len(t, queue, 2)

	queue[0] = song("mutated")
	_, fresh, _ := s.Snapshot()
	assert.Equal(t, "b", fresh[0].Title)
}

func TestAnnounceChannelRoundTrip(t *testing.T) {
	s := newSession("g1")
	assert.Empty(t, s.AnnounceChannel())
	s.SetAnnounceChannel("chan-1")
	assert.Equal(t, "chan-1", s.AnnounceChannel())
}
