package player

// Playback events emitted by the controller, in the same order the
// corresponding state transitions occur. A presentation layer renders them;
// the controller never touches Discord text channels itself.

// NowPlaying is emitted when a song starts feeding the transport.
type NowPlaying struct {
	Title       string
	URL         string
	Requester   string
	QueueLength int
}

// AddedToQueue is emitted when a song is queued behind an active playback.
type AddedToQueue struct {
	Title     string
	URL       string
	Requester string
	Position  int
	Duration  string
}

// PlaybackError is emitted when a song could not be streamed; the queue
// advances past it automatically.
type PlaybackError struct {
	Title   string
	Message string
}

// Disconnected is emitted when the transport is released, either after the
// idle cool-down or an unexpected transport loss.
type Disconnected struct {
	Reason string
}

// Notifier receives playback events for one guild's announce channel.
type Notifier interface {
	NowPlaying(channelID string, ev NowPlaying)
	AddedToQueue(channelID string, ev AddedToQueue)
	PlaybackError(channelID string, ev PlaybackError)
	Disconnected(channelID string, ev Disconnected)
}
