package player

import "errors"

var (
	// ErrNothingPlaying is returned by Skip when no song is being played.
	ErrNothingPlaying = errors.New("nothing is playing")

	// ErrNotConnected is returned by Stop when there is no voice connection.
	ErrNotConnected = errors.New("not connected to voice")
)
