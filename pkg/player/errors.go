package player

import (
	"errors"
	"fmt"
)

// ErrorKind classifies player errors so callers can react without string
// matching.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	// Resolution-time: caller may retry with different input.
	ErrInvalidInput
	ErrUnsupportedURL
	ErrInvalidSearchResult
	// Construction-time: surfaced to the caller, recoverable.
	ErrEmptyPlaylist
	ErrEmptyFilteredPlaylist
	ErrEmptyInput
	ErrNoValidEntries
	// Playback-time.
	ErrNoRelated
	ErrNoPrevious
	ErrJoinVoiceChannel
	ErrPlaying
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrUnsupportedURL:
		return "UnsupportedURL"
	case ErrInvalidSearchResult:
		return "InvalidSearchResult"
	case ErrEmptyPlaylist:
		return "EmptyPlaylist"
	case ErrEmptyFilteredPlaylist:
		return "EmptyFilteredPlaylist"
	case ErrEmptyInput:
		return "EmptyInput"
	case ErrNoValidEntries:
		return "NoValidEntries"
	case ErrNoRelated:
		return "NoRelated"
	case ErrNoPrevious:
		return "NoPrevious"
	case ErrJoinVoiceChannel:
		return "JoinVoiceChannel"
	case ErrPlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// PlayerError is a structured error value carrying a kind tag and, for
// playback errors, the identity of the song involved. Values are constructed
// fresh and never mutated in place.
type PlayerError struct {
	Kind ErrorKind
	Song string
	Err  error
}

func (e *PlayerError) Error() string {
	msg := e.Kind.String()
	if e.Song != "" {
		msg = fmt.Sprintf("%s (song: %s)", msg, e.Song)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, song string, err error) *PlayerError {
	return &PlayerError{Kind: kind, Song: song, Err: err}
}

// IsKind reports whether err is a PlayerError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PlayerError
	return errors.As(err, &pe) && pe.Kind == kind
}
