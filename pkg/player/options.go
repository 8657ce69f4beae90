package player

import (
	"fmt"
	"time"
)

// Options is the player's explicit configuration, threaded in at
// construction. Nothing in the player reads ambient state.
type Options struct {
	// EmitNewSongOnly suppresses the playSong observation when the song
	// starting is the same one that just played.
	EmitNewSongOnly bool
	// SavePreviousSongs keeps full Song values (minus transient fields) in
	// history; when false only the id is retained.
	SavePreviousSongs bool
	// LeaveOnFinish closes the voice connection when the queue runs out.
	LeaveOnFinish bool
	// LeaveOnStop closes the voice connection on an explicit stop.
	LeaveOnStop bool
	// NSFW allows age-restricted songs through; when false they are dropped
	// before enqueueing.
	NSFW bool
	// SearchSongs caps how many search candidates are offered. 1 short-cuts
	// the interactive selection.
	SearchSongs int
	// SearchCooldown bounds how long the player waits for a search reply.
	SearchCooldown time.Duration
	// DefaultVolume is the initial queue volume (0-100).
	DefaultVolume int
}

// DefaultOptions returns the options used when nil is passed to New.
func DefaultOptions() *Options {
	return &Options{
		SavePreviousSongs: true,
		SearchSongs:       1,
		SearchCooldown:    60 * time.Second,
		DefaultVolume:     50,
	}
}

// Validate checks option ranges.
func (o *Options) Validate() error {
	if o.SearchSongs < 1 {
		return fmt.Errorf("search songs must be at least 1, got %d", o.SearchSongs)
	}
	if o.SearchCooldown <= 0 {
		return fmt.Errorf("search cooldown must be positive, got %v", o.SearchCooldown)
	}
	if o.DefaultVolume < 0 || o.DefaultVolume > 100 {
		return fmt.Errorf("default volume must be within 0-100, got %d", o.DefaultVolume)
	}
	return nil
}
