package player

import (
	"context"
	"time"
)

// The interfaces below are the boundary to the player's external
// collaborators: the real-time gateway, the native metadata/playlist
// provider, search, and stream construction. The player never reaches past
// them, which keeps every transition testable with fakes.

// Connection is a live voice transport for one guild, exclusively owned by
// its Queue.
type Connection interface {
	// Play starts sending the stream's audio with the given volume (0-100).
	Play(stream Stream, volume int) error
	// OnDisconnect registers the handler invoked when the transport drops.
	OnDisconnect(fn func())
	// OnError registers the handler for transport-level errors.
	OnError(fn func(error))
	ChannelID() string
	Close() error
}

// ConnectionProvider acquires voice connections.
type ConnectionProvider interface {
	Join(ctx context.Context, guildID, channelID string) (Connection, error)
}

// Stream is one live media stream. A Queue owns at most one at a time;
// building a new stream releases the previous handle only after the new one
// is installed.
type Stream interface {
	// OnFinish registers the handler for natural completion. Stop also
	// triggers it.
	OnFinish(fn func())
	// OnError registers the handler for stream failures.
	OnError(fn func(error))
	Pause()
	Resume()
	// Stop ends playback and fires the finish handler.
	Stop()
	// Release tears the stream down without firing any handler.
	Release()
}

// StreamOptions carries the per-play parameters for stream construction.
type StreamOptions struct {
	// Seek is the start offset in seconds. Zero means from the beginning.
	Seek int
	// FilterArgs is the ordered list of resolved audio-filter arguments.
	FilterArgs []string
}

// StreamBuilder builds a stream for a prepared song. The builder selects a
// native-provider or direct-link strategy from the song's source.
type StreamBuilder interface {
	Build(song *Song, opts StreamOptions) (Stream, error)
}

// MetadataProvider is the native provider's metadata surface.
type MetadataProvider interface {
	ValidateURL(url string) bool
	// GetInfo fetches full metadata, including a playable stream URL and
	// related songs when available.
	GetInfo(ctx context.Context, url string) (*SongInfo, error)
	// GetBasicInfo fetches partial metadata, enough to display and enqueue.
	GetBasicInfo(ctx context.Context, url string) (*SongInfo, error)
}

// PlaylistInfo is a fetched playlist before it is wrapped into Songs.
// Items without a retrievable thumbnail are treated as unavailable.
type PlaylistInfo struct {
	Title     string
	URL       string
	Thumbnail string
	Items     []TrackRecord
}

// PlaylistProvider is the native provider's playlist surface.
type PlaylistProvider interface {
	ValidatePlaylistURL(url string) bool
	FetchPlaylist(ctx context.Context, url string) (*PlaylistInfo, error)
}

// Searcher runs text searches against the native provider.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]*SearchResult, error)
}

// Prompter awaits a single reply from a requester, bounded by timeout. It
// returns the reply text, or an error on timeout or cancellation.
type Prompter interface {
	Await(ctx context.Context, requester string, timeout time.Duration) (string, error)
}
