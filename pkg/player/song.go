package player

// SongSource identifies where a song's metadata and stream come from.
type SongSource int

const (
	// SourceYouTube songs are resolved through the native metadata provider.
	SourceYouTube SongSource = iota
	// SourcePlugin songs are resolved through a registered extractor.
	SourcePlugin
	// SourceCustom tags playlists assembled from heterogeneous entries.
	SourceCustom
)

func (s SongSource) String() string {
	switch s {
	case SourceYouTube:
		return "youtube"
	case SourcePlugin:
		return "plugin"
	case SourceCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// RepeatMode governs queue mutation when a song finishes naturally.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatSong
	RepeatQueue
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatSong:
		return "song"
	case RepeatQueue:
		return "queue"
	default:
		return "unknown"
	}
}

// SongInfo is the rich, lazily-fetched metadata for a song. It may carry a
// resolved stream URL and autoplay candidates when the provider can supply
// them in the same lookup.
type SongInfo struct {
	Title         string
	Uploader      string
	Duration      int // seconds, 0 for live or unknown
	Thumbnail     string
	StreamURL     string
	AgeRestricted bool
	Related       []TrackRecord
}

// Song is one playable unit. ID, URL, Source, and Name are always set after
// resolution; Info, StreamURL, and Related are populated on demand right
// before playback and dropped again when the song moves into history.
type Song struct {
	ID            string
	URL           string
	Source        SongSource
	Name          string
	Duration      int // seconds, 0 for live or unknown
	Thumbnail     string
	AgeRestricted bool
	Requester     string

	Info      *SongInfo
	StreamURL string
	Related   []*Song
}

// applyInfo merges lazily-fetched metadata into the song.
func (s *Song) applyInfo(info *SongInfo) {
	if info == nil {
		return
	}
	s.Info = info
	if info.Title != "" {
		s.Name = info.Title
	}
	if info.Duration > 0 {
		s.Duration = info.Duration
	}
	if info.Thumbnail != "" {
		s.Thumbnail = info.Thumbnail
	}
	if info.StreamURL != "" {
		s.StreamURL = info.StreamURL
	}
	if info.AgeRestricted {
		s.AgeRestricted = true
	}
	for _, r := range info.Related {
		s.Related = append(s.Related, r.Song(s.Source, s.Requester))
	}
}

// forHistory returns the representation of the song stored in previousSongs.
// Transient fields are always dropped; when full is false only the id is kept.
func (s *Song) forHistory(full bool) *Song {
	if !full {
		return &Song{ID: s.ID}
	}
	c := *s
	c.Info = nil
	c.StreamURL = ""
	c.Related = nil
	return &c
}

// TrackRecord is a caller-supplied set of track fields, trusted as-is and
// wrapped directly into a Song.
type TrackRecord struct {
	ID            string
	URL           string
	Title         string
	Duration      int
	Thumbnail     string
	AgeRestricted bool
}

// Song wraps the record into a canonical Song.
func (r TrackRecord) Song(source SongSource, requester string) *Song {
	return &Song{
		ID:            r.ID,
		URL:           r.URL,
		Source:        source,
		Name:          r.Title,
		Duration:      r.Duration,
		Thumbnail:     r.Thumbnail,
		AgeRestricted: r.AgeRestricted,
		Requester:     requester,
	}
}

// Playlist is an ordered, named collection of songs.
type Playlist struct {
	Source    SongSource
	Name      string
	URL       string
	Thumbnail string
	Requester string
	Songs     []*Song
}

// SearchResultType tags what a search candidate points at.
type SearchResultType int

const (
	SearchVideo SearchResultType = iota
	SearchPlaylist
)

// SearchResult is an unresolved search candidate. It is not directly
// playable; it must go through ResolveSong again.
type SearchResult struct {
	Type      SearchResultType
	ID        string
	URL       string
	Name      string
	Uploader  string
	Duration  int
	Thumbnail string
}

// ResolveResult is the outcome of a resolution: exactly one of Song or
// Playlist is non-nil.
type ResolveResult struct {
	Song     *Song
	Playlist *Playlist
}
