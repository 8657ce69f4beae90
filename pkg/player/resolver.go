package player

import (
	"context"
	"strings"
	"sync"
)

// isURL reports whether the string looks like a web address rather than a
// search phrase.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// ResolveSong turns any supported input shape into a canonical Song or
// Playlist. Already-canonical values pass through unchanged. A bare search
// phrase runs the interactive search first and recurses on the candidate;
// a cancelled or empty search yields (nil, nil). Recursion depth is bounded
// at 2 because every branch either returns or produces a strictly more
// resolved intermediate.
func (p *Player) ResolveSong(ctx context.Context, requester string, input any) (*ResolveResult, error) {
	switch v := input.(type) {
	case *Song:
		return &ResolveResult{Song: v}, nil
	case *Playlist:
		return &ResolveResult{Playlist: v}, nil
	case *SearchResult:
		switch v.Type {
		case SearchVideo:
			return &ResolveResult{Song: &Song{
				ID:        v.ID,
				URL:       v.URL,
				Source:    SourceYouTube,
				Name:      v.Name,
				Duration:  v.Duration,
				Thumbnail: v.Thumbnail,
				Requester: requester,
			}}, nil
		case SearchPlaylist:
			pl, err := p.ResolvePlaylist(ctx, requester, v.URL, SourceYouTube)
			if err != nil {
				return nil, err
			}
			return &ResolveResult{Playlist: pl}, nil
		default:
			return nil, newError(ErrInvalidSearchResult, v.Name, nil)
		}
	case TrackRecord:
		return &ResolveResult{Song: v.Song(SourcePlugin, requester)}, nil
	case string:
		if p.metadata.ValidateURL(v) {
			info, err := p.metadata.GetBasicInfo(ctx, v)
			if err != nil {
				return nil, err
			}
			song := &Song{
				ID:        videoID(v),
				URL:       v,
				Source:    SourceYouTube,
				Requester: requester,
			}
			song.applyInfo(info)
			return &ResolveResult{Song: song}, nil
		}
		if p.playlists != nil && p.playlists.ValidatePlaylistURL(v) {
			pl, err := p.ResolvePlaylist(ctx, requester, v, SourceYouTube)
			if err != nil {
				return nil, err
			}
			return &ResolveResult{Playlist: pl}, nil
		}
		if isURL(v) {
			if ext, ok := p.extractors.Find(v); ok {
				return ext.Resolve(ctx, v, requester)
			}
			return nil, newError(ErrUnsupportedURL, v, nil)
		}
		result, err := p.SearchSong(ctx, requester, v)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, nil
		}
		return p.ResolveSong(ctx, requester, result)
	default:
		return nil, newError(ErrInvalidInput, "", nil)
	}
}

// videoID extracts a stable id from a watch URL, falling back to the URL
// itself.
func videoID(raw string) string {
	for _, marker := range []string{"v=", "youtu.be/"} {
		if i := strings.Index(raw, marker); i >= 0 {
			id := raw[i+len(marker):]
			if j := strings.IndexAny(id, "&?"); j >= 0 {
				id = id[:j]
			}
			if id != "" {
				return id
			}
		}
	}
	return raw
}

// ResolvePlaylist wraps a playlist URL or an already-built song collection
// into a Playlist. URL fetches drop entries flagged as having no
// retrievable thumbnail, the provider's proxy for unavailable items. The
// result is always a Playlist value, possibly with zero songs; downstream
// playback rejects the empty case.
func (p *Player) ResolvePlaylist(ctx context.Context, requester string, input any, source SongSource) (*Playlist, error) {
	switch v := input.(type) {
	case *Playlist:
		return v, nil
	case []*Song:
		return &Playlist{Source: source, Requester: requester, Songs: v}, nil
	case string:
		if p.playlists == nil {
			return nil, newError(ErrUnsupportedURL, v, nil)
		}
		info, err := p.playlists.FetchPlaylist(ctx, v)
		if err != nil {
			return nil, err
		}
		songs := make([]*Song, 0, len(info.Items))
		for _, item := range info.Items {
			if item.Thumbnail == "" {
				continue
			}
			songs = append(songs, item.Song(source, requester))
		}
		return &Playlist{
			Source:    source,
			Name:      info.Title,
			URL:       info.URL,
			Thumbnail: info.Thumbnail,
			Requester: requester,
			Songs:     songs,
		}, nil
	default:
		return nil, newError(ErrInvalidInput, "", nil)
	}
}

// PlaylistProps names a custom playlist.
type PlaylistProps struct {
	Name      string
	Thumbnail string
}

// CreateCustomPlaylist builds a playlist from a heterogeneous batch. Only
// Song, SearchResult, and URL-shaped entries are considered; per-entry
// resolution failures are swallowed so a partial batch is never fatal.
// With parallel set, entries resolve concurrently and the result preserves
// the original input order.
func (p *Player) CreateCustomPlaylist(ctx context.Context, requester string, inputs []any, props PlaylistProps, parallel bool) (*Playlist, error) {
	filtered := make([]any, 0, len(inputs))
	for _, in := range inputs {
		switch v := in.(type) {
		case *Song, *SearchResult:
			filtered = append(filtered, in)
		case string:
			if isURL(v) {
				filtered = append(filtered, in)
			}
		}
	}
	if len(filtered) == 0 {
		return nil, newError(ErrEmptyInput, props.Name, nil)
	}

	resolved := make([]*Song, len(filtered))
	if parallel {
		var wg sync.WaitGroup
		for i, in := range filtered {
			wg.Add(1)
			go func(i int, in any) {
				defer wg.Done()
				if res, err := p.ResolveSong(ctx, requester, in); err == nil && res != nil {
					resolved[i] = res.Song
				}
			}(i, in)
		}
		wg.Wait()
	} else {
		for i, in := range filtered {
			if res, err := p.ResolveSong(ctx, requester, in); err == nil && res != nil {
				resolved[i] = res.Song
			}
		}
	}

	songs := make([]*Song, 0, len(resolved))
	for _, s := range resolved {
		if s != nil {
			songs = append(songs, s)
		}
	}
	if len(songs) == 0 {
		return nil, newError(ErrNoValidEntries, props.Name, nil)
	}
	return &Playlist{
		Source:    SourceCustom,
		Name:      props.Name,
		Thumbnail: props.Thumbnail,
		Requester: requester,
		Songs:     songs,
	}, nil
}
