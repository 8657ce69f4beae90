package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
)

// Provider is the native metadata, playlist, and search provider backed by
// YouTube. Metadata comes from the innertube client with a yt-dlp fallback
// for stream URLs.
type Provider struct {
	client youtube.Client
	log    logging.Logger
}

// New creates a provider.
func New(log logging.Logger) *Provider {
	if log == nil {
		log = logging.Default()
	}
	return &Provider{log: log.With(logging.String("component", "youtube"))}
}

// IsYouTubeURL checks if a URL appears to be from YouTube
func IsYouTubeURL(raw string) bool {
	return strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be")
}

// ValidateURL reports whether the URL is a watchable YouTube video URL.
func (p *Provider) ValidateURL(raw string) bool {
	if !IsYouTubeURL(raw) {
		return false
	}
	_, err := youtube.ExtractVideoID(raw)
	return err == nil
}

// ValidatePlaylistURL reports whether the URL carries a playlist id.
func (p *Provider) ValidatePlaylistURL(raw string) bool {
	if !IsYouTubeURL(raw) {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Query().Get("list") != ""
}

// GetBasicInfo fetches partial metadata, enough to display and enqueue. An
// age-gated video resolves to a flagged stub instead of an error so the
// caller's age filter can explain the drop.
func (p *Provider) GetBasicInfo(ctx context.Context, raw string) (*player.SongInfo, error) {
	video, err := p.client.GetVideoContext(ctx, raw)
	if err != nil {
		if errors.Is(err, youtube.ErrLoginRequired) {
			return &player.SongInfo{Title: "Age-restricted video", AgeRestricted: true}, nil
		}
		return nil, fmt.Errorf("fetching video info: %w", err)
	}
	return &player.SongInfo{
		Title:     video.Title,
		Uploader:  video.Author,
		Duration:  int(video.Duration.Seconds()),
		Thumbnail: firstThumbnail(video.Thumbnails),
	}, nil
}

// GetInfo fetches full metadata including a playable stream URL and related
// songs. The stream URL comes from the innertube formats first, falling
// back to yt-dlp extraction strategies; related songs come from the
// video's mix playlist and are best-effort.
func (p *Provider) GetInfo(ctx context.Context, raw string) (*player.SongInfo, error) {
	info, err := p.GetBasicInfo(ctx, raw)
	if err != nil {
		return nil, err
	}
	if info.AgeRestricted {
		return info, nil
	}

	streamURL, err := p.streamURL(ctx, raw)
	if err != nil {
		return nil, err
	}
	info.StreamURL = streamURL
	info.Related = p.relatedSongs(ctx, raw)
	return info, nil
}

// streamURL resolves the best audio stream URL for a video.
func (p *Provider) streamURL(ctx context.Context, raw string) (string, error) {
	video, err := p.client.GetVideoContext(ctx, raw)
	if err == nil {
		formats := video.Formats.WithAudioChannels()
		formats = formats.Type("audio")

		// Seek itag 251 (opus 160k) first, then any opus, then best audio.
		var best *youtube.Format
		for i := range formats {
			if formats[i].ItagNo == 251 {
				best = &formats[i]
				break
			}
		}
		if best == nil {
			for i := range formats {
				if strings.Contains(formats[i].MimeType, "opus") {
					best = &formats[i]
					break
				}
			}
		}
		if best == nil && len(formats) > 0 {
			formats.Sort()
			best = &formats[0]
		}
		if best != nil {
			if streamURL, err := p.client.GetStreamURLContext(ctx, video, best); err == nil && streamURL != "" {
				return streamURL, nil
			}
		}
	}

	p.log.Debug("innertube stream extraction failed, falling back to yt-dlp",
		logging.String("url", raw))
	return ytdlpStreamURL(ctx, raw)
}

// FetchPlaylist fetches the full item list for a playlist URL. No page-size
// cap is applied; entries without a retrievable thumbnail are passed along
// unthumbed so the resolver can discard them as unavailable.
func (p *Provider) FetchPlaylist(ctx context.Context, raw string) (*player.PlaylistInfo, error) {
	pl, err := p.client.GetPlaylistContext(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("fetching playlist: %w", err)
	}

	items := make([]player.TrackRecord, 0, len(pl.Videos))
	for _, entry := range pl.Videos {
		items = append(items, player.TrackRecord{
			ID:        entry.ID,
			URL:       "https://www.youtube.com/watch?v=" + entry.ID,
			Title:     entry.Title,
			Duration:  int(entry.Duration.Seconds()),
			Thumbnail: firstThumbnail(entry.Thumbnails),
		})
	}
	info := &player.PlaylistInfo{
		Title: pl.Title,
		URL:   raw,
		Items: items,
	}
	if len(items) > 0 {
		info.Thumbnail = items[0].Thumbnail
	}
	return info, nil
}

func firstThumbnail(thumbs youtube.Thumbnails) string {
	if len(thumbs) == 0 {
		return ""
	}
	return thumbs[0].URL
}
