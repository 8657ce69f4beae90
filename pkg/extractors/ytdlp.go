package extractors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
)

// YtDlp is the catch-all extractor. It accepts any http(s) URL and defers
// entirely to the yt-dlp binary, which covers SoundCloud, Bandcamp,
// Twitch VODs and the rest of its extractor zoo. Register it last so
// cheaper extractors get first refusal.
type YtDlp struct {
	timeout time.Duration
	log     logging.Logger
}

func NewYtDlp(log logging.Logger) *YtDlp {
	if log == nil {
		log = logging.Default()
	}
	return &YtDlp{
		timeout: 45 * time.Second,
		log:     log.With(logging.String("component", "ytdlp-extractor")),
	}
}

func (e *YtDlp) Name() string { return "yt-dlp" }

func (e *YtDlp) Validate(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// ytdlpEntry is the subset of yt-dlp's -J output we consume.
type ytdlpEntry struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	WebpageURL string       `json:"webpage_url"`
	Duration   float64      `json:"duration"`
	Thumbnail  string       `json:"thumbnail"`
	Uploader   string       `json:"uploader"`
	URL        string       `json:"url"`
	AgeLimit   int          `json:"age_limit"`
	Entries    []ytdlpEntry `json:"entries"`
}

func (e *YtDlp) Resolve(ctx context.Context, raw string, requester string) (*player.ResolveResult, error) {
	entry, err := e.dump(ctx, raw, true)
	if err != nil {
		return nil, err
	}

	if len(entry.Entries) > 0 {
		songs := make([]*player.Song, 0, len(entry.Entries))
		for _, item := range entry.Entries {
			songs = append(songs, item.song(requester))
		}
		return &player.ResolveResult{Playlist: &player.Playlist{
			Source:    player.SourcePlugin,
			Name:      entry.Title,
			URL:       raw,
			Thumbnail: entry.Thumbnail,
			Songs:     songs,
			Requester: requester,
		}}, nil
	}
	return &player.ResolveResult{Song: entry.song(requester)}, nil
}

func (e *YtDlp) StreamURL(ctx context.Context, raw string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, "yt-dlp", "-f", "bestaudio/best", "--get-url", "--no-playlist", raw)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp stream url for %s: %w", raw, err)
	}
	streamURL := strings.TrimSpace(string(out))
	if streamURL == "" {
		return "", fmt.Errorf("yt-dlp returned no stream url for %s", raw)
	}
	return streamURL, nil
}

// RelatedSongs is unsupported for arbitrary sites.
func (e *YtDlp) RelatedSongs(ctx context.Context, raw string) ([]*player.Song, error) {
	return nil, nil
}

// dump runs yt-dlp -J and decodes the metadata tree.
func (e *YtDlp) dump(ctx context.Context, raw string, flat bool) (*ytdlpEntry, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	args := []string{"-J", "--no-warnings"}
	if flat {
		args = append(args, "--flat-playlist")
	}
	cmd := exec.CommandContext(cctx, "yt-dlp", append(args, raw)...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata for %s: %w", raw, err)
	}
	var entry ytdlpEntry
	if err := json.Unmarshal(out, &entry); err != nil {
		return nil, fmt.Errorf("decoding yt-dlp output: %w", err)
	}
	return &entry, nil
}

func (entry *ytdlpEntry) song(requester string) *player.Song {
	pageURL := entry.WebpageURL
	if pageURL == "" {
		pageURL = entry.URL
	}
	return &player.Song{
		ID:            entry.ID,
		URL:           pageURL,
		Source:        player.SourcePlugin,
		Name:          entry.Title,
		Duration:      int(entry.Duration),
		Thumbnail:     entry.Thumbnail,
		AgeRestricted: entry.AgeLimit >= 18,
		Requester:     requester,
	}
}
