package youtube

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
)

const relatedFetchCount = 5

// relatedSongs pulls a handful of entries from the video's auto-generated
// mix playlist (RD + video id). Failures are logged and swallowed; related
// songs only feed autoplay and are never required.
func (p *Provider) relatedSongs(ctx context.Context, raw string) []player.TrackRecord {
	videoID, err := youtube.ExtractVideoID(raw)
	if err != nil {
		return nil
	}
	mixURL := "https://www.youtube.com/watch?v=" + videoID + "&list=RD" + videoID

	cctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	// Item 1 is the seed video itself.
	cmd := exec.CommandContext(cctx, "yt-dlp",
		"--flat-playlist",
		"--playlist-items", "2-"+strconv.Itoa(relatedFetchCount+1),
		"--print", "%(id)s\t%(title)s\t%(duration)s",
		mixURL)
	out, err := cmd.Output()
	if err != nil {
		p.log.Debug("related song fetch failed", logging.String("video", videoID), logging.Error(err))
		return nil
	}

	var related []player.TrackRecord
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		rec := player.TrackRecord{
			ID:        parts[0],
			URL:       "https://www.youtube.com/watch?v=" + parts[0],
			Title:     parts[1],
			Thumbnail: "https://img.youtube.com/vi/" + parts[0] + "/hqdefault.jpg",
		}
		if len(parts) == 3 {
			if secs, err := strconv.ParseFloat(parts[2], 64); err == nil {
				rec.Duration = int(secs)
			}
		}
		related = append(related, rec)
	}
	return related
}
