package youtube

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ytdlp extraction strategies, tried in order. Different player clients
// survive different rounds of YouTube-side breakage.
var streamStrategies = [][]string{
	{"-f", "bestaudio[ext=webm]/bestaudio", "--get-url", "--no-playlist"},
	{"-f", "bestaudio", "--get-url", "--no-playlist", "--extractor-args", "youtube:player_client=android"},
	{"-f", "bestaudio", "--get-url", "--no-playlist", "--extractor-args", "youtube:player_client=ios"},
	{"-f", "worstaudio", "--get-url", "--no-playlist"},
}

// ytdlpStreamURL shells out to yt-dlp for a direct audio URL, trying each
// strategy until one yields output.
func ytdlpStreamURL(ctx context.Context, videoURL string) (string, error) {
	var lastErr error
	for _, args := range streamStrategies {
		cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		cmd := exec.CommandContext(cctx, "yt-dlp", append(args, videoURL)...)
		out, err := cmd.Output()
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		streamURL := strings.TrimSpace(string(out))
		if streamURL != "" {
			return streamURL, nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no strategy produced output")
	}
	return "", fmt.Errorf("yt-dlp stream extraction failed: %w", lastErr)
}
