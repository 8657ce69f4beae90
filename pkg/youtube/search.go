package youtube

import (
	"context"
	"fmt"

	"github.com/raitonoberu/ytsearch"

	"github.com/latoulicious/Yotei/pkg/player"
)

// Search runs a YouTube video search and returns up to limit results.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]*player.SearchResult, error) {
	if limit < 1 {
		limit = 1
	}
	search := ytsearch.VideoSearch(query)
	results, err := search.Next()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	out := make([]*player.SearchResult, 0, limit)
	for _, v := range results.Videos {
		if len(out) >= limit {
			break
		}
		out = append(out, &player.SearchResult{
			Type:      player.SearchVideo,
			ID:        v.ID,
			URL:       "https://www.youtube.com/watch?v=" + v.ID,
			Name:      v.Title,
			Duration:  v.Duration,
			Uploader:  v.Channel.Title,
			Thumbnail: "https://img.youtube.com/vi/" + v.ID + "/hqdefault.jpg",
		})
	}
	return out, nil
}
