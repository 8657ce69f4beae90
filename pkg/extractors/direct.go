package extractors

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/latoulicious/Yotei/pkg/player"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
	".webm": true,
}

// DirectLink resolves bare audio-file URLs. The URL itself is the stream
// URL, so resolution never touches the network.
type DirectLink struct{}

func NewDirectLink() *DirectLink { return &DirectLink{} }

func (e *DirectLink) Name() string { return "direct-link" }

func (e *DirectLink) Validate(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return false
	}
	return audioExtensions[strings.ToLower(path.Ext(parsed.Path))]
}

func (e *DirectLink) Resolve(ctx context.Context, raw string, requester string) (*player.ResolveResult, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	name := path.Base(parsed.Path)
	name = strings.TrimSuffix(name, path.Ext(name))
	return &player.ResolveResult{
		Song: &player.Song{
			ID:        raw,
			URL:       raw,
			Source:    player.SourcePlugin,
			Name:      name,
			Requester: requester,
			StreamURL: raw,
		},
	}, nil
}

func (e *DirectLink) StreamURL(ctx context.Context, raw string) (string, error) {
	return raw, nil
}

// RelatedSongs always returns nothing; a bare file has no notion of
// related content.
func (e *DirectLink) RelatedSongs(ctx context.Context, raw string) ([]*player.Song, error) {
	return nil, nil
}
