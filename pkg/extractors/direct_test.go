package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectLinkValidate(t *testing.T) {
	e := NewDirectLink()

	tests := []struct {
		url   string
		valid bool
	}{
		{"https://cdn.example.com/track.mp3", true},
		{"https://cdn.example.com/track.OGG", true},
		{"https://cdn.example.com/track.flac?token=abc", true},
		{"https://cdn.example.com/page.html", false},
		{"https://cdn.example.com/track", false},
		{"ftp://cdn.example.com/track.mp3", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, e.Validate(tt.url), tt.url)
	}
}

func TestDirectLinkResolve(t *testing.T) {
	e := NewDirectLink()

	res, err := e.Resolve(context.Background(), "https://cdn.example.com/sets/cool-track.mp3", "user-1")
	require.NoError(t, err)
	require.NotNil(t, res.Song)
	assert.Equal(t, "cool-track", res.Song.Name)
	assert.Equal(t, "user-1", res.Song.Requester)
	// The URL is its own stream url; playback needs no second fetch.
	assert.Equal(t, res.Song.URL, res.Song.StreamURL)
}

func TestDirectLinkStreamURL(t *testing.T) {
	e := NewDirectLink()

	url, err := e.StreamURL(context.Background(), "https://cdn.example.com/track.opus")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/track.opus", url)
}
