package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latoulicious/Yotei/pkg/logging"
)

func TestValidateURL(t *testing.T) {
	p := New(logging.Discard())

	tests := []struct {
		url   string
		valid bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch", false},
		{"https://soundcloud.com/artist/track", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, p.ValidateURL(tt.url), tt.url)
	}
}

func TestValidatePlaylistURL(t *testing.T) {
	p := New(logging.Discard())

	assert.True(t, p.ValidatePlaylistURL("https://www.youtube.com/playlist?list=PLx"))
	assert.True(t, p.ValidatePlaylistURL("https://www.youtube.com/watch?v=abc&list=PLx"))
	assert.False(t, p.ValidatePlaylistURL("https://www.youtube.com/watch?v=abc"))
	assert.False(t, p.ValidatePlaylistURL("https://example.com/?list=PLx"))
}
