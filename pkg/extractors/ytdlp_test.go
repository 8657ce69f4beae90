package extractors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
)

func TestYtDlpValidate(t *testing.T) {
	e := NewYtDlp(logging.Discard())

	assert.True(t, e.Validate("https://soundcloud.com/artist/track"))
	assert.True(t, e.Validate("http://bandcamp.com/album/x"))
	assert.False(t, e.Validate("file:///etc/passwd"))
	assert.False(t, e.Validate("::not-a-url::"))
}

func TestYtdlpEntryDecode(t *testing.T) {
	raw := `{
		"id": "abc123",
		"title": "Some Track",
		"webpage_url": "https://soundcloud.com/artist/some-track",
		"duration": 245.7,
		"thumbnail": "https://img.example.com/t.jpg",
		"uploader": "artist",
		"age_limit": 0
	}`
	var entry ytdlpEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))

	song := entry.song("user-1")
	assert.Equal(t, "abc123", song.ID)
	assert.Equal(t, "Some Track", song.Name)
	assert.Equal(t, "https://soundcloud.com/artist/some-track", song.URL)
	assert.Equal(t, 245, song.Duration)
	assert.Equal(t, player.SourcePlugin, song.Source)
	assert.False(t, song.AgeRestricted)
}

func TestYtdlpEntryAgeLimit(t *testing.T) {
	entry := ytdlpEntry{ID: "x", Title: "adult", AgeLimit: 18}
	assert.True(t, entry.song("u").AgeRestricted)

	entry.AgeLimit = 16
	assert.False(t, entry.song("u").AgeRestricted)
}

func TestYtdlpEntryPlaylistDecode(t *testing.T) {
	raw := `{
		"id": "setid",
		"title": "My Set",
		"entries": [
			{"id": "one", "title": "First", "url": "https://soundcloud.com/a/one", "duration": 60},
			{"id": "two", "title": "Second", "url": "https://soundcloud.com/a/two", "duration": 90}
		]
	}`
	var entry ytdlpEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	require.Len(t, entry.Entries, 2)

	// An entry without webpage_url falls back to its direct url.
	song := entry.Entries[0].song("u")
	assert.Equal(t, "https://soundcloud.com/a/one", song.URL)
}
