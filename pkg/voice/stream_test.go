package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
)

func TestBuildRequiresStreamURL(t *testing.T) {
	b := NewBuilder(logging.Discard())

	_, err := b.Build(&player.Song{Name: "unprepared"}, player.StreamOptions{})
	require.Error(t, err)
}

func TestBuildCarriesSeekAndFilters(t *testing.T) {
	b := NewBuilder(logging.Discard())

	s, err := b.Build(&player.Song{Name: "x", StreamURL: "https://cdn.test/a"}, player.StreamOptions{
		Seek:       30,
		FilterArgs: []string{"bass=g=10", "areverse"},
	})
	require.NoError(t, err)

	stream := s.(*Stream)
	assert.Equal(t, 30, stream.seek)
	assert.Equal(t, "bass=g=10,areverse", stream.filter)
}

func TestStreamStopFiresFinishOnce(t *testing.T) {
	b := NewBuilder(logging.Discard())
	s, err := b.Build(&player.Song{Name: "x", StreamURL: "u"}, player.StreamOptions{})
	require.NoError(t, err)

	finishes := 0
	s.OnFinish(func() { finishes++ })
	s.Stop()
	s.Stop()
	assert.Equal(t, 1, finishes)
}

func TestStreamReleaseSuppressesHandlers(t *testing.T) {
	b := NewBuilder(logging.Discard())
	s, err := b.Build(&player.Song{Name: "x", StreamURL: "u"}, player.StreamOptions{})
	require.NoError(t, err)

	fired := false
	s.OnFinish(func() { fired = true })
	s.Release()
	s.Stop()
	assert.False(t, fired)
}

func TestBytesToInt16(t *testing.T) {
	// Little endian: 0x0102 and -1.
	samples := bytesToInt16([]byte{0x02, 0x01, 0xff, 0xff})
	require.Len(t, samples, 2)
	assert.Equal(t, int16(0x0102), samples[0])
	assert.Equal(t, int16(-1), samples[1])
}

func TestScaleSamples(t *testing.T) {
	assert.Equal(t, []int16{500, -500}, scaleSamples([]int16{1000, -1000}, 50))
	assert.Equal(t, []int16{0, 0}, scaleSamples([]int16{1000, -1000}, 0))
	// Unity gain leaves the frame untouched.
	assert.Equal(t, []int16{1000}, scaleSamples([]int16{1000}, 100))
}
