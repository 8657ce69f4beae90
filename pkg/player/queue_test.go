package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveQueue(t *testing.T, f *fixture, ids ...string) *Queue {
	t.Helper()
	for _, id := range ids {
		f.play(t, f.addSong(id))
	}
	q := f.p.GetQueue("guild-1")
	require.NotNil(t, q)
	return q
}

func queueIDs(q *Queue) []string {
	songs := q.Songs()
	ids := make([]string, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	return ids
}

func TestQueueInsertNext(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a", "b")

	q.insertNext(&Song{ID: "x"}, &Song{ID: "y"})
	assert.Equal(t, []string{"a", "x", "y", "b"}, queueIDs(q))
}

func TestQueueJumpReordersAndSkips(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a", "b", "c", "d")

	require.NoError(t, q.Jump(2))
	require.Eventually(t, func() bool {
		cur := q.Current()
		return cur != nil && cur.ID == "c"
	}, waitFor, tick)
	assert.Equal(t, []string{"c", "b", "d"}, queueIDs(q))
}

func TestQueueJumpInvalidPosition(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a", "b")

	assert.Error(t, q.Jump(0))
	assert.Error(t, q.Jump(2))
	assert.Error(t, q.Jump(-1))
}

func TestQueueShuffleKeepsCurrent(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a", "b", "c", "d", "e")

	q.Shuffle()
	ids := queueIDs(q)
	assert.Equal(t, "a", ids[0])
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestQueueVolumeValidation(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a")

	assert.Error(t, q.SetVolume(-1))
	assert.Error(t, q.SetVolume(101))
	require.NoError(t, q.SetVolume(80))
	assert.Equal(t, 80, q.Volume())
}

func TestQueueFilterManagement(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a")

	assert.Error(t, q.AddFilter("distortmax"))
	require.NoError(t, q.AddFilter("nightcore"))
	require.NoError(t, q.AddFilter("bassboost"))
	// Re-adding is a no-op, order is preserved.
	require.NoError(t, q.AddFilter("nightcore"))
	assert.Equal(t, []string{"nightcore", "bassboost"}, q.Filters())

	q.RemoveFilter("nightcore")
	assert.Equal(t, []string{"bassboost"}, q.Filters())
}

func TestQueuePauseResume(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a")
	stream := f.streams.last()

	q.Pause()
	assert.True(t, q.Paused())
	assert.True(t, stream.paused)

	q.Resume()
	assert.False(t, q.Paused())
	assert.False(t, stream.paused)
}

func TestQueueSeekValidation(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a")

	assert.Error(t, q.Seek(-5))
}

func TestQueueStopKeepsConnectionByDefault(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a")

	require.NoError(t, q.Stop())
	assert.Nil(t, f.p.GetQueue("guild-1"))
	assert.False(t, f.conn.last().isClosed())
}

func TestQueueHistoryIDOnlyWhenDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.SavePreviousSongs = false
	f := newFixture(t, opts)
	q := liveQueue(t, f, "a", "b")

	f.streams.last().Finish()
	require.Eventually(t, func() bool { return len(q.PreviousSongs()) == 1 }, waitFor, tick)

	prev := q.PreviousSongs()[0]
	assert.Equal(t, "a", prev.ID)
	assert.Empty(t, prev.Name)
	assert.Empty(t, prev.URL)
}

func TestQueueHistoryStripsTransientFields(t *testing.T) {
	f := newFixture(t, nil)
	q := liveQueue(t, f, "a", "b")

	f.streams.last().Finish()
	require.Eventually(t, func() bool { return len(q.PreviousSongs()) == 1 }, waitFor, tick)

	prev := q.PreviousSongs()[0]
	assert.Equal(t, "a", prev.ID)
	assert.Equal(t, "song a", prev.Name)
	assert.Empty(t, prev.StreamURL)
	assert.Nil(t, prev.Info)
	assert.Nil(t, prev.Related)
}
