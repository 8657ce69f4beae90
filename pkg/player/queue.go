package player

import (
	"fmt"
	"math/rand"
	"sync"
)

// Queue holds the playback state for one guild. At most one live Queue
// exists per guild; the player's registry enforces that.
//
// Locking: mu guards the mutable fields and is held only for short state
// reads and writes. State transitions (play, finish, error) additionally
// serialize on transition so that only one is ever in flight per queue;
// see Player.
type Queue struct {
	player *Player

	GuildID        string
	VoiceChannelID string
	TextChannelID  string

	mu            sync.Mutex
	songs         []*Song
	previousSongs []*Song
	repeatMode    RepeatMode
	autoplay      bool
	stopped       bool
	next          bool
	prev          bool
	beginTime     int
	volume        int
	filters       []string
	paused        bool
	errReported   bool

	connection Connection
	stream     Stream

	// transition serializes play/finish/error steps for this queue.
	transition sync.Mutex
}

func newQueue(p *Player, guildID, voiceChannelID, textChannelID string, songs []*Song) *Queue {
	return &Queue{
		player:         p,
		GuildID:        guildID,
		VoiceChannelID: voiceChannelID,
		TextChannelID:  textChannelID,
		songs:          songs,
		volume:         p.opts.DefaultVolume,
	}
}

// Current returns the song at the head of the queue, the one playing.
func (q *Queue) Current() *Song {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.songs) == 0 {
		return nil
	}
	return q.songs[0]
}

// Songs returns a copy of the pending songs, head first.
func (q *Queue) Songs() []*Song {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Song, len(q.songs))
	copy(out, q.songs)
	return out
}

// PreviousSongs returns a copy of the history, most recent last.
func (q *Queue) PreviousSongs() []*Song {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Song, len(q.previousSongs))
	copy(out, q.previousSongs)
	return out
}

// Size returns the number of pending songs including the current one.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.songs)
}

// Add appends songs to the queue. Appending is the only ordering mutation
// available to external callers.
func (q *Queue) Add(songs ...*Song) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.songs = append(q.songs, songs...)
}

// insertNext places songs directly after the current one, used by
// skip-enqueue so the forced advance lands on the first added song.
func (q *Queue) insertNext(songs ...*Song) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.songs) == 0 {
		q.songs = append(q.songs, songs...)
		return
	}
	rest := make([]*Song, len(q.songs[1:]))
	copy(rest, q.songs[1:])
	q.songs = append(append(q.songs[:1:1], songs...), rest...)
}

// Skip requests an advance past the current song. The advance happens on
// the next state-machine step triggered by ending the stream.
func (q *Queue) Skip() {
	q.mu.Lock()
	q.next = true
	s := q.stream
	q.mu.Unlock()
	if s != nil {
		s.Stop()
		return
	}
	// Nothing streaming yet; step the machine directly.
	go q.player.onStreamFinish(q)
}

// Previous requests a step back to the most recently played song. Under
// RepeatQueue the tail song rotates to the front instead of consuming
// history.
func (q *Queue) Previous() error {
	q.mu.Lock()
	if q.repeatMode != RepeatQueue && len(q.previousSongs) == 0 {
		q.mu.Unlock()
		return newError(ErrNoPrevious, "", nil)
	}
	q.prev = true
	s := q.stream
	q.mu.Unlock()
	if s != nil {
		s.Stop()
		return nil
	}
	go q.player.onStreamFinish(q)
	return nil
}

// Stop tears the queue down. The stream is released silently and the queue
// leaves the player's registry; with LeaveOnStop the connection is closed
// too.
func (q *Queue) Stop() error {
	q.mu.Lock()
	q.stopped = true
	s := q.stream
	q.stream = nil
	conn := q.connection
	q.mu.Unlock()

	if s != nil {
		s.Release()
	}
	var err error
	if q.player.opts.LeaveOnStop && conn != nil {
		err = conn.Close()
	}
	q.player.removeQueue(q)
	if err != nil {
		return fmt.Errorf("stopping queue for guild %s: %w", q.GuildID, err)
	}
	return nil
}

// Jump moves the song at the given 1-based position up to play next, then
// skips to it.
func (q *Queue) Jump(pos int) error {
	q.mu.Lock()
	if pos < 1 || pos >= len(q.songs) {
		q.mu.Unlock()
		return fmt.Errorf("invalid queue position: %d", pos)
	}
	song := q.songs[pos]
	rest := append(q.songs[1:pos:pos], q.songs[pos+1:]...)
	q.songs = append([]*Song{q.songs[0], song}, rest...)
	q.mu.Unlock()
	q.Skip()
	return nil
}

// Shuffle randomizes the order of the pending songs, keeping the current
// song in place.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.songs) < 3 {
		return
	}
	rest := q.songs[1:]
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
}

// Pause suspends the current stream.
func (q *Queue) Pause() {
	q.mu.Lock()
	q.paused = true
	s := q.stream
	q.mu.Unlock()
	if s != nil {
		s.Pause()
	}
}

// Resume continues a paused stream.
func (q *Queue) Resume() {
	q.mu.Lock()
	q.paused = false
	s := q.stream
	q.mu.Unlock()
	if s != nil {
		s.Resume()
	}
}

// Paused reports whether playback is suspended.
func (q *Queue) Paused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}

// Seek restarts the current song from the given offset in seconds.
func (q *Queue) Seek(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("invalid seek offset: %d", seconds)
	}
	q.mu.Lock()
	if len(q.songs) == 0 {
		q.mu.Unlock()
		return fmt.Errorf("nothing to seek in guild %s", q.GuildID)
	}
	q.beginTime = seconds
	q.mu.Unlock()
	q.player.restart(q)
	return nil
}

// SetVolume sets the queue volume (0-100). It applies from the next stream.
func (q *Queue) SetVolume(v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("volume must be within 0-100, got %d", v)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.volume = v
	return nil
}

// Volume returns the queue volume.
func (q *Queue) Volume() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.volume
}

// SetRepeatMode sets the repeat policy.
func (q *Queue) SetRepeatMode(m RepeatMode) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.repeatMode = m
}

// RepeatMode returns the repeat policy.
func (q *Queue) RepeatMode() RepeatMode {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repeatMode
}

// ToggleAutoplay flips the autoplay flag and returns the new value.
func (q *Queue) ToggleAutoplay() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.autoplay = !q.autoplay
	return q.autoplay
}

// Autoplay reports whether autoplay is enabled.
func (q *Queue) Autoplay() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.autoplay
}

// Stopped reports whether teardown has begun.
func (q *Queue) Stopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// AddFilter activates a named audio filter. Order of activation is the
// order passed to the stream builder.
func (q *Queue) AddFilter(name string) error {
	if _, ok := FilterArg(name); !ok {
		return fmt.Errorf("unknown filter: %s", name)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, f := range q.filters {
		if f == name {
			return nil
		}
	}
	q.filters = append(q.filters, name)
	return nil
}

// RemoveFilter deactivates a named audio filter.
func (q *Queue) RemoveFilter(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, f := range q.filters {
		if f == name {
			q.filters = append(q.filters[:i], q.filters[i+1:]...)
			return
		}
	}
}

// Filters returns the ordered active filter names.
func (q *Queue) Filters() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.filters))
	copy(out, q.filters)
	return out
}

// pushHistory stores a finished song, locked by the caller.
func (q *Queue) pushHistory(s *Song) {
	q.previousSongs = append(q.previousSongs, s.forHistory(q.player.opts.SavePreviousSongs))
}

// markErrorReported records that the stream error observer already surfaced
// the current failure, so a transport-level callback for the same failure
// is not reported twice.
func (q *Queue) markErrorReported() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errReported = true
}

// consumeErrorReported returns and clears the already-reported flag.
func (q *Queue) consumeErrorReported() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	r := q.errReported
	q.errReported = false
	return r
}
