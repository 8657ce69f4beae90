package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/latoulicious/Yotei/pkg/logging"
)

// Deps bundles the external collaborators the player is built on.
type Deps struct {
	Metadata   MetadataProvider
	Playlists  PlaylistProvider
	Searcher   Searcher
	Prompter   Prompter
	Connector  ConnectionProvider
	Streams    StreamBuilder
	Extractors []Extractor
}

// Player owns the per-guild queues and drives the playback state machine.
// All transitions for one queue run serialized; transitions for different
// queues are fully independent.
type Player struct {
	opts *Options
	log  logging.Logger

	metadata   MetadataProvider
	playlists  PlaylistProvider
	searcher   Searcher
	prompter   Prompter
	connector  ConnectionProvider
	streams    StreamBuilder
	extractors *Registry

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	queues map[string]*Queue

	events *emitter
}

// New creates a player. A nil opts uses DefaultOptions; a nil logger uses
// the package default.
func New(opts *Options, deps Deps, log logging.Logger) (*Player, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid player options: %w", err)
	}
	if log == nil {
		log = logging.Default()
	}
	if deps.Metadata == nil || deps.Connector == nil || deps.Streams == nil {
		return nil, fmt.Errorf("metadata provider, connector, and stream builder are required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		opts:       opts,
		log:        log.With(logging.String("component", "player")),
		metadata:   deps.Metadata,
		playlists:  deps.Playlists,
		searcher:   deps.Searcher,
		prompter:   deps.Prompter,
		connector:  deps.Connector,
		streams:    deps.Streams,
		extractors: NewRegistry(deps.Extractors...),
		ctx:        ctx,
		cancel:     cancel,
		queues:     make(map[string]*Queue),
		events:     newEmitter(),
	}, nil
}

// On registers an observation handler.
func (p *Player) On(t EventType, h EventHandler) {
	p.events.on(t, h)
}

// Options returns the player's configuration.
func (p *Player) Options() *Options {
	return p.opts
}

// Close shuts the player down and destroys every queue.
func (p *Player) Close() {
	p.cancel()
	p.mu.Lock()
	queues := make([]*Queue, 0, len(p.queues))
	for _, q := range p.queues {
		queues = append(queues, q)
	}
	p.mu.Unlock()
	for _, q := range queues {
		p.destroyQueue(q)
	}
}

// GetQueue returns the live queue for a guild, or nil.
func (p *Player) GetQueue(guildID string) *Queue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.queues[guildID]
}

// registerNew installs q as the guild's queue unless another queue already
// holds the slot, in which case the existing queue is returned and q is not
// registered. Exactly one live queue per guild.
func (p *Player) registerNew(q *Queue) (*Queue, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing := p.queues[q.GuildID]; existing != nil {
		return existing, false
	}
	p.queues[q.GuildID] = q
	return q, true
}

func (p *Player) removeQueue(q *Queue) {
	p.mu.Lock()
	if p.queues[q.GuildID] == q {
		delete(p.queues, q.GuildID)
	}
	p.mu.Unlock()
}

// destroyQueue removes the queue from the registry and releases its stream.
// The connection is left open unless a leave-config path closed it already.
func (p *Player) destroyQueue(q *Queue) {
	if q == nil {
		return
	}
	q.mu.Lock()
	q.stopped = true
	s := q.stream
	q.stream = nil
	q.mu.Unlock()
	if s != nil {
		s.Release()
	}
	p.removeQueue(q)
}

// PlayRequest identifies where a play request comes from and where its
// playback should go.
type PlayRequest struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string
	Requester      string
	// Skip force-advances to the first newly added song when a queue
	// already exists.
	Skip bool
}

// Play resolves any supported input and enqueues the result, creating the
// guild's queue and starting playback when none exists. A cancelled or
// empty search resolves to no-op.
func (p *Player) Play(ctx context.Context, req PlayRequest, input any) error {
	if req.TextChannelID != "" {
		ctx = WithTextChannel(ctx, req.TextChannelID)
	}
	res, err := p.ResolveSong(ctx, req.Requester, input)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	pl := res.Playlist
	if pl == nil {
		pl = &Playlist{
			Source:    res.Song.Source,
			Name:      res.Song.Name,
			Requester: req.Requester,
			Songs:     []*Song{res.Song},
		}
	}
	return p.handlePlaylist(ctx, req, pl)
}

// handlePlaylist applies age filtering and either appends to the guild's
// live queue or constructs one and begins playback.
func (p *Player) handlePlaylist(ctx context.Context, req PlayRequest, playlist *Playlist) error {
	songs := playlist.Songs
	if !p.opts.NSFW {
		kept := make([]*Song, 0, len(songs))
		for _, s := range songs {
			if !s.AgeRestricted {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 && len(songs) > 0 {
			return newError(ErrEmptyFilteredPlaylist, playlist.Name, nil)
		}
		songs = kept
	}
	if len(songs) == 0 {
		return newError(ErrEmptyPlaylist, playlist.Name, nil)
	}

	if q := p.GetQueue(req.GuildID); q != nil {
		p.appendToQueue(q, songs, playlist, req.Skip)
		return nil
	}

	q := newQueue(p, req.GuildID, req.VoiceChannelID, req.TextChannelID, songs)
	if winner, created := p.registerNew(q); !created {
		// Another play call constructed the guild's queue first.
		p.appendToQueue(winner, songs, playlist, req.Skip)
		return nil
	}
	if err := p.joinVoice(ctx, q); err != nil {
		return err
	}

	q.transition.Lock()
	started := p.playSong(q)
	q.transition.Unlock()
	if started {
		p.events.emit(&Event{Type: EventPlaySong, Queue: q, Song: q.Current()})
	}
	return nil
}

// appendToQueue adds resolved songs to a live queue, force-advancing to the
// first of them when skip is set.
func (p *Player) appendToQueue(q *Queue, songs []*Song, playlist *Playlist, skip bool) {
	if skip {
		q.insertNext(songs...)
		q.Skip()
		return
	}
	q.Add(songs...)
	p.events.emit(&Event{Type: EventAddList, Queue: q, Playlist: playlist})
}

// joinVoice acquires the queue's connection. A first failure destroys the
// queue and retries exactly once; a second failure destroys it again and
// propagates a JoinVoiceChannel error. On a successful retry the queue
// re-enters the registry and playback proceeds.
func (p *Player) joinVoice(ctx context.Context, q *Queue) error {
	conn, err := p.connector.Join(ctx, q.GuildID, q.VoiceChannelID)
	if err != nil {
		p.log.Warn("voice join failed, retrying once",
			logging.String("guild", q.GuildID), logging.Error(err))
		p.destroyQueue(q)
		conn, err = p.connector.Join(ctx, q.GuildID, q.VoiceChannelID)
		if err != nil {
			p.destroyQueue(q)
			return newError(ErrJoinVoiceChannel, "", err)
		}
		if winner, created := p.registerNew(q); !created {
			// Another play call took the slot while the retry ran. Hand the
			// pending songs to the queue that won and drop this connection.
			conn.Close()
			q.mu.Lock()
			pending := append([]*Song(nil), q.songs...)
			q.mu.Unlock()
			winner.Add(pending...)
			return nil
		}
		q.mu.Lock()
		q.stopped = false
		q.mu.Unlock()
	}

	q.mu.Lock()
	q.connection = conn
	q.mu.Unlock()

	conn.OnDisconnect(func() {
		p.events.emit(&Event{Type: EventDisconnect, Queue: q})
		if err := q.Stop(); err != nil {
			p.destroyQueue(q)
		}
	})
	conn.OnError(func(err error) {
		if !q.consumeErrorReported() {
			p.events.emit(&Event{Type: EventError, Queue: q, Err: err})
		}
		if err := q.Stop(); err != nil {
			p.destroyQueue(q)
		}
	})

	p.events.emit(&Event{Type: EventConnect, Queue: q})
	return nil
}

// onStreamFinish is the callback entry for natural stream completion. It
// owns the queue's transition lock for the whole step.
func (p *Player) onStreamFinish(q *Queue) {
	q.transition.Lock()
	defer q.transition.Unlock()
	p.handleSongFinish(q)
}

// onStreamError is the callback entry for stream failures.
func (p *Player) onStreamError(q *Queue, err error) {
	q.transition.Lock()
	defer q.transition.Unlock()
	p.handlePlayingError(q, err)
}

// restart rebuilds the current song's stream, used by Seek.
func (p *Player) restart(q *Queue) {
	q.transition.Lock()
	defer q.transition.Unlock()
	p.playSong(q)
}

// handleSongFinish advances the state machine after a natural finish.
// Caller holds the transition lock.
func (p *Player) handleSongFinish(q *Queue) {
	q.mu.Lock()
	stopped := q.stopped
	var finished *Song
	if len(q.songs) > 0 {
		finished = q.songs[0]
	}
	q.mu.Unlock()

	if finished != nil {
		p.events.emit(&Event{Type: EventFinishSong, Queue: q, Song: finished})
	}
	if stopped {
		p.destroyQueue(q)
		return
	}

	q.mu.Lock()
	// Repeat bookkeeping. Under RepeatQueue a forward finish re-queues the
	// finished song at the tail; a backward step rotates the tail to the
	// front instead of consuming history.
	if q.repeatMode == RepeatQueue && !q.prev && len(q.songs) > 0 {
		q.songs = append(q.songs, q.songs[0])
	}
	if q.prev {
		if q.repeatMode == RepeatQueue && len(q.songs) > 0 {
			last := q.songs[len(q.songs)-1]
			q.songs = append([]*Song{last}, q.songs[:len(q.songs)-1]...)
		} else if n := len(q.previousSongs); n > 0 {
			back := q.previousSongs[n-1]
			q.previousSongs = q.previousSongs[:n-1]
			q.songs = append([]*Song{back}, q.songs...)
		}
	}
	runningOut := len(q.songs) < 2 && (q.next || q.repeatMode == RepeatOff)
	autoplay := q.autoplay
	q.mu.Unlock()

	if runningOut {
		if autoplay {
			if err := p.addRelatedSong(q); err != nil {
				p.events.emit(&Event{Type: EventNoRelated, Queue: q, Err: err})
			}
		}
		q.mu.Lock()
		exhausted := len(q.songs) < 2
		var conn Connection
		if exhausted {
			if len(q.songs) > 0 {
				q.pushHistory(q.songs[0])
				q.songs = q.songs[1:]
			}
			conn = q.connection
		}
		q.mu.Unlock()
		if exhausted {
			if p.opts.LeaveOnFinish && conn != nil {
				if err := conn.Close(); err != nil {
					p.log.Warn("leaving voice after finish failed",
						logging.String("guild", q.GuildID), logging.Error(err))
				}
			}
			// Autoplay exhaustion is not itself a finish signal.
			if !autoplay {
				p.events.emit(&Event{Type: EventFinish, Queue: q})
			}
			p.destroyQueue(q)
			return
		}
	}

	q.mu.Lock()
	emitPlay := p.shouldEmitPlaySong(q)
	// Pop the finished head into history, except when repeating a single
	// song without an explicit forward or backward step.
	if !q.prev && (q.repeatMode != RepeatSong || q.next) && len(q.songs) > 0 {
		head := q.songs[0]
		q.songs = q.songs[1:]
		q.pushHistory(head)
	}
	q.next, q.prev = false, false
	q.beginTime = 0
	q.mu.Unlock()

	started := p.playSong(q)
	if started && emitPlay {
		p.events.emit(&Event{Type: EventPlaySong, Queue: q, Song: q.Current()})
	}
}

// shouldEmitPlaySong decides, before the history pop, whether the upcoming
// playSong observation is suppressed. Caller holds q.mu.
func (p *Player) shouldEmitPlaySong(q *Queue) bool {
	if !p.opts.EmitNewSongOnly {
		return true
	}
	if q.repeatMode == RepeatSong && !q.prev {
		return q.next
	}
	if len(q.songs) < 2 {
		return true
	}
	return q.songs[0].ID != q.songs[1].ID
}

// handlePlayingError drops the failed head song, surfaces the error unless
// the stream observer already reported it, and advances. Caller holds the
// transition lock.
func (p *Player) handlePlayingError(q *Queue, err error) {
	q.mu.Lock()
	var song *Song
	if len(q.songs) > 0 {
		song = q.songs[0]
		q.songs = q.songs[1:]
	}
	remaining := len(q.songs)
	q.mu.Unlock()

	if err != nil {
		name := ""
		if song != nil {
			name = song.Name
		}
		p.events.emit(&Event{
			Type:  EventError,
			Queue: q,
			Song:  song,
			Err:   newError(ErrPlaying, name, err),
		})
	}

	if remaining > 0 {
		if started := p.playSong(q); started {
			p.events.emit(&Event{Type: EventPlaySong, Queue: q, Song: q.Current()})
		}
		return
	}
	if stopErr := q.Stop(); stopErr != nil {
		p.destroyQueue(q)
	}
}

// playSong builds and starts a stream for the head song, reporting whether
// playback actually started. Failures are routed to handlePlayingError.
// Caller holds the transition lock.
func (p *Player) playSong(q *Queue) bool {
	if q == nil {
		return false
	}
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	if len(q.songs) == 0 {
		q.mu.Unlock()
		p.destroyQueue(q)
		return false
	}
	song := q.songs[0]
	beginTime := q.beginTime
	filters := make([]string, len(q.filters))
	copy(filters, q.filters)
	volume := q.volume
	conn := q.connection
	q.mu.Unlock()

	if conn == nil {
		p.handlePlayingError(q, fmt.Errorf("no voice connection for guild %s", q.GuildID))
		return false
	}

	if err := p.prepareSong(song); err != nil {
		p.handlePlayingError(q, err)
		return false
	}

	seek := 0
	if song.Duration > 0 {
		seek = beginTime
	}
	stream, err := p.streams.Build(song, StreamOptions{
		Seek:       seek,
		FilterArgs: FilterArgs(filters),
	})
	if err != nil {
		p.handlePlayingError(q, err)
		return false
	}

	stream.OnFinish(func() {
		go p.onStreamFinish(q)
	})
	stream.OnError(func(serr error) {
		q.markErrorReported()
		go p.onStreamError(q, serr)
	})

	if err := conn.Play(stream, volume); err != nil {
		stream.Release()
		p.handlePlayingError(q, err)
		return false
	}

	// Install the new stream before the old handle is released so rapid
	// skips never double-free or leave a gap.
	q.mu.Lock()
	old := q.stream
	q.stream = stream
	q.mu.Unlock()
	if old != nil {
		old.Release()
	}

	p.log.Info("playing song",
		logging.String("guild", q.GuildID),
		logging.String("song", song.Name),
		logging.String("source", song.Source.String()))
	return true
}

// prepareSong fills in the lazily-populated fields needed for streaming:
// full info for native songs, stream URL and related songs for plugin
// songs. The first extractor whose Validate accepts the URL wins; later
// ones are not tried.
func (p *Player) prepareSong(song *Song) error {
	if song.Source == SourceYouTube {
		if song.StreamURL != "" {
			return nil
		}
		info, err := p.metadata.GetInfo(p.ctx, song.URL)
		if err != nil {
			return err
		}
		song.applyInfo(info)
		return nil
	}

	if song.StreamURL != "" {
		return nil
	}
	ext, ok := p.extractors.Find(song.URL)
	if !ok {
		return newError(ErrUnsupportedURL, song.Name, nil)
	}

	var (
		wg        sync.WaitGroup
		streamURL string
		related   []*Song
		urlErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamURL, urlErr = ext.StreamURL(p.ctx, song.URL)
	}()
	go func() {
		defer wg.Done()
		// Related songs are best-effort; a failure only disables autoplay
		// candidates for this song.
		related, _ = ext.RelatedSongs(p.ctx, song.URL)
	}()
	wg.Wait()
	if urlErr != nil {
		return urlErr
	}
	song.StreamURL = streamURL
	song.Related = related
	return nil
}

// addRelatedSong appends the first autoplay candidate that has not been
// queued or played already.
func (p *Player) addRelatedSong(q *Queue) error {
	q.mu.Lock()
	if len(q.songs) == 0 {
		q.mu.Unlock()
		return newError(ErrNoRelated, "", nil)
	}
	song := q.songs[0]
	seen := make(map[string]bool, len(q.previousSongs)+len(q.songs))
	for _, s := range q.previousSongs {
		seen[s.ID] = true
	}
	for _, s := range q.songs {
		seen[s.ID] = true
	}
	q.mu.Unlock()

	related := song.Related
	if len(related) == 0 {
		if song.Source == SourceYouTube {
			if info, err := p.metadata.GetInfo(p.ctx, song.URL); err == nil {
				song.applyInfo(info)
				related = song.Related
			}
		} else if ext, ok := p.extractors.Find(song.URL); ok {
			related, _ = ext.RelatedSongs(p.ctx, song.URL)
		}
	}

	for _, cand := range related {
		if cand == nil || seen[cand.ID] {
			continue
		}
		cand.Requester = song.Requester
		q.Add(cand)
		return nil
	}
	return newError(ErrNoRelated, song.Name, nil)
}
