package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/latoulicious/Yotei/pkg/logging"
)

// The fakes below stand in for every external collaborator so each state
// machine transition can be driven by hand.

type fakeMetadata struct {
	mu    sync.Mutex
	infos map[string]*SongInfo
	errs  map[string]error
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{infos: make(map[string]*SongInfo), errs: make(map[string]error)}
}

func (m *fakeMetadata) add(id string, info *SongInfo) string {
	url := "https://tube.test/watch?v=" + id
	if info.StreamURL == "" {
		info.StreamURL = "stream://" + id
	}
	m.mu.Lock()
	m.infos[url] = info
	m.mu.Unlock()
	return url
}

func (m *fakeMetadata) ValidateURL(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.infos[url]
	if !ok {
		_, ok = m.errs[url]
	}
	return ok
}

func (m *fakeMetadata) GetInfo(_ context.Context, url string) (*SongInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	info, ok := m.infos[url]
	if !ok {
		return nil, fmt.Errorf("unknown url: %s", url)
	}
	c := *info
	return &c, nil
}

func (m *fakeMetadata) GetBasicInfo(_ context.Context, url string) (*SongInfo, error) {
	info, err := m.GetInfo(nil, url)
	if err != nil {
		return nil, err
	}
	// Basic info carries no stream url or related songs.
	c := *info
	c.StreamURL = ""
	c.Related = nil
	return &c, nil
}

type fakePlaylists struct {
	mu    sync.Mutex
	lists map[string]*PlaylistInfo
}

func newFakePlaylists() *fakePlaylists {
	return &fakePlaylists{lists: make(map[string]*PlaylistInfo)}
}

func (p *fakePlaylists) add(id string, info *PlaylistInfo) string {
	url := "https://tube.test/playlist?list=" + id
	p.mu.Lock()
	p.lists[url] = info
	p.mu.Unlock()
	return url
}

func (p *fakePlaylists) ValidatePlaylistURL(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.lists[url]
	return ok
}

func (p *fakePlaylists) FetchPlaylist(_ context.Context, url string) (*PlaylistInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	info, ok := p.lists[url]
	if !ok {
		return nil, fmt.Errorf("unknown playlist: %s", url)
	}
	return info, nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	results []*SearchResult
	err     error
	queries []string
}

func (s *fakeSearcher) Search(_ context.Context, query string, limit int) ([]*SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > limit {
		return s.results[:limit], nil
	}
	return s.results, nil
}

type fakePrompter struct {
	mu     sync.Mutex
	answer string
	err    error
	awaits int
}

func (p *fakePrompter) Await(_ context.Context, _ string, _ time.Duration) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.awaits++
	return p.answer, p.err
}

type playRecord struct {
	stream *fakeStream
	volume int
}

type fakeConn struct {
	mu           sync.Mutex
	channelID    string
	plays        []playRecord
	playErr      error
	onDisconnect func()
	onError      func(error)
	closed       bool
}

func (c *fakeConn) Play(stream Stream, volume int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playErr != nil {
		return c.playErr
	}
	c.plays = append(c.plays, playRecord{stream: stream.(*fakeStream), volume: volume})
	return nil
}

func (c *fakeConn) OnDisconnect(fn func()) {
	c.mu.Lock()
	c.onDisconnect = fn
	c.mu.Unlock()
}

func (c *fakeConn) OnError(fn func(error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

func (c *fakeConn) ChannelID() string { return c.channelID }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) dropConnection() {
	c.mu.Lock()
	fn := c.onDisconnect
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *fakeConn) failConnection(err error) {
	c.mu.Lock()
	fn := c.onError
	c.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

type fakeConnector struct {
	mu       sync.Mutex
	failures int // number of leading join attempts to fail
	joins    int
	conns    []*fakeConn
}

func (c *fakeConnector) Join(_ context.Context, _, channelID string) (Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joins++
	if c.joins <= c.failures {
		return nil, errors.New("gateway refused")
	}
	conn := &fakeConn{channelID: channelID}
	c.conns = append(c.conns, conn)
	return conn, nil
}

func (c *fakeConnector) joinCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joins
}

func (c *fakeConnector) last() *fakeConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.conns) == 0 {
		return nil
	}
	return c.conns[len(c.conns)-1]
}

type fakeStream struct {
	mu       sync.Mutex
	song     *Song
	opts     StreamOptions
	onFinish func()
	onError  func(error)
	paused   bool
	released bool
}

func (s *fakeStream) OnFinish(fn func()) {
	s.mu.Lock()
	s.onFinish = fn
	s.mu.Unlock()
}

func (s *fakeStream) OnError(fn func(error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

func (s *fakeStream) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

func (s *fakeStream) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

func (s *fakeStream) Stop() { s.Finish() }

func (s *fakeStream) Release() {
	s.mu.Lock()
	s.released = true
	s.mu.Unlock()
}

// Finish simulates natural completion.
func (s *fakeStream) Finish() {
	s.mu.Lock()
	fn := s.onFinish
	released := s.released
	s.mu.Unlock()
	if fn != nil && !released {
		fn()
	}
}

// Fail simulates a mid-stream failure.
func (s *fakeStream) Fail(err error) {
	s.mu.Lock()
	fn := s.onError
	released := s.released
	s.mu.Unlock()
	if fn != nil && !released {
		fn(err)
	}
}

func (s *fakeStream) isReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

type fakeBuilder struct {
	mu     sync.Mutex
	built  []*fakeStream
	errFor map[string]error // keyed by song id
}

func newFakeBuilder() *fakeBuilder {
	return &fakeBuilder{errFor: make(map[string]error)}
}

func (b *fakeBuilder) Build(song *Song, opts StreamOptions) (Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err, ok := b.errFor[song.ID]; ok {
		return nil, err
	}
	s := &fakeStream{song: song, opts: opts}
	b.built = append(b.built, s)
	return s, nil
}

func (b *fakeBuilder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.built)
}

func (b *fakeBuilder) last() *fakeStream {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.built) == 0 {
		return nil
	}
	return b.built[len(b.built)-1]
}

type fakeExtractor struct {
	name    string
	prefix  string
	result  *ResolveResult
	stream  string
	related []*Song
}

func (e *fakeExtractor) Name() string { return e.name }

func (e *fakeExtractor) Validate(url string) bool {
	return strings.HasPrefix(url, e.prefix)
}

func (e *fakeExtractor) Resolve(_ context.Context, url, requester string) (*ResolveResult, error) {
	if e.result != nil {
		return e.result, nil
	}
	return &ResolveResult{Song: &Song{
		ID:        url,
		URL:       url,
		Source:    SourcePlugin,
		Name:      "plugin song",
		Requester: requester,
	}}, nil
}

func (e *fakeExtractor) StreamURL(_ context.Context, url string) (string, error) {
	if e.stream != "" {
		return e.stream, nil
	}
	return "stream://" + url, nil
}

func (e *fakeExtractor) RelatedSongs(_ context.Context, _ string) ([]*Song, error) {
	return e.related, nil
}

// eventRecorder captures every observation the player emits.
type eventRecorder struct {
	mu     sync.Mutex
	events []*Event
}

var allEventTypes = []EventType{
	EventPlaySong, EventAddList, EventFinishSong, EventFinish, EventNoRelated,
	EventSearchNoResult, EventSearchResult, EventSearchCancel, EventSearchDone,
	EventConnect, EventDisconnect, EventError,
}

func recordEvents(p *Player) *eventRecorder {
	r := &eventRecorder{}
	for _, t := range allEventTypes {
		t := t
		p.On(t, func(ev *Event) {
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
		})
	}
	return r
}

func (r *eventRecorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) byType(t EventType) []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	p       *Player
	md      *fakeMetadata
	pls     *fakePlaylists
	search  *fakeSearcher
	prompt  *fakePrompter
	conn    *fakeConnector
	streams *fakeBuilder
	events  *eventRecorder
}

func newFixture(t *testing.T, opts *Options) *fixture {
	t.Helper()
	f := &fixture{
		md:      newFakeMetadata(),
		pls:     newFakePlaylists(),
		search:  &fakeSearcher{},
		prompt:  &fakePrompter{},
		conn:    &fakeConnector{},
		streams: newFakeBuilder(),
	}
	p, err := New(opts, Deps{
		Metadata:  f.md,
		Playlists: f.pls,
		Searcher:  f.search,
		Prompter:  f.prompt,
		Connector: f.conn,
		Streams:   f.streams,
		Extractors: []Extractor{
			&fakeExtractor{name: "fake", prefix: "https://plugin.test/"},
		},
	}, logging.Discard())
	if err != nil {
		t.Fatalf("creating player: %v", err)
	}
	f.p = p
	f.events = recordEvents(p)
	t.Cleanup(p.Close)
	return f
}

func (f *fixture) request() PlayRequest {
	return PlayRequest{
		GuildID:        "guild-1",
		VoiceChannelID: "vc-1",
		TextChannelID:  "tc-1",
		Requester:      "user-1",
	}
}

// play resolves and enqueues a url, failing the test on error.
func (f *fixture) play(t *testing.T, url string) {
	t.Helper()
	if err := f.p.Play(context.Background(), f.request(), url); err != nil {
		t.Fatalf("play %s: %v", url, err)
	}
}

// addSong registers a song with the fake provider and returns its URL.
func (f *fixture) addSong(id string, related ...TrackRecord) string {
	return f.md.add(id, &SongInfo{
		Title:    "song " + id,
		Uploader: "uploader",
		Duration: 180,
		Related:  related,
	})
}
