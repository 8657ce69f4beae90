package player

import (
	"context"
	"sync"
)

// EventType names an observation emitted by the player.
type EventType string

const (
	EventPlaySong       EventType = "playSong"
	EventAddList        EventType = "addList"
	EventFinishSong     EventType = "finishSong"
	EventFinish         EventType = "finish"
	EventNoRelated      EventType = "noRelated"
	EventSearchNoResult EventType = "searchNoResult"
	EventSearchResult   EventType = "searchResult"
	EventSearchCancel   EventType = "searchCancel"
	EventSearchDone     EventType = "searchDone"
	EventConnect        EventType = "connect"
	EventDisconnect     EventType = "disconnect"
	EventError          EventType = "error"
)

// Event carries the queue and the payload relevant to its type. Unused
// fields are zero.
type Event struct {
	Type     EventType
	Queue    *Queue
	Song     *Song
	Playlist *Playlist
	Results  []*SearchResult
	Query    string
	Answer   string
	Err      error
	// Channel is the announce channel for observations emitted before a
	// queue exists, such as search progress during resolution.
	Channel string
}

type ctxKey int

const textChannelKey ctxKey = iota

// WithTextChannel attaches the announce channel for resolution-time
// observations to the context.
func WithTextChannel(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, textChannelKey, channelID)
}

func textChannelFrom(ctx context.Context) string {
	v, _ := ctx.Value(textChannelKey).(string)
	return v
}

// EventHandler receives observation events. Handlers run synchronously on
// the goroutine performing the transition; long work belongs in a goroutine
// of the handler's own.
type EventHandler func(*Event)

type emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

func newEmitter() *emitter {
	return &emitter{handlers: make(map[EventType][]EventHandler)}
}

func (e *emitter) on(t EventType, h EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[t] = append(e.handlers[t], h)
}

func (e *emitter) emit(ev *Event) {
	e.mu.RLock()
	handlers := e.handlers[ev.Type]
	e.mu.RUnlock()
	for _, h := range handlers {
		h(ev)
	}
}
