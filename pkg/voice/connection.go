package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
)

const (
	readyTimeout  = 10 * time.Second
	readyInterval = 100 * time.Millisecond
	healthPeriod  = 5 * time.Second
)

// Gateway acquires voice connections over a discordgo session.
type Gateway struct {
	session *discordgo.Session
	log     logging.Logger
}

func NewGateway(session *discordgo.Session, log logging.Logger) *Gateway {
	if log == nil {
		log = logging.Default()
	}
	return &Gateway{session: session, log: log.With(logging.String("component", "voice"))}
}

// Join connects to a voice channel and waits for the connection to become
// ready. A connection that never readies within the timeout is disconnected
// and reported as an error so the caller can run its retry.
func (g *Gateway) Join(ctx context.Context, guildID, channelID string) (player.Connection, error) {
	vc, err := g.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("joining voice channel %s: %w", channelID, err)
	}

	timeout := time.After(readyTimeout)
	ticker := time.NewTicker(readyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			vc.Disconnect()
			return nil, ctx.Err()
		case <-timeout:
			vc.Disconnect()
			return nil, fmt.Errorf("voice connection for channel %s timed out", channelID)
		case <-ticker.C:
			if vc.Ready {
				g.log.Info("voice connection ready",
					logging.String("guild", guildID),
					logging.String("channel", channelID))
				return newConn(vc, channelID, g.log), nil
			}
		}
	}
}

// Conn is a live voice connection for one guild. A health ticker watches
// the underlying transport and fires the disconnect handler when it drops.
type Conn struct {
	vc        *discordgo.VoiceConnection
	channelID string
	log       logging.Logger

	mu           sync.Mutex
	onDisconnect func()
	onError      func(error)
	stream       *Stream
	closed       bool
	dropped      bool

	cancel context.CancelFunc
}

func newConn(vc *discordgo.VoiceConnection, channelID string, log logging.Logger) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{vc: vc, channelID: channelID, log: log, cancel: cancel}
	go c.watch(ctx)
	return c
}

func (c *Conn) watch(ctx context.Context) {
	ticker := time.NewTicker(healthPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.vc.Ready {
				c.log.Warn("voice connection dropped", logging.String("channel", c.channelID))
				c.fireDisconnect()
				return
			}
		}
	}
}

// fireDisconnect runs the disconnect handler at most once, and never after
// a deliberate Close. The handler runs outside c.mu so it may call Close
// itself.
func (c *Conn) fireDisconnect() {
	c.mu.Lock()
	if c.closed || c.dropped {
		c.mu.Unlock()
		return
	}
	c.dropped = true
	fn := c.onDisconnect
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Play starts pumping the stream's audio into the transport at the given
// volume (0-100). The stream must come from this package's Builder.
func (c *Conn) Play(stream player.Stream, volume int) error {
	s, ok := stream.(*Stream)
	if !ok {
		return fmt.Errorf("stream was not built for a gateway connection")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("voice connection is closed")
	}
	c.stream = s
	onError := c.onError
	c.mu.Unlock()

	return s.start(c.vc, volume, onError)
}

func (c *Conn) OnDisconnect(fn func()) {
	c.mu.Lock()
	c.onDisconnect = fn
	c.mu.Unlock()
}

func (c *Conn) OnError(fn func(error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

func (c *Conn) ChannelID() string { return c.channelID }

// Close releases any active stream and disconnects. The disconnect handler
// does not fire for a deliberate close.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	s := c.stream
	c.stream = nil
	c.mu.Unlock()

	c.cancel()
	if s != nil {
		s.Release()
	}
	if c.vc == nil {
		return nil
	}
	return c.vc.Disconnect()
}
