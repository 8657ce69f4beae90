package presence

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/pkg/logging"
)

const refreshInterval = 5 * time.Minute

// Manager mirrors playback in the bot's Discord status. While any guild is
// playing, the status shows the most recently started song; otherwise it
// falls back to a server-count summary.
type Manager struct {
	session *discordgo.Session
	log     logging.Logger

	mu      sync.Mutex
	playing map[string]string // guild ID -> song title
	last    string            // guild that set the current status
}

func NewManager(session *discordgo.Session, log logging.Logger) *Manager {
	return &Manager{
		session: session,
		log:     log.With(logging.String("component", "presence")),
		playing: make(map[string]string),
	}
}

// Playing records that a guild started a song and puts it in the status.
func (m *Manager) Playing(guildID, title string) {
	m.mu.Lock()
	m.playing[guildID] = title
	m.last = guildID
	m.mu.Unlock()

	m.update(&discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{{
			Name: title,
			Type: discordgo.ActivityTypeListening,
		}},
	})
}

// Stopped records that a guild's queue went silent. If another guild is
// still playing, its song takes over the status.
func (m *Manager) Stopped(guildID string) {
	m.mu.Lock()
	delete(m.playing, guildID)
	wasShown := m.last == guildID
	var next string
	for _, title := range m.playing {
		next = title
		break
	}
	m.mu.Unlock()

	if !wasShown {
		return
	}
	if next != "" {
		m.update(&discordgo.UpdateStatusData{
			Status: "online",
			Activities: []*discordgo.Activity{{
				Name: next,
				Type: discordgo.ActivityTypeListening,
			}},
		})
		return
	}
	m.setIdle()
}

func (m *Manager) setIdle() {
	guilds := len(m.session.State.Guilds)
	m.update(&discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{{
			Name: "music in " + strconv.Itoa(guilds) + " servers",
			Type: discordgo.ActivityTypeWatching,
		}},
	})
}

func (m *Manager) update(data *discordgo.UpdateStatusData) {
	if err := m.session.UpdateStatusComplex(*data); err != nil {
		m.log.Warn("failed to update presence", logging.Error(err))
	}
}

// Start sets the idle status and keeps the server count fresh while
// nothing is playing.
func (m *Manager) Start() {
	m.setIdle()
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			m.mu.Lock()
			idle := len(m.playing) == 0
			m.mu.Unlock()
			if idle {
				m.setIdle()
			}
		}
	}()
}
