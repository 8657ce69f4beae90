package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/pkg/player"
)

// SkipCommand advances to the next song
func SkipCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	q.Skip()
	sendEmbedMessage(s, m.ChannelID, "⏭️ Skipped", "Moving to the next song.", 0x00ff00)
}

// PreviousCommand replays the most recent song from history
func PreviousCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if err := q.Previous(); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "There is no previous song.", 0xff0000)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "⏮️ Previous", "Going back one song.", 0x00ff00)
}

// StopCommand stops playback and clears the queue
func StopCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	q.Stop()
	sendEmbedMessage(s, m.ChannelID, "⏹️ Stopped", "Playback stopped and queue cleared.", 0xff0000)
}

// PauseCommand pauses the current stream
func PauseCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if q.Paused() {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Playback is already paused.", 0xff0000)
		return
	}
	q.Pause()
	sendEmbedMessage(s, m.ChannelID, "⏸️ Playback Paused", "Music playback has been paused.", 0xffa500)
}

// ResumeCommand resumes a paused stream
func ResumeCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if !q.Paused() {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Playback is not paused.", 0xff0000)
		return
	}
	q.Resume()
	sendEmbedMessage(s, m.ChannelID, "▶️ Playback Resumed", "Music playback has been resumed.", 0x00ff00)
}

// SeekCommand restarts the current song at an offset in seconds
func SeekCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!seek <seconds>`", 0xff0000)
		return
	}
	seconds, err := strconv.Atoi(args[0])
	if err != nil || seconds < 0 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Seek position must be a non-negative number of seconds.", 0xff0000)
		return
	}
	if err := q.Seek(seconds); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Could not seek in the current song.", 0xff0000)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "⏩ Seek", fmt.Sprintf("Jumped to %s.", formatDuration(seconds)), 0x00ff00)
}

// VolumeCommand sets the queue volume (0-100)
func VolumeCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "🔊 Volume", fmt.Sprintf("Current volume is %d%%.", q.Volume()), 0x0099ff)
		return
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Volume must be a number between 0 and 100.", 0xff0000)
		return
	}
	if err := q.SetVolume(v); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Volume must be between 0 and 100.", 0xff0000)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "🔊 Volume", fmt.Sprintf("Volume set to %d%%.", v), 0x00ff00)
}

// RepeatCommand cycles or sets the repeat mode
func RepeatCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}

	var mode player.RepeatMode
	if len(args) == 0 {
		// Cycle off -> song -> queue -> off
		switch q.RepeatMode() {
		case player.RepeatOff:
			mode = player.RepeatSong
		case player.RepeatSong:
			mode = player.RepeatQueue
		default:
			mode = player.RepeatOff
		}
	} else {
		switch strings.ToLower(args[0]) {
		case "off":
			mode = player.RepeatOff
		case "song", "one":
			mode = player.RepeatSong
		case "queue", "all":
			mode = player.RepeatQueue
		default:
			sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!repeat [off|song|queue]`", 0xff0000)
			return
		}
	}
	q.SetRepeatMode(mode)
	sendEmbedMessage(s, m.ChannelID, "🔁 Repeat", fmt.Sprintf("Repeat mode set to **%s**.", mode.String()), 0x00ff00)
}

// AutoplayCommand toggles autoplay of related songs
func AutoplayCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if q.ToggleAutoplay() {
		sendEmbedMessage(s, m.ChannelID, "🎲 Autoplay", "Autoplay is now **on**.", 0x00ff00)
	} else {
		sendEmbedMessage(s, m.ChannelID, "🎲 Autoplay", "Autoplay is now **off**.", 0x808080)
	}
}

// ShuffleCommand shuffles the pending songs, keeping the current one first
func ShuffleCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	q.Shuffle()
	sendEmbedMessage(s, m.ChannelID, "🔀 Shuffled", "The queue has been shuffled.", 0x00ff00)
}

// JumpCommand skips ahead to the song at the given queue position
func JumpCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!jump <position>`", 0xff0000)
		return
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Position must be a number.", 0xff0000)
		return
	}
	if err := q.Jump(pos); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "No song at that position.", 0xff0000)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "⏭️ Jump", fmt.Sprintf("Jumping to song #%d.", pos), 0x00ff00)
}

// FilterCommand adds or removes audio filters on the queue
func FilterCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	if len(args) < 1 {
		active := q.Filters()
		if len(active) == 0 {
			sendEmbedMessage(s, m.ChannelID, "🎚️ Filters", "No filters active. Usage: `!filter <name>` or `!filter off`", 0x0099ff)
			return
		}
		sendEmbedMessage(s, m.ChannelID, "🎚️ Filters", "Active filters: "+strings.Join(active, ", "), 0x0099ff)
		return
	}

	name := strings.ToLower(args[0])
	if name == "off" {
		for _, f := range q.Filters() {
			q.RemoveFilter(f)
		}
		sendEmbedMessage(s, m.ChannelID, "🎚️ Filters", "All filters removed. They apply from the next song or seek.", 0x00ff00)
		return
	}
	if err := q.AddFilter(name); err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", fmt.Sprintf("Unknown filter **%s**.", name), 0xff0000)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "🎚️ Filters", fmt.Sprintf("Filter **%s** enabled. It applies from the next song or seek.", name), 0x00ff00)
}
