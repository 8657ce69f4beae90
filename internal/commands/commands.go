package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/pkg/player"
)

// Global player instance shared by all command handlers
var musicPlayer *player.Player

// Setup wires the player into the command handlers. Call once at startup
// before the session starts receiving events.
func Setup(p *player.Player) {
	musicPlayer = p
}

// sendEmbedMessage sends a simple embed to a channel
func sendEmbedMessage(s *discordgo.Session, channelID, title, description string, color int) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
	s.ChannelMessageSendEmbed(channelID, embed)
}

// findUserVoiceChannel finds the voice channel the user is currently in
func findUserVoiceChannel(s *discordgo.Session, guildID, userID string) (string, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("could not find guild: %w", err)
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", fmt.Errorf("you must be in a voice channel to play music")
}

// formatDuration renders seconds as m:ss or h:mm:ss
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "live"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// requireQueue fetches the guild's live queue, reporting to the channel
// when there is none.
func requireQueue(s *discordgo.Session, m *discordgo.MessageCreate) *player.Queue {
	q := musicPlayer.GetQueue(m.GuildID)
	if q == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing in this server.", 0xff0000)
	}
	return q
}
