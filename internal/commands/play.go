package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/pkg/player"
)

// PlayCommand resolves the input and adds it to the guild's queue, joining
// the user's voice channel when nothing is playing yet.
func PlayCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	playWithOptions(s, m, args, false)
}

// PlaySkipCommand behaves like play but jumps straight to the first newly
// added song.
func PlaySkipCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	playWithOptions(s, m, args, true)
}

func playWithOptions(s *discordgo.Session, m *discordgo.MessageCreate, args []string, skip bool) {
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Please provide a URL or search query.", 0xff0000)
		return
	}

	voiceChannelID, err := findUserVoiceChannel(s, m.GuildID, m.Author.ID)
	if err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", err.Error(), 0xff0000)
		return
	}

	input := strings.Join(args, " ")
	req := player.PlayRequest{
		GuildID:        m.GuildID,
		VoiceChannelID: voiceChannelID,
		TextChannelID:  m.ChannelID,
		Requester:      m.Author.ID,
		Skip:           skip,
	}

	go func() {
		if err := musicPlayer.Play(context.Background(), req, input); err != nil {
			sendEmbedMessage(s, m.ChannelID, "❌ Error", playErrorMessage(err), 0xff0000)
		}
	}()
}

func playErrorMessage(err error) string {
	switch {
	case player.IsKind(err, player.ErrUnsupportedURL):
		return "That URL is not supported."
	case player.IsKind(err, player.ErrEmptyFilteredPlaylist):
		return "Every song in that playlist is age-restricted."
	case player.IsKind(err, player.ErrEmptyPlaylist):
		return "That playlist has no playable songs."
	case player.IsKind(err, player.ErrJoinVoiceChannel):
		return "Could not join your voice channel."
	case player.IsKind(err, player.ErrInvalidInput):
		return "I don't know what to do with that input."
	}
	var perr *player.PlayerError
	if errors.As(err, &perr) && perr.Song != "" {
		return fmt.Sprintf("Failed to play **%s**.", perr.Song)
	}
	return "Something went wrong while resolving that."
}
