package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const queuePageSize = 10

// QueueCommand shows the pending songs for this guild
func QueueCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}

	songs := q.Songs()
	if len(songs) == 0 {
		sendEmbedMessage(s, m.ChannelID, "📋 Queue", "The queue is empty.", 0x808080)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Now playing:** %s `[%s]`\n", songs[0].Name, formatDuration(songs[0].Duration))
	for i, song := range songs[1:] {
		if i >= queuePageSize {
			fmt.Fprintf(&b, "…and %d more", len(songs)-1-queuePageSize)
			break
		}
		fmt.Fprintf(&b, "`%d.` %s `[%s]`\n", i+1, song.Name, formatDuration(song.Duration))
	}

	footer := fmt.Sprintf("\nRepeat: **%s** • Autoplay: **%v** • Volume: **%d%%**",
		q.RepeatMode().String(), q.Autoplay(), q.Volume())
	sendEmbedMessage(s, m.ChannelID, "📋 Queue", b.String()+footer, 0x0099ff)
}

// NowPlayingCommand shows the current song
func NowPlayingCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	q := requireQueue(s, m)
	if q == nil {
		return
	}
	song := q.Current()
	if song == nil {
		sendEmbedMessage(s, m.ChannelID, "🔇 Nothing Playing", "No song is currently playing.", 0x808080)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎵 Now Playing",
		Description: fmt.Sprintf("**%s**", song.Name),
		Color:       0x00ff00,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: formatDuration(song.Duration), Inline: true},
			{Name: "Requested by", Value: fmt.Sprintf("<@%s>", song.Requester), Inline: true},
			{Name: "Source", Value: song.Source.String(), Inline: true},
		},
	}
	if song.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: song.Thumbnail}
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
