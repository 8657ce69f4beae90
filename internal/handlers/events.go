package handlers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/internal/presence"
	"github.com/latoulicious/Yotei/pkg/player"
)

// RegisterPresence keeps the bot's status in sync with playback across
// all guilds.
func RegisterPresence(pm *presence.Manager, p *player.Player) {
	p.On(player.EventPlaySong, func(ev *player.Event) {
		if ev.Queue == nil || ev.Song == nil {
			return
		}
		pm.Playing(ev.Queue.GuildID, ev.Song.Name)
	})
	stopped := func(ev *player.Event) {
		if ev.Queue == nil {
			return
		}
		pm.Stopped(ev.Queue.GuildID)
	}
	p.On(player.EventFinish, stopped)
	p.On(player.EventDisconnect, stopped)
}

// RegisterNotifier subscribes to player observations and announces them in
// each queue's text channel. Handlers run on the player's transition
// goroutine, so the Discord calls are dispatched asynchronously.
func RegisterNotifier(s *discordgo.Session, p *player.Player) {
	announce := func(channelID string, embed *discordgo.MessageEmbed) {
		if channelID == "" {
			return
		}
		go s.ChannelMessageSendEmbed(channelID, embed)
	}
	channelFor := func(ev *player.Event) string {
		if ev.Queue != nil && ev.Queue.TextChannelID != "" {
			return ev.Queue.TextChannelID
		}
		return ev.Channel
	}

	p.On(player.EventPlaySong, func(ev *player.Event) {
		if ev.Song == nil {
			return
		}
		embed := &discordgo.MessageEmbed{
			Title:       "🎵 Now Playing",
			Description: fmt.Sprintf("**%s**", ev.Song.Name),
			Color:       0x00ff00,
		}
		if ev.Song.Thumbnail != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: ev.Song.Thumbnail}
		}
		announce(channelFor(ev), embed)
	})

	p.On(player.EventAddList, func(ev *player.Event) {
		if ev.Playlist == nil {
			return
		}
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       "📋 Added to Queue",
			Description: fmt.Sprintf("**%s** (%d songs)", ev.Playlist.Name, len(ev.Playlist.Songs)),
			Color:       0x0099ff,
		})
	})

	p.On(player.EventFinish, func(ev *player.Event) {
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       "🏁 Queue Finished",
			Description: "No more songs to play.",
			Color:       0x808080,
		})
	})

	p.On(player.EventNoRelated, func(ev *player.Event) {
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       "🎲 Autoplay",
			Description: "Could not find a related song to continue with.",
			Color:       0xffa500,
		})
	})

	p.On(player.EventSearchResult, func(ev *player.Event) {
		var b strings.Builder
		for i, r := range ev.Results {
			fmt.Fprintf(&b, "`%d.` %s\n", i+1, r.Name)
		}
		b.WriteString("\nReply with a number to pick a song.")
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔍 Results for %q", ev.Query),
			Description: b.String(),
			Color:       0x0099ff,
		})
	})

	p.On(player.EventSearchNoResult, func(ev *player.Event) {
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       "🔍 No Results",
			Description: fmt.Sprintf("Nothing found for %q.", ev.Query),
			Color:       0xff0000,
		})
	})

	p.On(player.EventSearchCancel, func(ev *player.Event) {
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       "🔍 Search Cancelled",
			Description: "No valid selection was made in time.",
			Color:       0x808080,
		})
	})

	p.On(player.EventDisconnect, func(ev *player.Event) {
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       "🔌 Disconnected",
			Description: "The voice connection dropped. The queue has been cleared.",
			Color:       0xff0000,
		})
	})

	p.On(player.EventError, func(ev *player.Event) {
		desc := "Something went wrong during playback."
		if ev.Song != nil {
			desc = fmt.Sprintf("Failed to play **%s**, skipping.", ev.Song.Name)
		}
		announce(channelFor(ev), &discordgo.MessageEmbed{
			Title:       "❌ Playback Error",
			Description: desc,
			Color:       0xff0000,
		})
	})
}
