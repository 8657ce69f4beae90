package commands

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand displays all available commands with their descriptions using embeds
func HelpCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := &discordgo.MessageEmbed{
		Title:       "Yotei",
		Description: "Here are all the available commands for the bot:",
		Color:       0x00ff00,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Playback Commands",
				Value: strings.Join([]string{
					"• `!play <url|search>` / `!p` - Play a URL, playlist, or search result",
					"• `!playskip <url|search>` / `!ps` - Play immediately, skipping the current song",
					"• `!skip` / `!next` - Skip the currently playing song",
					"• `!previous` / `!prev` - Replay the previous song",
					"• `!pause` - Pause the current playback",
					"• `!resume` - Resume paused playback",
					"• `!stop` - Stop playback and clear the queue",
					"• `!seek <seconds>` - Jump to a position in the current song",
				}, "\n"),
				Inline: false,
			},
			{
				Name: "Queue Commands",
				Value: strings.Join([]string{
					"• `!queue` / `!q` - List the current queue",
					"• `!nowplaying` / `!np` - Show the currently playing song",
					"• `!jump <position>` - Skip ahead to a queued song",
					"• `!shuffle` - Shuffle the pending songs",
					"• `!repeat [off|song|queue]` - Cycle or set the repeat mode",
					"• `!autoplay` - Toggle autoplay of related songs",
					"• `!volume <0-100>` / `!vol` - Set the playback volume",
					"• `!filter [name|off]` - Toggle audio filters (nightcore, bassboost, ...)",
					"• `!about` - Show bot information",
				}, "\n"),
				Inline: false,
			},
			{
				Name: "💡 Tips",
				Value: strings.Join([]string{
					"• Join a voice channel **before** using playback commands",
					"• Searches return a numbered list when search mode is configured for it; reply with a number to pick",
					"• Direct audio links and yt-dlp supported sites work too",
				}, "\n"),
				Inline: false,
			},
		},
	}

	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
