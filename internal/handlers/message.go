package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/internal/commands"
)

var prompter *MessagePrompter

// Setup wires the shared prompter into the message handler. Call once at
// startup before the session starts receiving events.
func Setup(p *MessagePrompter) {
	prompter = p
}

func MessageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore all messages created by the bot itself
	if m.Author.ID == s.State.User.ID {
		return
	}

	// A pending search prompt gets first claim on the user's next message
	if prompter != nil && !strings.HasPrefix(m.Content, "!") {
		if prompter.Offer(m.Author.ID, strings.TrimSpace(m.Content)) {
			return
		}
	}

	// Check if the message is a command
	if strings.HasPrefix(m.Content, "!") {
		args := strings.Split(m.Content, " ")
		command := strings.TrimPrefix(args[0], "!")

		switch command {
		case "play", "p":
			commands.PlayCommand(s, m, args[1:])
		case "playskip", "ps":
			commands.PlaySkipCommand(s, m, args[1:])
		case "skip", "next":
			commands.SkipCommand(s, m)
		case "previous", "prev":
			commands.PreviousCommand(s, m)
		case "stop":
			commands.StopCommand(s, m)
		case "pause":
			commands.PauseCommand(s, m)
		case "resume":
			commands.ResumeCommand(s, m)
		case "queue", "q":
			commands.QueueCommand(s, m)
		case "nowplaying", "np":
			commands.NowPlayingCommand(s, m)
		case "seek":
			commands.SeekCommand(s, m, args[1:])
		case "volume", "vol":
			commands.VolumeCommand(s, m, args[1:])
		case "repeat", "loop":
			commands.RepeatCommand(s, m, args[1:])
		case "autoplay":
			commands.AutoplayCommand(s, m)
		case "shuffle":
			commands.ShuffleCommand(s, m)
		case "jump":
			commands.JumpCommand(s, m, args[1:])
		case "filter":
			commands.FilterCommand(s, m, args[1:])
		case "help":
			commands.HelpCommand(s, m)
		case "about":
			commands.AboutCommand(s, m)
		default:
			s.ChannelMessageSend(m.ChannelID, "Unknown command. Try !help for the full list.")
		}
	}
}
