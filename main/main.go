package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Yotei/internal/commands"
	"github.com/latoulicious/Yotei/internal/config"
	"github.com/latoulicious/Yotei/internal/handlers"
	"github.com/latoulicious/Yotei/internal/presence"
	"github.com/latoulicious/Yotei/pkg/extractors"
	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
	"github.com/latoulicious/Yotei/pkg/voice"
	"github.com/latoulicious/Yotei/pkg/youtube"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Create a new Discord session using the provided token
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	// Assemble the player from its providers
	yt := youtube.New(logger)
	prompter := handlers.NewMessagePrompter()
	musicPlayer, err := player.New(cfg.Player, player.Deps{
		Metadata:  yt,
		Playlists: yt,
		Searcher:  yt,
		Prompter:  prompter,
		Connector: voice.NewGateway(dg, logger),
		Streams:   voice.NewBuilder(logger),
		Extractors: []player.Extractor{
			extractors.NewDirectLink(),
			extractors.NewYtDlp(logger),
		},
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create player: %v", err)
	}

	// Wire the player into the command and handler packages
	commands.Setup(musicPlayer)
	handlers.Setup(prompter)
	handlers.RegisterNotifier(dg, musicPlayer)

	statusManager := presence.NewManager(dg, logger)
	handlers.RegisterPresence(statusManager, musicPlayer)

	// Register the message handler
	dg.AddHandler(handlers.MessageHandler)

	// Open a websocket connection to Discord and begin listening.
	err = dg.Open()
	if err != nil {
		log.Fatalf("Failed to open Discord session: %v", err)
	}
	statusManager.Start()

	log.Println("Bot is running. Press CTRL-C to exit.")
	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly close down the player and the Discord session.
	musicPlayer.Close()
	dg.Close()
}
