package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/miyabito/kanade/internal/commands"
	"github.com/miyabito/kanade/internal/config"
	"github.com/miyabito/kanade/internal/handlers"
	"github.com/miyabito/kanade/internal/presence"
	"github.com/miyabito/kanade/pkg/player"
	"github.com/miyabito/kanade/pkg/resolver"
	"github.com/miyabito/kanade/pkg/session"
	"github.com/miyabito/kanade/pkg/stream"
	"github.com/miyabito/kanade/pkg/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal("failed to create Discord session", zap.Error(err))
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildVoiceStates

	store := session.NewStore()
	res := resolver.New(cfg.YtdlpPath, logger)
	provider := stream.NewPCMProvider(cfg.YtdlpPath, cfg.FfmpegPath, logger)
	gateway := voice.NewGateway(dg, store, logger)
	presenceManager := presence.NewManager(dg, logger)
	notifier := commands.NewNotifier(dg, presenceManager, logger)
	controller := player.New(store, provider, notifier, logger,
		player.WithIdleTimeout(cfg.IdleTimeout))
	gateway.OnReset(controller.NotifyReset)

	commands.Configure(&commands.Deps{
		Store:      store,
		Resolver:   res,
		Gateway:    gateway,
		Controller: controller,
		Presence:   presenceManager,
		Log:        logger,
	})

	dg.AddHandler(handlers.MessageHandler)
	dg.AddHandler(gateway.HandleVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		logger.Fatal("failed to open Discord session", zap.Error(err))
	}

	presenceManager.SetDefault()
	logger.Info("bot is running, press CTRL-C to exit")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("shutting down")
	controller.Shutdown()
	dg.Close()
}
