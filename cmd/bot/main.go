package main

import (
	"os"
	"os/signal"
	"syscall"

	"guildpulse/internal/activity"
	"guildpulse/internal/config"
	"guildpulse/internal/database"
	"guildpulse/internal/discord"
	"guildpulse/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("guildpulse", "info")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New("guildpulse", cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// Build the activity engine on top of the stores
	store := database.NewActivityStore(db)
	users := database.NewUserStore(db)
	engine := activity.NewEngine(store, users)

	// Initialize Discord bot
	bot, err := discord.New(cfg.DiscordToken, engine, users, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord bot")
	}

	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start bot")
	}
	defer bot.Stop()

	log.Info().Msg("bot is running")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info().Msg("shutting down bot")
}
