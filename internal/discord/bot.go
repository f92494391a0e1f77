package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"guildpulse/internal/activity"
	"guildpulse/internal/database"
	"guildpulse/pkg/utils"
)

// Defaults for the leaderboard commands when no arguments are given.
const (
	defaultWindowDays = 7
	defaultTopLimit   = 10
)

// Bot represents the Discord bot
type Bot struct {
	session *discordgo.Session
	engine  *activity.Engine
	users   *database.UserStore
	log     zerolog.Logger
}

// New creates a new Discord bot around the activity engine
func New(token string, engine *activity.Engine, users *database.UserStore, log zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		session: session,
		engine:  engine,
		users:   users,
		log:     log,
	}

	session.AddHandler(bot.voiceStateUpdate)
	session.AddHandler(bot.messageCreate)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	return b.session.Close()
}

// voiceStateUpdate feeds voice-channel transitions into the engine. Bots are
// filtered out before the engine ever sees them. A leave or move must credit
// durably before the event counts as handled, so failures are logged as
// errors rather than swallowed.
func (b *Bot) voiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs.GuildID == "" {
		return
	}
	if vs.Member != nil && vs.Member.User != nil && vs.Member.User.Bot {
		return
	}

	ctx := context.Background()

	if vs.Member != nil && vs.Member.User != nil {
		if err := b.users.Upsert(ctx, vs.UserID, vs.Member.User.Username); err != nil {
			b.log.Warn().Err(err).Str("user", vs.UserID).Msg("user upsert failed")
		}
	}

	prevChannelID := ""
	if vs.BeforeUpdate != nil {
		prevChannelID = vs.BeforeUpdate.ChannelID
	}

	transition, err := b.engine.HandleVoiceState(ctx, vs.GuildID, vs.UserID, prevChannelID, vs.ChannelID)
	if err != nil {
		b.log.Error().Err(err).
			Str("guild", vs.GuildID).
			Str("user", vs.UserID).
			Stringer("transition", transition).
			Msg("voice credit failed")
		return
	}
	if transition != activity.TransitionNone {
		b.log.Debug().
			Str("guild", vs.GuildID).
			Str("user", vs.UserID).
			Stringer("transition", transition).
			Msg("voice state handled")
	}
}

// messageCreate credits message activity and dispatches prefix commands.
// Message crediting is best-effort: a failed write is logged and the bot
// keeps serving.
func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ctx := context.Background()

	if err := b.users.Upsert(ctx, m.Author.ID, m.Author.Username); err != nil {
		b.log.Warn().Err(err).Str("user", m.Author.ID).Msg("user upsert failed")
	}

	if err := b.engine.RecordMessageActivity(ctx, m.GuildID, m.Author.ID); err != nil {
		b.log.Error().Err(err).
			Str("guild", m.GuildID).
			Str("user", m.Author.ID).
			Msg("message credit failed")
	}

	content := strings.TrimSpace(m.Content)
	switch {
	case strings.HasPrefix(content, "!top"):
		b.handleTopCommand(s, m, content)
	case strings.HasPrefix(content, "!mystats"):
		b.handleMyStatsCommand(s, m, content)
	}
}

// handleTopCommand handles `!top [days] [limit]`
func (b *Bot) handleTopCommand(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	days, limit := defaultWindowDays, defaultTopLimit
	fields := strings.Fields(content)
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n >= 1 {
			days = n
		}
	}
	if len(fields) > 2 {
		if n, err := strconv.Atoi(fields[2]); err == nil && n >= 1 {
			limit = n
		}
	}

	entries, err := b.engine.ActivityLeaderboard(context.Background(), m.GuildID, days, limit)
	if err != nil {
		b.log.Error().Err(err).Str("guild", m.GuildID).Msg("leaderboard query failed")
		s.ChannelMessageSend(m.ChannelID, "Could not fetch the leaderboard.")
		return
	}
	if len(entries) == 0 {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No activity recorded in the last %d day(s).", days))
		return
	}

	var lines []string
	for i, entry := range entries {
		name := utils.FormatUserMention(entry.UserID)
		if entry.User != nil {
			name = entry.User.Username
		}
		lines = append(lines, utils.FormatLeaderboardEntry(i+1, name, entry.MessageCount, entry.VoiceMinutes))
	}

	msg := fmt.Sprintf("🏆 Most active in the last %d day(s):\n%s", days, strings.Join(lines, "\n"))
	s.ChannelMessageSend(m.ChannelID, msg)
}

// handleMyStatsCommand handles `!mystats [days]`
func (b *Bot) handleMyStatsCommand(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	days := defaultWindowDays
	fields := strings.Fields(content)
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n >= 1 {
			days = n
		}
	}

	totals, err := b.engine.UserActivity(context.Background(), m.GuildID, m.Author.ID, days)
	if err != nil {
		b.log.Error().Err(err).Str("guild", m.GuildID).Str("user", m.Author.ID).Msg("user stats query failed")
		s.ChannelMessageSend(m.ChannelID, "Could not fetch your stats.")
		return
	}

	msg := fmt.Sprintf("📊 %s, last %d day(s): %d message(s), %s in voice",
		m.Author.Username, days, totals.MessageCount, utils.FormatMinutes(totals.VoiceMinutes))
	s.ChannelMessageSend(m.ChannelID, msg)
}
