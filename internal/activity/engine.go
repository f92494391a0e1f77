// Package activity implements the activity tracking engine: it observes
// message and voice-presence events per user per guild, folds them into
// durable per-day counters, and answers leaderboard queries over trailing
// day windows.
package activity

import "context"

// Engine is the facade over the session tracker, the recorder and the
// leaderboard. Callers hand it raw events; it owns classification, session
// state and crediting.
type Engine struct {
	tracker  *SessionTracker
	recorder *Recorder
	board    *Leaderboard
}

// NewEngine creates an engine writing to store and resolving leaderboard
// identities through directory.
func NewEngine(store Store, directory Directory) *Engine {
	return &Engine{
		tracker:  NewSessionTracker(),
		recorder: NewRecorder(store),
		board:    NewLeaderboard(store, directory),
	}
}

// RecordMessageActivity credits one message for today. Callers on the
// high-frequency message path may treat a failure as best-effort and keep
// serving, but the error is always reported.
func (e *Engine) RecordMessageActivity(ctx context.Context, guildID, userID string) error {
	return e.recorder.CreditMessage(ctx, guildID, userID)
}

// StartVoiceSession opens a voice session for the user. No durable write
// happens until the session closes.
func (e *Engine) StartVoiceSession(guildID, userID string) {
	e.tracker.Start(guildID, userID)
}

// EndVoiceSession closes the user's open voice session, if any, and durably
// credits the elapsed minutes to today. The write must succeed before the
// event counts as handled: the session is already consumed at that point, so
// a failed write cannot be replayed by calling EndVoiceSession again.
func (e *Engine) EndVoiceSession(ctx context.Context, guildID, userID string) error {
	minutes, ok := e.tracker.End(guildID, userID)
	if !ok {
		return nil
	}
	return e.recorder.CreditVoiceMinutes(ctx, guildID, userID, minutes)
}

// HandleVoiceState classifies a channel transition and drives the session
// tracker. A move is an end followed by a start with both intervals rounded
// on their own, which can credit slightly more than wall-clock time for
// rapid channel hopping. The returned transition is what the pair classified
// as, for caller-side logging.
func (e *Engine) HandleVoiceState(ctx context.Context, guildID, userID, prevChannelID, nextChannelID string) (Transition, error) {
	tr := ClassifyTransition(prevChannelID, nextChannelID)
	switch tr {
	case TransitionJoin:
		e.StartVoiceSession(guildID, userID)
	case TransitionLeave:
		return tr, e.EndVoiceSession(ctx, guildID, userID)
	case TransitionMove:
		if err := e.EndVoiceSession(ctx, guildID, userID); err != nil {
			return tr, err
		}
		e.StartVoiceSession(guildID, userID)
	}
	return tr, nil
}

// ActivityLeaderboard ranks the guild's most active users over the trailing
// windowDays calendar days including today.
func (e *Engine) ActivityLeaderboard(ctx context.Context, guildID string, windowDays, limit int) ([]LeaderboardEntry, error) {
	return e.board.TopActive(ctx, guildID, windowDays, limit)
}

// UserActivity returns one user's summed counters over the trailing
// windowDays calendar days including today.
func (e *Engine) UserActivity(ctx context.Context, guildID, userID string, windowDays int) (UserTotals, error) {
	return e.board.UserActivity(ctx, guildID, userID, windowDays)
}
