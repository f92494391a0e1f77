package activity

import (
	"context"
	"fmt"
	"time"
)

// Identity is the resolved display identity of a user.
type Identity struct {
	ID       string
	Username string
}

// Directory resolves user identities for leaderboard display.
type Directory interface {
	// Lookup returns identities for the given user ids. Users that cannot
	// be resolved are simply absent from the result; that is not an error.
	Lookup(ctx context.Context, userIDs []string) (map[string]Identity, error)
}

// LeaderboardEntry is one ranked row of an activity leaderboard.
type LeaderboardEntry struct {
	UserID       string
	User         *Identity // nil when the identity could not be resolved
	MessageCount int64
	VoiceMinutes int64
}

// Leaderboard answers ranking queries over trailing day windows. It is
// read-only: it never mutates the counter store.
type Leaderboard struct {
	store     Store
	directory Directory
	now       func() time.Time
}

// NewLeaderboard creates a leaderboard reading from store and resolving
// identities through directory.
func NewLeaderboard(store Store, directory Directory) *Leaderboard {
	return &Leaderboard{store: store, directory: directory, now: time.Now}
}

// TopActive ranks the guild's most active users over the trailing windowDays
// calendar days including today. Ordering is summed message count descending
// with user id ascending as the tie-break. Users whose identity cannot be
// resolved keep their totals with a nil User so sums stay auditable.
func (l *Leaderboard) TopActive(ctx context.Context, guildID string, windowDays, limit int) ([]LeaderboardEntry, error) {
	if windowDays < 1 {
		return nil, fmt.Errorf("top active: windowDays must be >= 1, got %d", windowDays)
	}
	if limit < 1 {
		return nil, fmt.Errorf("top active: limit must be >= 1, got %d", limit)
	}

	since := WindowStart(l.now(), windowDays)
	totals, err := l.store.SumActivity(ctx, guildID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top active: %w", err)
	}
	if len(totals) == 0 {
		return nil, nil
	}

	userIDs := make([]string, len(totals))
	for i, t := range totals {
		userIDs[i] = t.UserID
	}
	identities, err := l.directory.Lookup(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("top active: resolve users: %w", err)
	}

	entries := make([]LeaderboardEntry, len(totals))
	for i, t := range totals {
		entries[i] = LeaderboardEntry{
			UserID:       t.UserID,
			MessageCount: t.MessageCount,
			VoiceMinutes: t.VoiceMinutes,
		}
		if id, ok := identities[t.UserID]; ok {
			id := id
			entries[i].User = &id
		}
	}
	return entries, nil
}

// UserActivity returns one user's summed counters over the trailing
// windowDays calendar days including today.
func (l *Leaderboard) UserActivity(ctx context.Context, guildID, userID string, windowDays int) (UserTotals, error) {
	if windowDays < 1 {
		return UserTotals{}, fmt.Errorf("user activity: windowDays must be >= 1, got %d", windowDays)
	}

	since := WindowStart(l.now(), windowDays)
	totals, err := l.store.SumUserActivity(ctx, guildID, userID, since)
	if err != nil {
		return UserTotals{}, fmt.Errorf("user activity: %w", err)
	}
	return totals, nil
}
