package activity

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateRecord reports that CreateDaily hit an already-existing
// (guild, user, day) row. Storage implementations map their native
// uniqueness-violation condition onto this sentinel so the recorder never
// inspects provider error codes.
var ErrDuplicateRecord = errors.New("activity: daily record already exists")

// Store is the durable daily-counter store behind the engine.
type Store interface {
	// CreateDaily inserts a new daily record with the given initial
	// counters. Returns ErrDuplicateRecord when the row already exists.
	CreateDaily(ctx context.Context, guildID, userID string, day time.Time, messages, voiceMinutes int64) error

	// AddDaily atomically increments the counters of an existing record.
	// applied is false when no record exists for the key.
	AddDaily(ctx context.Context, guildID, userID string, day time.Time, messages, voiceMinutes int64) (applied bool, err error)

	// SumActivity sums counters per user over records on or after since,
	// ordered by summed message count descending then user id ascending,
	// returning at most limit rows.
	SumActivity(ctx context.Context, guildID string, since time.Time, limit int) ([]UserTotals, error)

	// SumUserActivity sums one user's counters over records on or after
	// since. A user with no records sums to zero.
	SumUserActivity(ctx context.Context, guildID, userID string, since time.Time) (UserTotals, error)
}

// UserTotals is a per-user counter sum over some day window.
type UserTotals struct {
	UserID       string
	MessageCount int64
	VoiceMinutes int64
}
