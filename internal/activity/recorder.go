package activity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Recorder converts activity events into idempotent counter updates against
// the store. It owns the increment semantics and the day-bucketing rule.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// CreditMessage adds one message to the user's record for today.
func (r *Recorder) CreditMessage(ctx context.Context, guildID, userID string) error {
	return r.credit(ctx, guildID, userID, 1, 0)
}

// CreditVoiceMinutes adds closed-session minutes to the user's record for
// today. Sessions are credited to the day they close on, so a session that
// straddles midnight lands entirely on the later day.
func (r *Recorder) CreditVoiceMinutes(ctx context.Context, guildID, userID string, minutes int64) error {
	if minutes < 1 {
		return fmt.Errorf("credit voice minutes: minutes must be >= 1, got %d", minutes)
	}
	return r.credit(ctx, guildID, userID, 0, minutes)
}

// credit applies an increment read-or-create style: increment the existing
// record, create it when absent, and when a concurrent create wins the race
// fall back to a single retried increment so neither writer's counts are
// lost. At most one retry; anything past that surfaces to the caller.
func (r *Recorder) credit(ctx context.Context, guildID, userID string, messages, minutes int64) error {
	day := DayOf(r.now())

	applied, err := r.store.AddDaily(ctx, guildID, userID, day, messages, minutes)
	if err != nil {
		return fmt.Errorf("increment daily activity: %w", err)
	}
	if applied {
		return nil
	}

	err = r.store.CreateDaily(ctx, guildID, userID, day, messages, minutes)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrDuplicateRecord) {
		return fmt.Errorf("create daily activity: %w", err)
	}

	// Lost the first-write race; the row exists now.
	applied, err = r.store.AddDaily(ctx, guildID, userID, day, messages, minutes)
	if err != nil {
		return fmt.Errorf("increment daily activity after conflict: %w", err)
	}
	if !applied {
		return fmt.Errorf("daily activity record for %s/%s missing after conflict", guildID, userID)
	}
	return nil
}
