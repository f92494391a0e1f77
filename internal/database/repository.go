package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"guildpulse/internal/activity"
)

// uniqueViolation is the Postgres error code for a duplicate-key insert.
const uniqueViolation = pq.ErrorCode("23505")

// ActivityStore implements activity.Store on Postgres.
type ActivityStore struct {
	db *DB
}

// NewActivityStore creates a new activity store
func NewActivityStore(db *DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// CreateDaily inserts a fresh daily record. A duplicate-key insert is
// reported as activity.ErrDuplicateRecord so the recorder can branch on the
// concurrent-create race without knowing Postgres error codes.
func (s *ActivityStore) CreateDaily(ctx context.Context, guildID, userID string, day time.Time, messages, voiceMinutes int64) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO daily_activity (guild_id, user_id, activity_date, message_count, voice_minutes, last_updated)
		VALUES ($1, $2, $3, $4, $5, now())`,
		guildID, userID, day, messages, voiceMinutes)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return activity.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create daily activity: %w", err)
	}
	return nil
}

// AddDaily atomically increments the counters of an existing daily record,
// reporting whether a row was hit.
func (s *ActivityStore) AddDaily(ctx context.Context, guildID, userID string, day time.Time, messages, voiceMinutes int64) (bool, error) {
	res, err := s.db.conn.ExecContext(ctx, `
		UPDATE daily_activity
		SET message_count = message_count + $4,
		    voice_minutes = voice_minutes + $5,
		    last_updated = now()
		WHERE guild_id = $1 AND user_id = $2 AND activity_date = $3`,
		guildID, userID, day, messages, voiceMinutes)
	if err != nil {
		return false, fmt.Errorf("failed to increment daily activity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// SumActivity sums counters per user for a guild over activity dates on or
// after since, most messages first, user id as the tie-break.
func (s *ActivityStore) SumActivity(ctx context.Context, guildID string, since time.Time, limit int) ([]activity.UserTotals, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT user_id, SUM(message_count), SUM(voice_minutes)
		FROM daily_activity
		WHERE guild_id = $1 AND activity_date >= $2
		GROUP BY user_id
		ORDER BY SUM(message_count) DESC, user_id ASC
		LIMIT $3`,
		guildID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sum activity: %w", err)
	}
	defer rows.Close()

	var totals []activity.UserTotals
	for rows.Next() {
		var t activity.UserTotals
		if err := rows.Scan(&t.UserID, &t.MessageCount, &t.VoiceMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity rows: %w", err)
	}

	return totals, nil
}

// SumUserActivity sums one user's counters over activity dates on or after
// since. A user with no rows in the window sums to zero.
func (s *ActivityStore) SumUserActivity(ctx context.Context, guildID, userID string, since time.Time) (activity.UserTotals, error) {
	totals := activity.UserTotals{UserID: userID}
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(message_count), 0), COALESCE(SUM(voice_minutes), 0)
		FROM daily_activity
		WHERE guild_id = $1 AND user_id = $2 AND activity_date >= $3`,
		guildID, userID, since).Scan(&totals.MessageCount, &totals.VoiceMinutes)
	if err != nil {
		return activity.UserTotals{}, fmt.Errorf("failed to sum user activity: %w", err)
	}
	return totals, nil
}

// UserStore persists known users and implements activity.Directory for
// leaderboard identity lookups.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new user store
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert records a user sighting, keeping the stored username current.
func (s *UserStore) Upsert(ctx context.Context, userID, username string) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO users (user_id, username, last_seen)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, last_seen = now()`,
		userID, username)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// Lookup resolves identities for the given user ids. Unknown ids are absent
// from the result.
func (s *UserStore) Lookup(ctx context.Context, userIDs []string) (map[string]activity.Identity, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT user_id, username FROM users WHERE user_id = ANY($1)`,
		pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	defer rows.Close()

	identities := make(map[string]activity.Identity, len(userIDs))
	for rows.Next() {
		var id activity.Identity
		if err := rows.Scan(&id.ID, &id.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		identities[id.ID] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return identities, nil
}
