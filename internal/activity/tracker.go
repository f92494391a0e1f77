package activity

import (
	"math"
	"sync"
	"time"
)

// SessionTracker holds the open voice session per guild and user. Sessions
// live only in memory: a process restart drops any open session and its
// partial interval is never credited.
type SessionTracker struct {
	mu       sync.Mutex
	sessions map[sessionKey]time.Time
	now      func() time.Time
}

type sessionKey struct {
	guildID string
	userID  string
}

// NewSessionTracker creates an empty session tracker.
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		sessions: make(map[sessionKey]time.Time),
		now:      time.Now,
	}
}

// Start opens a session for the user at the current time. An already-open
// session is overwritten: the later start wins.
func (t *SessionTracker) Start(guildID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[sessionKey{guildID, userID}] = t.now()
}

// End closes the open session for the user and returns the elapsed minutes.
// ok is false when no session was open, which is normal after a restart or a
// duplicate leave event, not an error.
func (t *SessionTracker) End(guildID, userID string) (minutes int64, ok bool) {
	key := sessionKey{guildID, userID}

	t.mu.Lock()
	defer t.mu.Unlock()
	start, ok := t.sessions[key]
	if !ok {
		return 0, false
	}
	delete(t.sessions, key)
	return creditMinutes(t.now().Sub(start)), true
}

// Open reports whether a session is currently open for the user.
func (t *SessionTracker) Open(guildID, userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.sessions[sessionKey{guildID, userID}]
	return ok
}

// creditMinutes converts a session duration to credited minutes: rounded to
// the nearest minute, never less than 1, so short sessions still count.
func creditMinutes(d time.Duration) int64 {
	m := int64(math.Round(d.Minutes()))
	if m < 1 {
		return 1
	}
	return m
}
