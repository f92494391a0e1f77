package activity

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is a concurrency-safe in-memory Store with the same duplicate-key
// semantics as the real table, shared by the tests in this package.
type memStore struct {
	mu      sync.Mutex
	records map[recordKey]*recordCounts
	creates int
	adds    int
}

type recordKey struct {
	guildID string
	userID  string
	day     time.Time
}

type recordCounts struct {
	messages int64
	minutes  int64
}

func newMemStore() *memStore {
	return &memStore{records: make(map[recordKey]*recordCounts)}
}

func (s *memStore) CreateDaily(ctx context.Context, guildID, userID string, day time.Time, messages, voiceMinutes int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	key := recordKey{guildID, userID, day}
	if _, ok := s.records[key]; ok {
		return ErrDuplicateRecord
	}
	s.records[key] = &recordCounts{messages: messages, minutes: voiceMinutes}
	return nil
}

func (s *memStore) AddDaily(ctx context.Context, guildID, userID string, day time.Time, messages, voiceMinutes int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adds++
	counts, ok := s.records[recordKey{guildID, userID, day}]
	if !ok {
		return false, nil
	}
	counts.messages += messages
	counts.minutes += voiceMinutes
	return true, nil
}

func (s *memStore) SumActivity(ctx context.Context, guildID string, since time.Time, limit int) ([]UserTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser := make(map[string]*UserTotals)
	for key, counts := range s.records {
		if key.guildID != guildID || key.day.Before(since) {
			continue
		}
		t, ok := byUser[key.userID]
		if !ok {
			t = &UserTotals{UserID: key.userID}
			byUser[key.userID] = t
		}
		t.MessageCount += counts.messages
		t.VoiceMinutes += counts.minutes
	}

	totals := make([]UserTotals, 0, len(byUser))
	for _, t := range byUser {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].MessageCount != totals[j].MessageCount {
			return totals[i].MessageCount > totals[j].MessageCount
		}
		return totals[i].UserID < totals[j].UserID
	})
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

func (s *memStore) SumUserActivity(ctx context.Context, guildID, userID string, since time.Time) (UserTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := UserTotals{UserID: userID}
	for key, counts := range s.records {
		if key.guildID != guildID || key.userID != userID || key.day.Before(since) {
			continue
		}
		totals.MessageCount += counts.messages
		totals.VoiceMinutes += counts.minutes
	}
	return totals, nil
}

// record reads one record's counters, reporting whether it exists.
func (s *memStore) record(guildID, userID string, day time.Time) (recordCounts, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, ok := s.records[recordKey{guildID, userID, day}]
	if !ok {
		return recordCounts{}, false
	}
	return *counts, true
}

func (s *memStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates + s.adds
}

// fakeClock is a manually advanced clock for tracker and recorder tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// mapDirectory is an in-memory Directory.
type mapDirectory map[string]Identity

func (d mapDirectory) Lookup(ctx context.Context, userIDs []string) (map[string]Identity, error) {
	identities := make(map[string]Identity)
	for _, id := range userIDs {
		if identity, ok := d[id]; ok {
			identities[id] = identity
		}
	}
	return identities, nil
}
