package activity

import "time"

// DayOf truncates t to its UTC calendar day. Every component buckets by this
// helper so day boundaries agree across the whole engine.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowStart returns the first day of a trailing window of days ending
// today. days=1 means today only.
func WindowStart(now time.Time, days int) time.Time {
	return DayOf(now).AddDate(0, 0, -(days - 1))
}
