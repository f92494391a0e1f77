package utils

import "fmt"

// FormatMinutes formats voice minutes as "Xh YYm", or "Ym" under an hour
func FormatMinutes(totalMinutes int64) string {
	h := totalMinutes / 60
	m := totalMinutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
