package utils

import "fmt"

// FormatUserMention formats a user ID as a Discord mention
func FormatUserMention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// FormatLeaderboardEntry formats a leaderboard line with rank, name and
// activity totals
func FormatLeaderboardEntry(rank int, name string, messageCount, voiceMinutes int64) string {
	medal := ""
	switch rank {
	case 1:
		medal = "🥇"
	case 2:
		medal = "🥈"
	case 3:
		medal = "🥉"
	default:
		medal = fmt.Sprintf("%d.", rank)
	}

	return fmt.Sprintf("%s %s - %d message(s), %s in voice", medal, name, messageCount, FormatMinutes(voiceMinutes))
}
