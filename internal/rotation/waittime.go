package rotation

import (
	"fmt"
	"time"
)

// FormatWaitTime renders a player's wait as display text.
func FormatWaitTime(lastPlayedAt *time.Time, now time.Time) string {
	if lastPlayedAt == nil {
		return "Never played"
	}

	mins := int(now.Sub(*lastPlayedAt).Minutes())
	switch {
	case mins < 1:
		return "Just played"
	case mins == 1:
		return "1 min ago"
	case mins < 60:
		return fmt.Sprintf("%d mins ago", mins)
	default:
		return fmt.Sprintf("%dh %dm ago", mins/60, mins%60)
	}
}
