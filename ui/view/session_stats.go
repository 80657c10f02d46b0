package view

import (
	"fmt"
	"time"

	"github.com/Deepayan-S/FoodScanner/ui/theme"
)

// clock renders d as mm:ss.
func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	min, sec := seconds/60, seconds%60
	return fmt.Sprintf("%02d:%02d", min, sec)
}

// sessionLine formats session and total capture durations with tallies.
func sessionLine(session, total time.Duration, found, failed int) string {
	return fmt.Sprintf("Session: %s  Total: %s  %s  %s",
		clock(session), clock(total),
		theme.Paint(theme.RoleOK, fmt.Sprintf("found %d", found)),
		theme.Paint(theme.RoleMuted, fmt.Sprintf("failed %d", failed)),
	)
}
