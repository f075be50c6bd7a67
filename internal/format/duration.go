// Package format holds small display helpers shared by the TUI and the CLI.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a request latency for display: microseconds
// below a millisecond, whole milliseconds below a second, and the default
// representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}
