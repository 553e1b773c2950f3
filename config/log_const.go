package config

import "os"

// Prefix colors of the component loggers.
const (
	ColorGreen   = "\033[32m" // APP
	ColorCyan    = "\033[36m" // SOLVER
	ColorMagenta = "\033[35m" // LEADERBOARD
)

// PrefixColor returns color, or nothing when NO_COLOR is set.
func PrefixColor(color string) string {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return ""
	}
	return color
}
