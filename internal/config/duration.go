package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a bare-unit duration literal such as "3900s",
// "1h", or "30m" into seconds. Unlike time.ParseDuration it also accepts
// a plain integer (interpreted as seconds), matching the original
// configuration's stop_time literals.
func ParseDuration(literal string) (uint64, error) {
	trimmed := strings.TrimSpace(literal)
	if trimmed == "" {
		return 0, fmt.Errorf("config: empty duration literal")
	}
	if n, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("config: invalid duration literal %q: %w", literal, err)
	}
	return uint64(d.Seconds()), nil
}

// ParseBoolRelaxed parses the relaxed boolean vocabulary used by agent
// attributes: true/false, 1/0, yes/no, on/off, case-insensitive.
func ParseBoolRelaxed(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
