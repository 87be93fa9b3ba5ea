package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeout accepts Go durations ("1m30s") and plain seconds ("5", "0.5").
// An empty string means no timeout.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("timeout %q must not be negative", raw)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout %q must not be negative", raw)
	}
	return d, nil
}
