package util

import (
	"strconv"
	"strings"
)

// sizeUnits maps size suffixes to their byte multipliers. Input without
// any of these suffixes is read as bare bytes.
var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"GB", 1024 * 1024 * 1024},
	{"MB", 1024 * 1024},
	{"KB", 1024},
}

// ParseSize parses a human-readable size string ("10MB", "512KB", "2GB")
// into bytes. A bare number is taken as bytes. Unparseable input falls
// back to defaultBytes rather than erroring, since size limits always
// have a sane default.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}

	var multiplier int64 = 1
	for _, unit := range sizeUnits {
		if rest, ok := strings.CutSuffix(s, unit.suffix); ok {
			multiplier = unit.multiplier
			s = rest
			break
		}
	}

	val, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return defaultBytes
	}
	return val * multiplier
}

// MaskSecret hides all but the first visiblePrefix characters of a secret
// so API keys can appear in logs without leaking. Secrets at or below the
// prefix length mask entirely; an empty secret stays empty so logs can
// tell "no key" from "key set".
func MaskSecret(s string, visiblePrefix int) string {
	if s == "" {
		return ""
	}
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
