package project

import (
	"strings"
	"time"
)

// maxDerivedNameRunes bounds names derived from the product description.
const maxDerivedNameRunes = 30

// DeriveName returns the display name to persist: the explicit project name
// if set, else the leading runes of the product description, else a
// date-stamped placeholder.
func DeriveName(s *Snapshot, now time.Time) string {
	if name := strings.TrimSpace(s.ProjectName); name != "" {
		return name
	}
	if input := strings.TrimSpace(s.ProductInput); input != "" {
		runes := []rune(input)
		if len(runes) > maxDerivedNameRunes {
			return string(runes[:maxDerivedNameRunes]) + "..."
		}
		return input
	}
	return "Project " + now.Format("2006-01-02")
}

// Preview returns the short index-entry text for a snapshot: the strategy's
// unique selling point when present, else a placeholder.
func Preview(s *Snapshot) string {
	if s.Strategy != nil && strings.TrimSpace(s.Strategy.USP) != "" {
		return s.Strategy.USP
	}
	return "No strategy yet"
}
