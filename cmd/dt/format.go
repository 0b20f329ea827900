package main

import (
	"fmt"
	"time"

	"github.com/zulandar/doctrail/internal/lifecycle"
	"github.com/zulandar/doctrail/internal/models"
)

// truncate shortens s to at most n runes, with an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// formatRemaining renders a signed remaining-time in milliseconds as a short
// human duration (e.g. "3d 4h", "-2d 1h" once past the deadline).
func formatRemaining(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}

	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%s%dd %dh", sign, days, hours)
	case hours > 0:
		return fmt.Sprintf("%s%dh %dm", sign, hours, minutes)
	default:
		return fmt.Sprintf("%s%dm", sign, minutes)
	}
}

// parseTimeFlag accepts YYYY-MM-DD or full RFC3339 timestamps.
func parseTimeFlag(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not YYYY-MM-DD or RFC3339", raw)
	}
	return t, nil
}

// viewDocuments strips the derived facts off reconciled views for the
// metrics aggregator, which recomputes facts itself.
func viewDocuments(views []lifecycle.DocumentView) []models.Document {
	docs := make([]models.Document, 0, len(views))
	for _, v := range views {
		docs = append(docs, v.Document)
	}
	return docs
}
