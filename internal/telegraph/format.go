package telegraph

import (
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/doctrail/internal/lifecycle"
	"github.com/zulandar/doctrail/internal/models"
)

// FormatCompletion formats a completion notice for a document.
func FormatCompletion(doc *models.Document) OutboundMessage {
	title := fmt.Sprintf("Document %s completed", doc.ID)

	var parts []string
	parts = append(parts, doc.Title)
	if doc.CompletedAt != nil {
		if doc.CompletedAt.After(doc.EndTrackAt) {
			parts = append(parts, fmt.Sprintf("completed late (due %s)", doc.EndTrackAt.Format("2006-01-02")))
		} else {
			parts = append(parts, "completed on time")
		}
	}
	parts = append(parts, fmt.Sprintf("by %s", doc.CreatedByID))
	if doc.TeamID != nil {
		parts = append(parts, fmt.Sprintf("team %s", *doc.TeamID))
	}

	return OutboundMessage{
		Title: title,
		Body:  strings.Join(parts, " — "),
	}
}

// BuildOverdueDigest formats a digest of overdue documents. The views are
// expected to be reconciled already. Returns ok=false when there is nothing
// overdue, so callers can suppress empty digests.
func BuildOverdueDigest(views []lifecycle.DocumentView, now time.Time) (OutboundMessage, bool) {
	var overdue []lifecycle.DocumentView
	for _, v := range views {
		if v.CompletedAt == nil && v.Facts.IsOverdue {
			overdue = append(overdue, v)
		}
	}
	if len(overdue) == 0 {
		return OutboundMessage{}, false
	}

	var b strings.Builder
	for _, v := range overdue {
		fmt.Fprintf(&b, "• %s %s — %d day(s) late (%s)\n", v.ID, v.Title, v.Facts.DaysLate, v.CreatedByID)
	}

	return OutboundMessage{
		Title: fmt.Sprintf("%d overdue document(s) as of %s", len(overdue), now.Format("2006-01-02")),
		Body:  strings.TrimRight(b.String(), "\n"),
	}, true
}
