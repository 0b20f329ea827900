package status

import (
	"math"
	"time"
)

// WarningWindow is how close to the tracked end date a document turns WARNING.
const WarningWindow = 7 * 24 * time.Hour

// Derive computes the effective status of a document at now. Terminal
// persisted statuses are sticky and returned unchanged; everything else is
// recomputed from the tracking window.
//
// Boundary policy: the start/end comparisons are strict and the warning
// window is inclusive of the 7-day boundary, so for a fixed window the result
// moves DRAFT -> ACTIVE -> WARNING -> OVERDUE monotonically as now advances,
// with no gaps or overlaps.
func Derive(now, startTrackAt, endTrackAt time.Time, persisted Status) Status {
	if persisted.IsTerminal() {
		return persisted
	}
	switch {
	case now.Before(startTrackAt):
		return Draft
	case now.After(endTrackAt):
		return Overdue
	case endTrackAt.Sub(now) <= WarningWindow:
		return Warning
	default:
		return Active
	}
}

// Facts are the ephemeral time-based facts about a document. They are never
// persisted; they exist only as the output of Compute for a (document, now)
// pair.
type Facts struct {
	RemainingTimeMs    int64 `json:"remainingTimeMs"` // signed; negative once overdue
	IsOverdue          bool  `json:"isOverdue"`
	IsOnTime           bool  `json:"isOnTime"`
	DaysLate           int   `json:"daysLate"`
	ProcessingTimeDays *int  `json:"processingTimeDays"` // nil unless completed
}

// Compute derives the time-based facts for a document at now. completedAt is
// nil while the document is not completed. Pure in all inputs.
func Compute(now, startTrackAt, endTrackAt time.Time, completedAt *time.Time) Facts {
	f := Facts{
		RemainingTimeMs: endTrackAt.Sub(now).Milliseconds(),
	}

	if completedAt != nil {
		f.IsOverdue = completedAt.After(endTrackAt)
		f.IsOnTime = !f.IsOverdue
		if f.IsOverdue {
			f.DaysLate = ceilDays(completedAt.Sub(endTrackAt))
		}
		days := ceilDays(completedAt.Sub(startTrackAt))
		f.ProcessingTimeDays = &days
		return f
	}

	f.IsOverdue = now.After(endTrackAt)
	if f.IsOverdue {
		f.DaysLate = ceilDays(now.Sub(endTrackAt))
	}
	return f
}

// ceilDays converts a duration to whole days, rounding up.
func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
