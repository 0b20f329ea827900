// Package metrics aggregates reconciled documents into summary and
// per-member performance metrics. All computation is pure in-memory math over
// an already-scoped, already-reconciled document set with an explicit now.
package metrics

import (
	"time"

	"github.com/zulandar/doctrail/internal/models"
	"github.com/zulandar/doctrail/internal/status"
)

// DefaultPeriod is the trend comparison window when the caller doesn't pick one.
const DefaultPeriod = 30 * 24 * time.Hour

// Trend classifier thresholds and values for per-member on-time trends.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"

	// trendThreshold is the percentage-point band around zero that still
	// counts as stable.
	trendThreshold = 5.0

	memberRecentWindow = 30 * 24 * time.Hour
	memberOlderWindow  = 90 * 24 * time.Hour
)

// Summary holds aggregate performance metrics for a scoped document set.
type Summary struct {
	TotalDocuments        int     `json:"totalDocuments"`
	CompletedDocuments    int     `json:"completedDocuments"`
	CompletionRate        float64 `json:"completionRate"`
	OnTimeDocuments       int     `json:"onTimeDocuments"`
	OnTimeRate            float64 `json:"onTimeRate"`
	OverdueDocuments      int     `json:"overdueDocuments"`
	AverageProcessingDays float64 `json:"averageProcessingDays"`
	DocumentsTrend        float64 `json:"documentsTrend"` // percent change vs previous period
}

// MemberMetrics holds the same rates restricted to one team member, plus a
// 3-way on-time trend.
type MemberMetrics struct {
	UserID                string  `json:"userId"`
	Name                  string  `json:"name"`
	Role                  string  `json:"role"`
	TotalDocuments        int     `json:"totalDocuments"`
	CompletedDocuments    int     `json:"completedDocuments"`
	CompletionRate        float64 `json:"completionRate"`
	OnTimeDocuments       int     `json:"onTimeDocuments"`
	OnTimeRate            float64 `json:"onTimeRate"`
	OverdueDocuments      int     `json:"overdueDocuments"`
	AverageProcessingDays float64 `json:"averageProcessingDays"`
	OnTimeTrend           string  `json:"onTimeTrend"` // up, down, stable
}

// Summarize computes aggregate metrics over documents at now. The documents
// are expected to be scoped and reconciled already; period sizes the trend
// comparison windows.
func Summarize(docs []models.Document, now time.Time, period time.Duration) Summary {
	if period <= 0 {
		period = DefaultPeriod
	}

	s := Summary{TotalDocuments: len(docs)}

	var processingSum int
	var processingCount int
	var currentCount, previousCount int

	currentFrom := now.Add(-period)
	previousFrom := now.Add(-2 * period)

	for i := range docs {
		doc := &docs[i]
		f := status.Compute(now, doc.StartTrackAt, doc.EndTrackAt, doc.CompletedAt)

		if doc.CompletedAt != nil {
			s.CompletedDocuments++
		}
		if f.IsOnTime {
			s.OnTimeDocuments++
		}
		if f.IsOverdue {
			s.OverdueDocuments++
		}
		if f.ProcessingTimeDays != nil {
			processingSum += *f.ProcessingTimeDays
			processingCount++
		}

		switch {
		case inWindow(doc.CreatedAt, currentFrom, now):
			currentCount++
		case inWindow(doc.CreatedAt, previousFrom, currentFrom):
			previousCount++
		}
	}

	s.CompletionRate = rate(s.CompletedDocuments, s.TotalDocuments)
	s.OnTimeRate = rate(s.OnTimeDocuments, s.CompletedDocuments)
	if processingCount > 0 {
		s.AverageProcessingDays = float64(processingSum) / float64(processingCount)
	}
	if previousCount > 0 {
		s.DocumentsTrend = float64(currentCount-previousCount) / float64(previousCount) * 100
	}
	return s
}

// PerMember computes metrics for each team member over the team's documents.
// A member with no documents gets zero rates, never an error.
func PerMember(members []models.TeamMember, docs []models.Document, now time.Time) []MemberMetrics {
	byAuthor := make(map[string][]models.Document, len(members))
	for i := range docs {
		byAuthor[docs[i].CreatedByID] = append(byAuthor[docs[i].CreatedByID], docs[i])
	}

	out := make([]MemberMetrics, 0, len(members))
	for _, m := range members {
		own := byAuthor[m.UserID]
		s := Summarize(own, now, DefaultPeriod)
		out = append(out, MemberMetrics{
			UserID:                m.UserID,
			Name:                  m.Name,
			Role:                  m.Role,
			TotalDocuments:        s.TotalDocuments,
			CompletedDocuments:    s.CompletedDocuments,
			CompletionRate:        s.CompletionRate,
			OnTimeDocuments:       s.OnTimeDocuments,
			OnTimeRate:            s.OnTimeRate,
			OverdueDocuments:      s.OverdueDocuments,
			AverageProcessingDays: s.AverageProcessingDays,
			OnTimeTrend:           onTimeTrend(own, now),
		})
	}
	return out
}

// onTimeTrend compares the on-time rate over the last 30 days of completions
// against the rate over the preceding 30-90 day window. More than 5
// percentage points either way breaks "stable".
func onTimeTrend(docs []models.Document, now time.Time) string {
	recent := onTimeRateInWindow(docs, now.Add(-memberRecentWindow), now)
	older := onTimeRateInWindow(docs, now.Add(-memberOlderWindow), now.Add(-memberRecentWindow))

	switch diff := recent - older; {
	case diff > trendThreshold:
		return TrendUp
	case diff < -trendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// onTimeRateInWindow computes the on-time percentage over documents completed
// within [from, to). Zero completions in the window yield 0%.
func onTimeRateInWindow(docs []models.Document, from, to time.Time) float64 {
	var completed, onTime int
	for i := range docs {
		doc := &docs[i]
		if doc.CompletedAt == nil || !inWindow(*doc.CompletedAt, from, to) {
			continue
		}
		completed++
		if !doc.CompletedAt.After(doc.EndTrackAt) {
			onTime++
		}
	}
	return rate(onTime, completed)
}

// rate returns part/whole as a percentage, 0 when whole is 0.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// inWindow reports whether t falls in [from, to).
func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
