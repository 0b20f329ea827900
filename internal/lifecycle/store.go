package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/zulandar/doctrail/internal/models"
	"github.com/zulandar/doctrail/internal/status"
)

// Filters narrows a document query. Zero-value fields are ignored. Scoping
// (own documents vs. team-wide) is expressed through CreatedByID / TeamID.
type Filters struct {
	CreatedByID string
	TeamID      string
	Type        string
	Flow        string
	Status      status.Status
	Pinned      *bool
}

// SortKey names a listing sort order.
type SortKey string

const (
	// SortCreatedAt and SortEndTrackAt are stored columns; pagination happens
	// in storage.
	SortCreatedAt  SortKey = "created_at"
	SortEndTrackAt SortKey = "end_track_at"

	// SortRemainingTime is synthetic: it does not exist in storage, so the
	// service fetches the full scoped set and sorts in memory.
	SortRemainingTime SortKey = "remaining_time"
)

// Sort pairs a sort key with a direction.
type Sort struct {
	Key  SortKey
	Desc bool
}

// Page is an offset/limit window into a result set.
type Page struct {
	Offset int
	Limit  int
}

// Listing page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// normalized clamps the page to sane bounds.
func (p Page) normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// StatusFields is the writable slice of a document's lifecycle state. A nil
// timestamp leaves the stored column untouched, so reconciliation corrections
// are status-only writes.
type StatusFields struct {
	Status      status.Status
	CompletedAt *time.Time
	ApprovedAt  *time.Time
}

// Store is the persistence seam for documents.
type Store interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	Find(ctx context.Context, f Filters, s Sort, p Page) ([]models.Document, int64, error)
	FindAll(ctx context.Context, f Filters) ([]models.Document, error)
	UpdateStatusFields(ctx context.Context, id string, fields StatusFields) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	Count(ctx context.Context, f Filters) (int64, error)
}

// Directory answers team membership questions for authorization and metrics.
type Directory interface {
	IsTeamLeader(ctx context.Context, actorID, teamID string) (bool, error)
	TeamMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

// Notifier delivers completion notices. Best-effort: the lifecycle service
// logs failures and never rolls back a transition over one.
type Notifier interface {
	NotifyCompletion(ctx context.Context, doc *models.Document) error
}

// NotFoundError reports a document id that does not resolve.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("lifecycle: document not found: %s", e.ID)
}
