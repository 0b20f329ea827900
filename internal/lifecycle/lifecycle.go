// Package lifecycle orchestrates document reads and status transitions:
// read-time reconciliation of stale persisted statuses against the clock,
// and validated, authorized manual transitions with their side effects.
package lifecycle

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/zulandar/doctrail/internal/models"
	"github.com/zulandar/doctrail/internal/status"
)

// ErrInvalidInput marks malformed creation requests so callers can map them
// to a client error.
var ErrInvalidInput = errors.New("invalid input")

// Service is the lifecycle orchestrator. All methods take an explicit now so
// behavior is deterministic under test.
type Service struct {
	store    Store
	dir      Directory
	notifier Notifier
	log      zerolog.Logger
}

// Opts holds Service dependencies. Notifier may be nil (no notifications).
type Opts struct {
	Store    Store
	Dir      Directory
	Notifier Notifier
	Log      zerolog.Logger
}

// NewService wires a lifecycle Service.
func NewService(opts Opts) *Service {
	return &Service{
		store:    opts.Store,
		dir:      opts.Dir,
		notifier: opts.Notifier,
		log:      opts.Log,
	}
}

// DocumentView is a reconciled document with its derived facts attached.
// Status on the embedded document is the effective status, never the stale
// persisted one.
type DocumentView struct {
	models.Document
	Facts status.Facts `json:"facts"`
}

// ListResult is a page of reconciled documents plus the total matching count.
type ListResult struct {
	Items []DocumentView `json:"items"`
	Total int64          `json:"total"`
}

// CreateOpts holds parameters for creating a new document.
type CreateOpts struct {
	Title        string
	Description  string
	Type         string
	Flow         string
	StartTrackAt time.Time
	EndTrackAt   time.Time
	CreatedByID  string
	TeamID       string
}

// GenerateID creates a unique document ID in doc-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lifecycle: generate ID: %w", err)
	}
	return "doc-" + hex.EncodeToString(b)[:5], nil
}

// Create stores a new document with its initial status derived from the
// tracking window at creation time. The seed is non-terminal, so a document
// is born DRAFT, ACTIVE, WARNING or OVERDUE but never COMPLETED or APPROVED.
func (s *Service) Create(ctx context.Context, opts CreateOpts, now time.Time) (*DocumentView, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("lifecycle: title is required: %w", ErrInvalidInput)
	}
	if opts.CreatedByID == "" {
		return nil, fmt.Errorf("lifecycle: author is required: %w", ErrInvalidInput)
	}
	if opts.EndTrackAt.Before(opts.StartTrackAt) {
		return nil, fmt.Errorf("lifecycle: tracking window ends before it starts: %w", ErrInvalidInput)
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		ID:           id,
		Title:        opts.Title,
		Description:  opts.Description,
		Type:         opts.Type,
		Flow:         opts.Flow,
		Status:       status.Derive(now, opts.StartTrackAt, opts.EndTrackAt, status.Draft),
		StartTrackAt: opts.StartTrackAt,
		EndTrackAt:   opts.EndTrackAt,
		CreatedByID:  opts.CreatedByID,
	}
	if opts.Type == "" {
		doc.Type = "report"
	}
	if opts.Flow == "" {
		doc.Flow = "internal"
	}
	if opts.TeamID != "" {
		doc.TeamID = &opts.TeamID
	}

	if err := s.store.Create(ctx, &doc); err != nil {
		return nil, fmt.Errorf("lifecycle: create: %w", err)
	}

	v := s.view(&doc, now)
	return &v, nil
}

// Reconcile derives the document's effective status at now and, when the
// persisted value has drifted and is not terminal, writes the correction back
// (status only). The write is best-effort: failures are logged and swallowed,
// and the caller always gets the derived value. The document's Status field
// is updated in place. Returns the effective status and whether a write-back
// was attempted.
func (s *Service) Reconcile(ctx context.Context, doc *models.Document, now time.Time) (status.Status, bool) {
	derived := status.Derive(now, doc.StartTrackAt, doc.EndTrackAt, doc.Status)
	if derived == doc.Status || doc.Status.IsTerminal() {
		doc.Status = derived
		return derived, false
	}

	if err := s.store.UpdateStatusFields(ctx, doc.ID, StatusFields{Status: derived}); err != nil {
		s.log.Warn().Err(err).
			Str("document", doc.ID).
			Str("from", doc.Status.String()).
			Str("to", derived.String()).
			Msg("status write-back failed")
	}
	doc.Status = derived
	return derived, true
}

// Get returns a single reconciled document with facts attached.
func (s *Service) Get(ctx context.Context, id string, now time.Time) (*DocumentView, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Reconcile(ctx, doc, now)
	v := s.view(doc, now)
	return &v, nil
}

// List returns a reconciled, sorted, paginated page of documents plus the
// total matching count. Stored-field sorts paginate in storage. The synthetic
// remaining_time sort fetches the entire scoped set, reconciles every item,
// sorts in memory and slices the page; this is O(N) in the scoped set by
// design.
func (s *Service) List(ctx context.Context, f Filters, srt Sort, p Page, now time.Time) (*ListResult, error) {
	p = p.normalized()

	if srt.Key == SortRemainingTime {
		return s.listByRemainingTime(ctx, f, srt, p, now)
	}

	docs, total, err := s.store.Find(ctx, f, srt, p)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: list: %w", err)
	}

	items := make([]DocumentView, 0, len(docs))
	for i := range docs {
		s.Reconcile(ctx, &docs[i], now)
		items = append(items, s.view(&docs[i], now))
	}
	return &ListResult{Items: items, Total: total}, nil
}

func (s *Service) listByRemainingTime(ctx context.Context, f Filters, srt Sort, p Page, now time.Time) (*ListResult, error) {
	docs, err := s.store.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: list: %w", err)
	}

	views := make([]DocumentView, 0, len(docs))
	for i := range docs {
		s.Reconcile(ctx, &docs[i], now)
		views = append(views, s.view(&docs[i], now))
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Facts.RemainingTimeMs, views[j].Facts.RemainingTimeMs
		if a == b {
			return views[i].ID < views[j].ID
		}
		if srt.Desc {
			return a > b
		}
		return a < b
	})

	total := int64(len(views))
	start := p.Offset
	if start > len(views) {
		start = len(views)
	}
	end := start + p.Limit
	if end > len(views) {
		end = len(views)
	}
	return &ListResult{Items: views[start:end], Total: total}, nil
}

// ListAll returns the full reconciled scoped set, unpaginated. Metrics and
// digests consume this.
func (s *Service) ListAll(ctx context.Context, f Filters, now time.Time) ([]DocumentView, error) {
	docs, err := s.store.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: list all: %w", err)
	}
	views := make([]DocumentView, 0, len(docs))
	for i := range docs {
		s.Reconcile(ctx, &docs[i], now)
		views = append(views, s.view(&docs[i], now))
	}
	return views, nil
}

// Transition applies a manual status change. The document is re-fetched and
// its effective status derived inside this operation, so legality is checked
// against the derived status, never the stale persisted one. On COMPLETED the
// external party is notified best-effort after the write.
func (s *Service) Transition(ctx context.Context, id, actorID string, target status.Status, now time.Time) (*DocumentView, error) {
	if !target.IsValid() {
		return nil, &status.ValidationError{Value: target.String()}
	}

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	derived := status.Derive(now, doc.StartTrackAt, doc.EndTrackAt, doc.Status)
	if err := status.ValidateTransition(derived, target); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, doc, actorID, target); err != nil {
		return nil, err
	}

	fields := StatusFields{Status: target}
	switch target {
	case status.Completed:
		fields.CompletedAt = &now
	case status.Approved:
		fields.ApprovedAt = &now
	}

	if err := s.store.UpdateStatusFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("lifecycle: transition %s to %s: %w", id, target, err)
	}

	doc.Status = target
	if fields.CompletedAt != nil {
		doc.CompletedAt = fields.CompletedAt
	}
	if fields.ApprovedAt != nil {
		doc.ApprovedAt = fields.ApprovedAt
	}

	if target == status.Completed && s.notifier != nil {
		if err := s.notifier.NotifyCompletion(ctx, doc); err != nil {
			s.log.Warn().Err(err).Str("document", doc.ID).Msg("completion notification failed")
		}
	}

	v := s.view(doc, now)
	return &v, nil
}

// authorize applies the per-transition authorization rules: APPROVED needs
// the leader role on the document's team (no team means approval is
// impossible), anything else needs the actor to be the author.
func (s *Service) authorize(ctx context.Context, doc *models.Document, actorID string, target status.Status) error {
	if target != status.Approved {
		if actorID != doc.CreatedByID {
			return &status.AuthorizationError{
				ActorID: actorID,
				Target:  target,
				Reason:  "only the author may change the document's status",
			}
		}
		return nil
	}

	if doc.TeamID == nil {
		return &status.AuthorizationError{
			ActorID: actorID,
			Target:  target,
			Reason:  "document has no team; approval is impossible",
		}
	}
	leader, err := s.dir.IsTeamLeader(ctx, actorID, *doc.TeamID)
	if err != nil {
		return fmt.Errorf("lifecycle: leadership check for %s: %w", actorID, err)
	}
	if !leader {
		return &status.AuthorizationError{
			ActorID: actorID,
			Target:  target,
			Reason:  fmt.Sprintf("approval requires the leader role on team %s", *doc.TeamID),
		}
	}
	return nil
}

// SetPinned toggles the pin flag. Pinning is independent of the lifecycle and
// bypasses the transition validator entirely.
func (s *Service) SetPinned(ctx context.Context, id string, pinned bool, now time.Time) (*DocumentView, error) {
	if err := s.store.SetPinned(ctx, id, pinned); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, now)
}

// Members returns the roster of a team for per-member metrics.
func (s *Service) Members(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	return s.dir.TeamMembers(ctx, teamID)
}

// IsTeamLeader reports whether the actor holds the leader role on the team.
func (s *Service) IsTeamLeader(ctx context.Context, actorID, teamID string) (bool, error) {
	return s.dir.IsTeamLeader(ctx, actorID, teamID)
}

func (s *Service) view(doc *models.Document, now time.Time) DocumentView {
	return DocumentView{
		Document: *doc,
		Facts:    status.Compute(now, doc.StartTrackAt, doc.EndTrackAt, doc.CompletedAt),
	}
}
