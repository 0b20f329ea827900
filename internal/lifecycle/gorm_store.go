package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/zulandar/doctrail/internal/models"
	"gorm.io/gorm"
)

// GormStore implements Store and Directory on a GORM connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a new document.
func (s *GormStore) Create(ctx context.Context, doc *models.Document) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("store: create document: %w", err)
	}
	return nil
}

// Get fetches a document by ID.
func (s *GormStore) Get(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("store: get document %s: %w", id, err)
	}
	return &doc, nil
}

// Find returns a storage-paginated page of documents plus the total count.
// Only stored-column sort keys are accepted here; the synthetic
// remaining_time sort is the service's job.
func (s *GormStore) Find(ctx context.Context, f Filters, srt Sort, p Page) ([]models.Document, int64, error) {
	column, err := sortColumn(srt.Key)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	order := column + " ASC"
	if srt.Desc {
		order = column + " DESC"
	}

	var docs []models.Document
	q := applyFilters(s.db.WithContext(ctx).Model(&models.Document{}), f)
	if err := q.Order(order).Order("id ASC").Offset(p.Offset).Limit(p.Limit).Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("store: find documents: %w", err)
	}
	return docs, total, nil
}

// FindAll returns every document matching the filters, ordered by creation
// time for stable iteration.
func (s *GormStore) FindAll(ctx context.Context, f Filters) ([]models.Document, error) {
	var docs []models.Document
	q := applyFilters(s.db.WithContext(ctx).Model(&models.Document{}), f)
	if err := q.Order("created_at ASC, id ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("store: find all documents: %w", err)
	}
	return docs, nil
}

// UpdateStatusFields writes the status and, when set, the completion or
// approval timestamp. Nil timestamps leave the stored columns untouched, so
// reconciliation corrections are status-only writes.
func (s *GormStore) UpdateStatusFields(ctx context.Context, id string, fields StatusFields) error {
	updates := map[string]interface{}{"status": fields.Status}
	if fields.CompletedAt != nil {
		updates["completed_at"] = *fields.CompletedAt
	}
	if fields.ApprovedAt != nil {
		updates["approved_at"] = *fields.ApprovedAt
	}

	result := s.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("store: update status of %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// SetPinned toggles the pin flag.
func (s *GormStore) SetPinned(ctx context.Context, id string, pinned bool) error {
	result := s.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Update("is_pinned", pinned)
	if result.Error != nil {
		return fmt.Errorf("store: pin %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// Count returns the number of documents matching the filters.
func (s *GormStore) Count(ctx context.Context, f Filters) (int64, error) {
	var count int64
	q := applyFilters(s.db.WithContext(ctx).Model(&models.Document{}), f)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("store: count documents: %w", err)
	}
	return count, nil
}

// IsTeamLeader reports whether the actor holds the leader role on the team.
func (s *GormStore) IsTeamLeader(ctx context.Context, actorID, teamID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND role = ?", teamID, actorID, models.RoleLeader).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("store: leadership check for %s on %s: %w", actorID, teamID, err)
	}
	return count > 0, nil
}

// TeamMembers returns the roster of a team, leaders first.
func (s *GormStore) TeamMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("role ASC, user_id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("store: members of %s: %w", teamID, err)
	}
	return members, nil
}

// applyFilters adds WHERE clauses for every non-zero filter field.
func applyFilters(q *gorm.DB, f Filters) *gorm.DB {
	if f.CreatedByID != "" {
		q = q.Where("created_by_id = ?", f.CreatedByID)
	}
	if f.TeamID != "" {
		q = q.Where("team_id = ?", f.TeamID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Flow != "" {
		q = q.Where("flow = ?", f.Flow)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Pinned != nil {
		q = q.Where("is_pinned = ?", *f.Pinned)
	}
	return q
}

// sortColumn maps a stored-field sort key to its column, rejecting anything
// outside the whitelist.
func sortColumn(key SortKey) (string, error) {
	switch key {
	case "", SortCreatedAt:
		return "created_at", nil
	case SortEndTrackAt:
		return "end_track_at", nil
	default:
		return "", fmt.Errorf("store: unsupported storage sort key %q", key)
	}
}
