package db

import (
	"fmt"

	"github.com/zulandar/doctrail/internal/config"
	"github.com/zulandar/doctrail/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Document{},
		&models.Team{},
		&models.TeamMember{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedTeams upserts Team and TeamMember rows from configuration.
func SeedTeams(db *gorm.DB, teams []config.TeamConfig) error {
	for _, tc := range teams {
		team := models.Team{
			ID:   tc.ID,
			Name: tc.Name,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&team)
		if result.Error != nil {
			return fmt.Errorf("db: seed team %q: %w", tc.ID, result.Error)
		}

		for _, mc := range tc.Members {
			member := models.TeamMember{
				TeamID: tc.ID,
				UserID: mc.ID,
				Name:   mc.Name,
				Role:   mc.Role,
			}
			result := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "role"}),
			}).Create(&member)
			if result.Error != nil {
				return fmt.Errorf("db: seed member %q on team %q: %w", mc.ID, tc.ID, result.Error)
			}
		}
	}
	return nil
}
