package seeds

import (
	"context"

	"gorm.io/gorm"

	level "bookclub_backend/internals/seeds/progress/levels"
	rank "bookclub_backend/internals/seeds/progress/ranks"
	"bookclub_backend/internals/seeds/templates"
)

// RunAllSeeds loads reference data. Every seeder is idempotent.
func RunAllSeeds(ctx context.Context, db *gorm.DB) error {
	//* Templates
	if err := templates.SeedReportTemplates(ctx, db); err != nil {
		return err
	}

	//* Progress
	if err := level.SeedLevelRequirements(ctx, db); err != nil {
		return err
	}
	return rank.SeedRankRequirements(ctx, db)
}
