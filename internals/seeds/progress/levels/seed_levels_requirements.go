package levels

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookclub_backend/internals/features/progress/level_rank/model"
)

//go:embed data_levels_requirements.json
var data []byte

type LevelSeed struct {
	LevelReqLevel     int    `json:"level_req_level"`
	LevelReqName      string `json:"level_req_name"`
	LevelReqMinPoints int    `json:"level_req_min_points"`
	LevelReqMaxPoints *int   `json:"level_req_max_points"` // null = open-ended
}

// SeedLevelRequirements inserts the bundled levels, skipping ones already present.
func SeedLevelRequirements(ctx context.Context, db *gorm.DB) error {
	var seeds []LevelSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("decode level seeds: %w", err)
	}
	rows := make([]model.LevelRequirement, 0, len(seeds))
	for _, s := range seeds {
		rows = append(rows, model.LevelRequirement{
			LevelReqLevel:     s.LevelReqLevel,
			LevelReqName:      s.LevelReqName,
			LevelReqMinPoints: s.LevelReqMinPoints,
			LevelReqMaxPoints: s.LevelReqMaxPoints,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "level_req_level"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed levels: %w", err)
	}
	return nil
}
