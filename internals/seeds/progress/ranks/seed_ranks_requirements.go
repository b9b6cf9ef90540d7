package rank

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookclub_backend/internals/features/progress/level_rank/model"
)

//go:embed data_ranks_requirements.json
var data []byte

type RankSeed struct {
	RankReqRank     int    `json:"rank_req_rank"`
	RankReqName     string `json:"rank_req_name"`
	RankReqMinLevel int    `json:"rank_req_min_level"`
	RankReqMaxLevel *int   `json:"rank_req_max_level"`
}

func SeedRankRequirements(ctx context.Context, db *gorm.DB) error {
	var seeds []RankSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("decode rank seeds: %w", err)
	}
	rows := make([]model.RankRequirement, 0, len(seeds))
	for _, s := range seeds {
		rows = append(rows, model.RankRequirement{
			RankReqRank:     s.RankReqRank,
			RankReqName:     s.RankReqName,
			RankReqMinLevel: s.RankReqMinLevel,
			RankReqMaxLevel: s.RankReqMaxLevel,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "rank_req_rank"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed ranks: %w", err)
	}
	return nil
}
