package model

import "time"

// LevelRequirement maps a point window onto a level. A nil max is open-ended.
type LevelRequirement struct {
	LevelReqID        uint      `gorm:"column:level_req_id;primaryKey" json:"level_req_id"`
	LevelReqLevel     int       `gorm:"column:level_req_level;unique;not null" json:"level_req_level"`
	LevelReqName      string    `gorm:"column:level_req_name;type:varchar(100)" json:"level_req_name"`
	LevelReqMinPoints int       `gorm:"column:level_req_min_points;not null" json:"level_req_min_points"`
	LevelReqMaxPoints *int      `gorm:"column:level_req_max_points" json:"level_req_max_points,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LevelRequirement) TableName() string { return "level_requirements" }

// RankRequirement maps a level window onto a reader rank.
type RankRequirement struct {
	RankReqID       uint      `gorm:"column:rank_req_id;primaryKey" json:"rank_req_id"`
	RankReqRank     int       `gorm:"column:rank_req_rank;unique;not null" json:"rank_req_rank"`
	RankReqName     string    `gorm:"column:rank_req_name;type:varchar(100)" json:"rank_req_name"`
	RankReqMinLevel int       `gorm:"column:rank_req_min_level;not null" json:"rank_req_min_level"`
	RankReqMaxLevel *int      `gorm:"column:rank_req_max_level" json:"rank_req_max_level,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RankRequirement) TableName() string { return "rank_requirements" }
