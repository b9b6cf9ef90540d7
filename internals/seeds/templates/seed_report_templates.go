package templates

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookclub_backend/internals/features/reports/structured"
	"bookclub_backend/internals/features/reports/templates/model"
	"bookclub_backend/internals/helpers/logger"
)

//go:embed data_report_templates.json
var defaultTemplates []byte

type TemplateSeed struct {
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	IsDefault   bool                 `json:"is_default"`
	SortOrder   int                  `json:"sort_order"`
	Sections    []structured.Section `json:"sections"`
}

func ParseTemplateSeeds() ([]TemplateSeed, error) {
	var seeds []TemplateSeed
	if err := json.Unmarshal(defaultTemplates, &seeds); err != nil {
		return nil, fmt.Errorf("decode template seeds: %w", err)
	}
	return seeds, nil
}

// SeedReportTemplates inserts version 1 of each bundled template. Existing versions are left alone.
func SeedReportTemplates(ctx context.Context, db *gorm.DB) error {
	seeds, err := ParseTemplateSeeds()
	if err != nil {
		return err
	}
	for _, s := range seeds {
		row := model.ReportTemplateModel{
			ReportTemplateCode:        s.Code,
			ReportTemplateVersion:     1,
			ReportTemplateName:        s.Name,
			ReportTemplateDescription: s.Description,
			ReportTemplateCategory:    s.Category,
			ReportTemplateSections:    s.Sections,
			ReportTemplateIsDefault:   s.IsDefault,
			ReportTemplateSortOrder:   s.SortOrder,
			ReportTemplateIsActive:    true,
		}
		res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("seed template %s: %w", s.Code, res.Error)
		}
		if res.RowsAffected > 0 {
			logger.Info("template seeded", zap.String("code", s.Code))
		}
	}
	return nil
}
