package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookclub_backend/internals/features/reports/templates/model"
)

type ReportTemplateRepository struct {
	DB *gorm.DB
}

func NewReportTemplateRepository(db *gorm.DB) *ReportTemplateRepository {
	return &ReportTemplateRepository{DB: db}
}

// ListActive returns every active version, optionally filtered by category.
func (r *ReportTemplateRepository) ListActive(ctx context.Context, category *string) ([]model.ReportTemplateModel, error) {
	q := r.DB.WithContext(ctx).Where("report_template_is_active = ?", true)
	if category != nil {
		q = q.Where("report_template_category = ?", *category)
	}
	var rows []model.ReportTemplateModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list report templates: %w", err)
	}
	return rows, nil
}

// LatestByCode returns nil, nil when no active version exists.
func (r *ReportTemplateRepository) LatestByCode(ctx context.Context, code string) (*model.ReportTemplateModel, error) {
	var m model.ReportTemplateModel
	err := r.DB.WithContext(ctx).
		Where("report_template_code = ? AND report_template_is_active = ?", code, true).
		Order("report_template_version DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report template %s: %w", code, err)
	}
	return &m, nil
}

// ByCodeVersion ignores the active flag; stored reports keep pointing at retired versions.
func (r *ReportTemplateRepository) ByCodeVersion(ctx context.Context, code string, version int) (*model.ReportTemplateModel, error) {
	var m model.ReportTemplateModel
	err := r.DB.WithContext(ctx).
		Where("report_template_code = ? AND report_template_version = ?", code, version).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report template %s v%d: %w", code, version, err)
	}
	return &m, nil
}

func (r *ReportTemplateRepository) MaxVersion(ctx context.Context, code string) (int, error) {
	var v int
	if err := r.DB.WithContext(ctx).
		Model(&model.ReportTemplateModel{}).
		Where("report_template_code = ?", code).
		Select("COALESCE(MAX(report_template_version), 0)").
		Scan(&v).Error; err != nil {
		return 0, fmt.Errorf("max template version %s: %w", code, err)
	}
	return v, nil
}

func (r *ReportTemplateRepository) Create(ctx context.Context, m *model.ReportTemplateModel) error {
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create report template: %w", err)
	}
	return nil
}
