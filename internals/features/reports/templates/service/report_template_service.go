package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"bookclub_backend/internals/features/reports/structured"
	"bookclub_backend/internals/features/reports/templates/dto"
	"bookclub_backend/internals/features/reports/templates/model"
	"bookclub_backend/internals/helpers/apperr"
)

// Store is the persistence the registry needs.
type Store interface {
	ListActive(ctx context.Context, category *string) ([]model.ReportTemplateModel, error)
	LatestByCode(ctx context.Context, code string) (*model.ReportTemplateModel, error)
	ByCodeVersion(ctx context.Context, code string, version int) (*model.ReportTemplateModel, error)
	MaxVersion(ctx context.Context, code string) (int, error)
	Create(ctx context.Context, m *model.ReportTemplateModel) error
}

type ReportTemplateService struct {
	store    Store
	validate *validator.Validate
}

func NewReportTemplateService(store Store) *ReportTemplateService {
	return &ReportTemplateService{store: store, validate: validator.New()}
}

// ListTemplates returns the latest active version of each code,
// defaults first, then by sort order and code.
func (s *ReportTemplateService) ListTemplates(ctx context.Context, category *string) ([]model.ReportTemplateModel, error) {
	rows, err := s.store.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]model.ReportTemplateModel, len(rows))
	for _, r := range rows {
		cur, ok := latest[r.ReportTemplateCode]
		if !ok || r.ReportTemplateVersion > cur.ReportTemplateVersion {
			latest[r.ReportTemplateCode] = r
		}
	}

	out := make([]model.ReportTemplateModel, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ReportTemplateIsDefault != b.ReportTemplateIsDefault {
			return a.ReportTemplateIsDefault
		}
		if a.ReportTemplateSortOrder != b.ReportTemplateSortOrder {
			return a.ReportTemplateSortOrder < b.ReportTemplateSortOrder
		}
		return a.ReportTemplateCode < b.ReportTemplateCode
	})
	return out, nil
}

func (s *ReportTemplateService) GetModel(ctx context.Context, code string) (*model.ReportTemplateModel, error) {
	m, err := s.store.LatestByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFoundError{Resource: "template"}
	}
	return m, nil
}

// GetTemplate resolves the latest active version of code as a validation template.
func (s *ReportTemplateService) GetTemplate(ctx context.Context, code string) (*structured.Template, error) {
	m, err := s.GetModel(ctx, code)
	if err != nil {
		return nil, err
	}
	tpl := m.ToTemplate()
	return &tpl, nil
}

// GetTemplateVersion resolves one exact version, active or not.
func (s *ReportTemplateService) GetTemplateVersion(ctx context.Context, code string, version int) (*structured.Template, error) {
	m, err := s.store.ByCodeVersion(ctx, code, version)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFoundError{Resource: "template"}
	}
	tpl := m.ToTemplate()
	return &tpl, nil
}

// CreateVersion stores req as the next version of its code.
func (s *ReportTemplateService) CreateVersion(ctx context.Context, req dto.CreateReportTemplateRequest) (*model.ReportTemplateModel, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(req.Sections))
	for _, sec := range req.Sections {
		if !sec.Type.Valid() {
			return nil, apperr.ValidationError{Field: "sections.type", Reason: apperr.ReasonMalformed}
		}
		if _, dup := seen[sec.ID]; dup {
			return nil, apperr.ValidationError{Field: "sections.id", Reason: apperr.ReasonMalformed}
		}
		seen[sec.ID] = struct{}{}
	}

	maxV, err := s.store.MaxVersion(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	m := req.ToModel(maxV + 1)
	if err := s.store.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create template %s v%d: %w", req.Code, maxV+1, err)
	}
	return m, nil
}
