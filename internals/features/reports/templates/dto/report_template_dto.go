package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"bookclub_backend/internals/features/reports/structured"
	"bookclub_backend/internals/features/reports/templates/model"
	helper "bookclub_backend/internals/helpers"
)

// ===== REQUEST =====

type CreateReportTemplateRequest struct {
	Code        string               `json:"code" validate:"required,max=64"`
	Name        string               `json:"name" validate:"required,max=120"`
	Description *string              `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    *string              `json:"category,omitempty" validate:"omitempty,max=64"`
	Sections    []structured.Section `json:"sections" validate:"required,min=1,dive"`
	IsDefault   bool                 `json:"is_default"`
	SortOrder   int                  `json:"sort_order" validate:"omitempty,min=0"`
}

// Normalize slugs the code so " Quote First ", "quote_first" and accented spellings name the same template.
func (r *CreateReportTemplateRequest) Normalize() {
	r.Code = helper.Slugify(r.Code, 64)
	r.Name = strings.TrimSpace(r.Name)
	if r.Category != nil {
		c := strings.TrimSpace(*r.Category)
		if c == "" {
			r.Category = nil
		} else {
			r.Category = &c
		}
	}
	for i := range r.Sections {
		r.Sections[i].ID = strings.TrimSpace(r.Sections[i].ID)
		r.Sections[i].Title = strings.TrimSpace(r.Sections[i].Title)
	}
}

func (r *CreateReportTemplateRequest) ToModel(version int) *model.ReportTemplateModel {
	return &model.ReportTemplateModel{
		ReportTemplateCode:        r.Code,
		ReportTemplateVersion:     version,
		ReportTemplateName:        r.Name,
		ReportTemplateDescription: r.Description,
		ReportTemplateCategory:    r.Category,
		ReportTemplateSections:    r.Sections,
		ReportTemplateIsDefault:   r.IsDefault,
		ReportTemplateSortOrder:   r.SortOrder,
		ReportTemplateIsActive:    true,
	}
}

// ===== RESPONSE =====

type ReportTemplateResponse struct {
	ID          uuid.UUID            `json:"report_template_id"`
	Code        string               `json:"code"`
	Version     int                  `json:"version"`
	Name        string               `json:"name"`
	Description *string              `json:"description,omitempty"`
	Category    *string              `json:"category,omitempty"`
	Sections    []structured.Section `json:"sections"`
	IsDefault   bool                 `json:"is_default"`
	SortOrder   int                  `json:"sort_order"`
	CreatedAt   time.Time            `json:"created_at"`
}

func FromModel(m *model.ReportTemplateModel) ReportTemplateResponse {
	return ReportTemplateResponse{
		ID:          m.ReportTemplateID,
		Code:        m.ReportTemplateCode,
		Version:     m.ReportTemplateVersion,
		Name:        m.ReportTemplateName,
		Description: m.ReportTemplateDescription,
		Category:    m.ReportTemplateCategory,
		Sections:    []structured.Section(m.ReportTemplateSections),
		IsDefault:   m.ReportTemplateIsDefault,
		SortOrder:   m.ReportTemplateSortOrder,
		CreatedAt:   m.ReportTemplateCreatedAt,
	}
}

func FromModels(list []model.ReportTemplateModel) []ReportTemplateResponse {
	out := make([]ReportTemplateResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
