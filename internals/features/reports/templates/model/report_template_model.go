package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"bookclub_backend/internals/features/reports/structured"
)

// ReportTemplateModel is one published version of a template. Rows are never updated in place;
// a changed definition is inserted as the next version of the same code.
type ReportTemplateModel struct {
	ReportTemplateID          uuid.UUID                              `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:report_template_id" json:"report_template_id"`
	ReportTemplateCode        string                                 `gorm:"type:varchar(64);not null;uniqueIndex:uq_report_templates_code_version,priority:1;column:report_template_code" json:"report_template_code"`
	ReportTemplateVersion     int                                    `gorm:"not null;default:1;uniqueIndex:uq_report_templates_code_version,priority:2;column:report_template_version" json:"report_template_version"`
	ReportTemplateName        string                                 `gorm:"type:varchar(120);not null;column:report_template_name" json:"report_template_name"`
	ReportTemplateDescription *string                                `gorm:"type:text;column:report_template_description" json:"report_template_description,omitempty"`
	ReportTemplateCategory    *string                                `gorm:"type:varchar(64);index;column:report_template_category" json:"report_template_category,omitempty"`
	ReportTemplateSections    datatypes.JSONSlice[structured.Section] `gorm:"type:jsonb;not null;column:report_template_sections" json:"report_template_sections"`
	ReportTemplateIsDefault   bool                                   `gorm:"not null;default:false;column:report_template_is_default" json:"report_template_is_default"`
	ReportTemplateSortOrder   int                                    `gorm:"not null;default:0;column:report_template_sort_order" json:"report_template_sort_order"`
	ReportTemplateIsActive    bool                                   `gorm:"not null;default:true;column:report_template_is_active" json:"report_template_is_active"`
	ReportTemplateCreatedAt   time.Time                              `gorm:"type:timestamptz;not null;default:now();column:report_template_created_at" json:"report_template_created_at"`
}

func (ReportTemplateModel) TableName() string { return "report_templates" }

func (m *ReportTemplateModel) ToTemplate() structured.Template {
	secs := make([]structured.Section, len(m.ReportTemplateSections))
	copy(secs, m.ReportTemplateSections)
	return structured.Template{
		Code:     m.ReportTemplateCode,
		Version:  m.ReportTemplateVersion,
		Name:     m.ReportTemplateName,
		Sections: secs,
	}
}
