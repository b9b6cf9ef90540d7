package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bookclub_backend/internals/features/reports/book_reports/model"
	"bookclub_backend/internals/features/reports/book_reports/service"
	helper "bookclub_backend/internals/helpers"
)

/* =========================================================
   REQUESTS
   ========================================================= */

// SubmitBookReportRequest: a template submission sets structure+data, a free-text one sets content.
// Required-ness of title/content/sections is checked by the service so the error names the field.
type SubmitBookReportRequest struct {
	Title      string                     `json:"title" validate:"max=200"`
	Content    string                     `json:"content" validate:"max=20000"`
	Structure  string                     `json:"structure" validate:"omitempty,max=64"`
	Data       map[string]json.RawMessage `json:"data"`
	Visibility string                     `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE public private"`
	Rating     *float64                   `json:"rating"`
}

func (r SubmitBookReportRequest) ToInput(programID, sessionID, userID uuid.UUID) service.SubmitInput {
	return service.SubmitInput{
		ProgramID:  programID,
		SessionID:  sessionID,
		UserID:     userID,
		Title:      r.Title,
		Content:    r.Content,
		Structure:  r.Structure,
		Data:       r.Data,
		Visibility: r.Visibility,
		Rating:     r.Rating,
	}
}

type UpdateBookReportRequest struct {
	Title      helper.PatchField[string]                     `json:"title"`
	Content    helper.PatchField[string]                     `json:"content"`
	Data       helper.PatchField[map[string]json.RawMessage] `json:"data"`
	Visibility helper.PatchField[string]                     `json:"visibility"`
	Rating     helper.PatchField[float64]                    `json:"rating"`
}

func (r UpdateBookReportRequest) ToInput() service.UpdateInput {
	return service.UpdateInput{
		Title:      field(r.Title),
		Content:    field(r.Content),
		Data:       field(r.Data),
		Visibility: field(r.Visibility),
		Rating:     field(r.Rating),
	}
}

func field[T any](p helper.PatchField[T]) service.Field[T] {
	v, ok := p.Get()
	return service.Field[T]{Set: ok, Value: v}
}

// ReviewRequest carries the approve note or the reject/revision reason.
type ReviewRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
	Note   string `json:"note" validate:"max=2000"`
}

/* =========================================================
   RESPONSES
   ========================================================= */

type StructuredResponse struct {
	Structure       string          `json:"structure"`
	TemplateVersion int             `json:"template_version"`
	Data            json.RawMessage `json:"data"`
}

type BookReportResponse struct {
	ID            uuid.UUID           `json:"book_report_id"`
	ProgramID     uuid.UUID           `json:"program_id"`
	SessionID     uuid.UUID           `json:"session_id"`
	AuthorID      uuid.UUID           `json:"author_id"`
	Title         string              `json:"title"`
	Content       string              `json:"content"`
	BookTitle     string              `json:"book_title"`
	BookAuthor    *string             `json:"book_author,omitempty"`
	Visibility    string              `json:"visibility"`
	Status        string              `json:"status"`
	Rating        *int                `json:"rating,omitempty"`
	IsStructured  bool                `json:"is_structured"`
	ReviewComment *string             `json:"review_comment,omitempty"`
	PublishedAt   *time.Time          `json:"published_at,omitempty"`
	ApprovedAt    *time.Time          `json:"approved_at,omitempty"`
	ApprovedBy    *uuid.UUID          `json:"approved_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Structured    *StructuredResponse `json:"structured,omitempty"`
}

func FromModel(m *model.BookReportModel) BookReportResponse {
	return BookReportResponse{
		ID:            m.BookReportID,
		ProgramID:     m.BookReportProgramID,
		SessionID:     m.BookReportSessionID,
		AuthorID:      m.BookReportAuthorID,
		Title:         m.BookReportTitle,
		Content:       m.BookReportContent,
		BookTitle:     m.BookReportBookTitle,
		BookAuthor:    m.BookReportBookAuthor,
		Visibility:    m.BookReportVisibility,
		Status:        m.BookReportStatus,
		Rating:        m.BookReportRating,
		IsStructured:  m.BookReportIsStructured,
		ReviewComment: m.BookReportReviewComment,
		PublishedAt:   m.BookReportPublishedAt,
		ApprovedAt:    m.BookReportApprovedAt,
		ApprovedBy:    m.BookReportApprovedBy,
		CreatedAt:     m.BookReportCreatedAt,
		UpdatedAt:     m.BookReportUpdatedAt,
	}
}

func FromView(v *service.ReportView) BookReportResponse {
	out := FromModel(&v.Report)
	if v.Structured != nil {
		out.Structured = &StructuredResponse{
			Structure:       v.Structured.StructuredBookReportStructure,
			TemplateVersion: v.Structured.StructuredBookReportTemplateVersion,
			Data:            json.RawMessage(v.Structured.StructuredBookReportData),
		}
	}
	return out
}

func FromModels(list []model.BookReportModel) []BookReportResponse {
	out := make([]BookReportResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
