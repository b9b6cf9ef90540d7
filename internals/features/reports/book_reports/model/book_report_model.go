package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report statuses. DRAFT and PENDING are kept for other readers of the table;
// the submit flow creates reports directly as PUBLISHED.
const (
	StatusDraft             = "DRAFT"
	StatusPending           = "PENDING"
	StatusPublished         = "PUBLISHED"
	StatusApproved          = "APPROVED"
	StatusRejected          = "REJECTED"
	StatusRevisionRequested = "REVISION_REQUESTED"
)

const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusApproved, StatusRejected, StatusRevisionRequested:
		return true
	}
	return false
}

// BookReportModel: at most one row per (program, session, author).
type BookReportModel struct {
	BookReportID        uuid.UUID `gorm:"column:book_report_id;type:uuid;default:gen_random_uuid();primaryKey" json:"book_report_id"`
	BookReportProgramID uuid.UUID `gorm:"column:book_report_program_id;type:uuid;not null;uniqueIndex:uq_book_reports_program_session_author,priority:1" json:"book_report_program_id"`
	BookReportSessionID uuid.UUID `gorm:"column:book_report_session_id;type:uuid;not null;uniqueIndex:uq_book_reports_program_session_author,priority:2;index" json:"book_report_session_id"`
	BookReportAuthorID  uuid.UUID `gorm:"column:book_report_author_id;type:uuid;not null;uniqueIndex:uq_book_reports_program_session_author,priority:3;index" json:"book_report_author_id"`

	BookReportTitle        string  `gorm:"column:book_report_title;type:varchar(200);not null" json:"book_report_title"`
	BookReportContent      string  `gorm:"column:book_report_content;type:text;not null" json:"book_report_content"`
	BookReportBookTitle    string  `gorm:"column:book_report_book_title;type:varchar(255);not null" json:"book_report_book_title"`
	BookReportBookAuthor   *string `gorm:"column:book_report_book_author;type:varchar(255)" json:"book_report_book_author,omitempty"`
	BookReportVisibility   string  `gorm:"column:book_report_visibility;type:varchar(16);not null;default:'PUBLIC'" json:"book_report_visibility"`
	BookReportStatus       string  `gorm:"column:book_report_status;type:varchar(32);not null;default:'PUBLISHED';index" json:"book_report_status"`
	BookReportRating       *int    `gorm:"column:book_report_rating;check:book_report_rating BETWEEN 1 AND 5" json:"book_report_rating,omitempty"`
	BookReportIsStructured bool    `gorm:"column:book_report_is_structured;not null;default:false" json:"book_report_is_structured"`

	BookReportPublishedAt   *time.Time `gorm:"column:book_report_published_at" json:"book_report_published_at,omitempty"`
	BookReportApprovedAt    *time.Time `gorm:"column:book_report_approved_at" json:"book_report_approved_at,omitempty"`
	BookReportApprovedBy    *uuid.UUID `gorm:"column:book_report_approved_by;type:uuid" json:"book_report_approved_by,omitempty"`
	BookReportReviewComment *string    `gorm:"column:book_report_review_comment;type:text" json:"book_report_review_comment,omitempty"`

	BookReportCreatedAt time.Time `gorm:"column:book_report_created_at;autoCreateTime" json:"book_report_created_at"`
	BookReportUpdatedAt time.Time `gorm:"column:book_report_updated_at;autoUpdateTime" json:"book_report_updated_at"`
}

func (BookReportModel) TableName() string { return "book_reports" }

// StructuredBookReportModel holds the section answers of a structured report.
type StructuredBookReportModel struct {
	StructuredBookReportID              uuid.UUID      `gorm:"column:structured_book_report_id;type:uuid;default:gen_random_uuid();primaryKey" json:"structured_book_report_id"`
	StructuredBookReportReportID        uuid.UUID      `gorm:"column:structured_book_report_report_id;type:uuid;not null;uniqueIndex" json:"structured_book_report_report_id"`
	StructuredBookReportStructure       string         `gorm:"column:structured_book_report_structure;type:varchar(64);not null" json:"structured_book_report_structure"`
	StructuredBookReportTemplateVersion int            `gorm:"column:structured_book_report_template_version;not null;default:1" json:"structured_book_report_template_version"`
	StructuredBookReportData            datatypes.JSON `gorm:"column:structured_book_report_data;type:jsonb;not null" json:"structured_book_report_data"`
	StructuredBookReportCreatedAt       time.Time      `gorm:"column:structured_book_report_created_at;autoCreateTime" json:"structured_book_report_created_at"`
	StructuredBookReportUpdatedAt       time.Time      `gorm:"column:structured_book_report_updated_at;autoUpdateTime" json:"structured_book_report_updated_at"`
}

func (StructuredBookReportModel) TableName() string { return "structured_book_reports" }

// Review actions recorded in book_report_reviews.
const (
	ActionApprove         = "APPROVE"
	ActionReject          = "REJECT"
	ActionRequestRevision = "REQUEST_REVISION"
	ActionResubmit        = "RESUBMIT"
)

type BookReportReviewModel struct {
	BookReportReviewID         uuid.UUID `gorm:"column:book_report_review_id;type:uuid;default:gen_random_uuid();primaryKey" json:"book_report_review_id"`
	BookReportReviewReportID   uuid.UUID `gorm:"column:book_report_review_report_id;type:uuid;not null;index" json:"book_report_review_report_id"`
	BookReportReviewReviewerID uuid.UUID `gorm:"column:book_report_review_reviewer_id;type:uuid;not null" json:"book_report_review_reviewer_id"`
	BookReportReviewAction     string    `gorm:"column:book_report_review_action;type:varchar(32);not null" json:"book_report_review_action"`
	BookReportReviewFromStatus string    `gorm:"column:book_report_review_from_status;type:varchar(32);not null" json:"book_report_review_from_status"`
	BookReportReviewToStatus   string    `gorm:"column:book_report_review_to_status;type:varchar(32);not null" json:"book_report_review_to_status"`
	BookReportReviewComment    *string   `gorm:"column:book_report_review_comment;type:text" json:"book_report_review_comment,omitempty"`
	BookReportReviewReviewedAt time.Time `gorm:"column:book_report_review_reviewed_at;not null" json:"book_report_review_reviewed_at"`
}

func (BookReportReviewModel) TableName() string { return "book_report_reviews" }
