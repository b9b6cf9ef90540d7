package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookclub_backend/internals/features/reports/book_reports/model"
	"bookclub_backend/internals/features/reports/book_reports/service"
	"bookclub_backend/internals/helpers/apperr"
)

// BookReportRepository implements service.Store on gorm. Inside Transaction every call
// runs on the transaction handle.
type BookReportRepository struct {
	db *gorm.DB
}

func NewBookReportRepository(db *gorm.DB) *BookReportRepository {
	return &BookReportRepository{db: db}
}

var _ service.Store = (*BookReportRepository)(nil)

func (r *BookReportRepository) Transaction(ctx context.Context, fn func(tx service.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookReportRepository{db: tx})
	})
}

// LockSubmission serializes submissions for one (program, session, author) until commit.
func (r *BookReportRepository) LockSubmission(ctx context.Context, programID, sessionID, authorID uuid.UUID) error {
	key := programID.String() + ":" + sessionID.String() + ":" + authorID.String()
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

func (r *BookReportRepository) FindByKey(ctx context.Context, programID, sessionID, authorID uuid.UUID) (*model.BookReportModel, error) {
	var m model.BookReportModel
	err := r.db.WithContext(ctx).
		Where("book_report_program_id = ? AND book_report_session_id = ? AND book_report_author_id = ?",
			programID, sessionID, authorID).
		First(&m).Error
	return found(&m, err, "find report by key")
}

func (r *BookReportRepository) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.BookReportModel, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.BookReportModel
	err := q.Where("book_report_id = ?", id).First(&m).Error
	return found(&m, err, "find report")
}

func (r *BookReportRepository) FindStructured(ctx context.Context, reportID uuid.UUID) (*model.StructuredBookReportModel, error) {
	var m model.StructuredBookReportModel
	err := r.db.WithContext(ctx).
		Where("structured_book_report_report_id = ?", reportID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find structured report: %w", err)
	}
	return &m, nil
}

func (r *BookReportRepository) CreateReport(ctx context.Context, m *model.BookReportModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.DuplicateSubmissionError{}
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *BookReportRepository) CreateStructured(ctx context.Context, m *model.StructuredBookReportModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create structured report: %w", err)
	}
	return nil
}

func (r *BookReportRepository) UpdateReport(ctx context.Context, m *model.BookReportModel) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

func (r *BookReportRepository) SaveStructured(ctx context.Context, m *model.StructuredBookReportModel) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("save structured report: %w", err)
	}
	return nil
}

func (r *BookReportRepository) CreateReview(ctx context.Context, m *model.BookReportReviewModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *BookReportRepository) List(ctx context.Context, f service.ListFilter) ([]model.BookReportModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.BookReportModel{})
	if f.ProgramID != nil {
		q = q.Where("book_report_program_id = ?", *f.ProgramID)
	}
	if f.SessionID != nil {
		q = q.Where("book_report_session_id = ?", *f.SessionID)
	}
	if f.AuthorID != nil {
		q = q.Where("book_report_author_id = ?", *f.AuthorID)
	}
	if f.Status != nil {
		q = q.Where("book_report_status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	var rows []model.BookReportModel
	if err := q.Order("book_report_created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return rows, total, nil
}

func found(m *model.BookReportModel, err error, op string) (*model.BookReportModel, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

const pgUniqueViolation = "23505"

// isUniqueViolation recognises the translated gorm error as well as raw pgx and lib/pq errors.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
