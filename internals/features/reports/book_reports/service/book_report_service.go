package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	notificationModel "bookclub_backend/internals/features/home/notifications/model"
	programService "bookclub_backend/internals/features/programs/service"
	pointModel "bookclub_backend/internals/features/progress/points/model"
	"bookclub_backend/internals/features/reports/book_reports/model"
	"bookclub_backend/internals/features/reports/structured"
	"bookclub_backend/internals/helpers/apperr"
	"bookclub_backend/internals/helpers/dispatch"
)

/* =========================
   Ports
========================= */

// Store is the transactional persistence of reports. Find* return nil, nil when absent.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error
	LockSubmission(ctx context.Context, programID, sessionID, authorID uuid.UUID) error
	FindByKey(ctx context.Context, programID, sessionID, authorID uuid.UUID) (*model.BookReportModel, error)
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.BookReportModel, error)
	FindStructured(ctx context.Context, reportID uuid.UUID) (*model.StructuredBookReportModel, error)
	CreateReport(ctx context.Context, m *model.BookReportModel) error
	CreateStructured(ctx context.Context, m *model.StructuredBookReportModel) error
	UpdateReport(ctx context.Context, m *model.BookReportModel) error
	SaveStructured(ctx context.Context, m *model.StructuredBookReportModel) error
	CreateReview(ctx context.Context, m *model.BookReportReviewModel) error
	List(ctx context.Context, f ListFilter) ([]model.BookReportModel, int64, error)
}

type ListFilter struct {
	ProgramID *uuid.UUID
	SessionID *uuid.UUID
	AuthorID  *uuid.UUID
	Status    *string
	Offset    int
	Limit     int
}

type MemberDirectory interface {
	MemberIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	UserIDForMember(ctx context.Context, memberID uuid.UUID) (uuid.UUID, error)
}

type SessionDirectory interface {
	SessionSnapshot(ctx context.Context, programID, sessionID uuid.UUID) (programService.SessionSnapshot, error)
}

type Reviewers interface {
	CanReview(ctx context.Context, programID, userID uuid.UUID) (bool, error)
}

type TemplateSource interface {
	GetTemplate(ctx context.Context, code string) (*structured.Template, error)
	GetTemplateVersion(ctx context.Context, code string, version int) (*structured.Template, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, content, link string) error
}

type PointsLedger interface {
	Credit(ctx context.Context, userID uuid.UUID, amount int, category, description string) error
}

type Recomputer interface {
	Recompute(ctx context.Context, userID uuid.UUID) error
}

type Dispatcher interface {
	Go(name string, job dispatch.Job)
}

/* =========================
   Service
========================= */

type Deps struct {
	Store        Store
	Members      MemberDirectory
	Sessions     SessionDirectory
	Reviewers    Reviewers
	Templates    TemplateSource
	Notifier     Notifier
	Points       PointsLedger
	Recomputers  []Recomputer
	Dispatcher   Dispatcher
	SubmitPoints int
	Now          func() time.Time
}

type BookReportService struct {
	store        Store
	members      MemberDirectory
	sessions     SessionDirectory
	reviewers    Reviewers
	templates    TemplateSource
	notifier     Notifier
	points       PointsLedger
	recomputers  []Recomputer
	dispatcher   Dispatcher
	submitPoints int
	now          func() time.Time
}

func NewBookReportService(d Deps) *BookReportService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &BookReportService{
		store:        d.Store,
		members:      d.Members,
		sessions:     d.Sessions,
		reviewers:    d.Reviewers,
		templates:    d.Templates,
		notifier:     d.Notifier,
		points:       d.Points,
		recomputers:  d.Recomputers,
		dispatcher:   d.Dispatcher,
		submitPoints: d.SubmitPoints,
		now:          now,
	}
}

// ReportView is a report with its structured answers, if any.
type ReportView struct {
	Report     model.BookReportModel
	Structured *model.StructuredBookReportModel
}

/* =========================
   Submit
========================= */

type SubmitInput struct {
	ProgramID  uuid.UUID
	SessionID  uuid.UUID
	UserID     uuid.UUID
	Title      string
	Content    string
	Structure  string
	Data       map[string]json.RawMessage
	Visibility string
	Rating     *float64
}

// Submit creates a PUBLISHED report, plus its structured row for template submissions,
// in one transaction. Points and progress are updated asynchronously after commit.
func (s *BookReportService) Submit(ctx context.Context, in SubmitInput) (*ReportView, error) {
	memberID, err := s.members.MemberIDForUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	snap, err := s.sessions.SessionSnapshot(ctx, in.ProgramID, in.SessionID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.ValidationError{Field: "title", Reason: apperr.ReasonRequired}
	}
	visibility, err := normalizeVisibility(in.Visibility)
	if err != nil {
		return nil, err
	}

	var (
		content string
		sr      *model.StructuredBookReportModel
	)
	if code := strings.TrimSpace(in.Structure); code != "" {
		tpl, err := s.templates.GetTemplate(ctx, code)
		if err != nil {
			return nil, err
		}
		data, err := structured.Parse(*tpl, title, in.Data)
		if err != nil {
			return nil, err
		}
		raw, err := structured.EncodeData(data)
		if err != nil {
			return nil, fmt.Errorf("encode sections: %w", err)
		}
		content = structured.ProjectContent(*tpl, data)
		sr = &model.StructuredBookReportModel{
			StructuredBookReportStructure:       tpl.Code,
			StructuredBookReportTemplateVersion: tpl.Version,
			StructuredBookReportData:            datatypes.JSON(raw),
		}
	} else {
		content = strings.TrimSpace(in.Content)
		if content == "" {
			return nil, apperr.ValidationError{Field: "content", Reason: apperr.ReasonRequired}
		}
	}

	rating, err := structured.ValidateRating(in.Rating)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &model.BookReportModel{
		BookReportID:           uuid.New(),
		BookReportProgramID:    in.ProgramID,
		BookReportSessionID:    in.SessionID,
		BookReportAuthorID:     memberID,
		BookReportTitle:        title,
		BookReportContent:      content,
		BookReportBookTitle:    snap.BookTitle,
		BookReportBookAuthor:   snap.BookAuthor,
		BookReportVisibility:   visibility,
		BookReportStatus:       model.StatusPublished,
		BookReportRating:       rating,
		BookReportIsStructured: sr != nil,
		BookReportPublishedAt:  &now,
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.LockSubmission(ctx, in.ProgramID, in.SessionID, memberID); err != nil {
			return err
		}
		existing, err := tx.FindByKey(ctx, in.ProgramID, in.SessionID, memberID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.DuplicateSubmissionError{}
		}
		if err := tx.CreateReport(ctx, report); err != nil {
			return err
		}
		if sr != nil {
			sr.StructuredBookReportReportID = report.BookReportID
			if err := tx.CreateStructured(ctx, sr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterSubmit(in.UserID, report)
	return &ReportView{Report: *report, Structured: sr}, nil
}

// afterSubmit queues a single job per submission. Recomputers read the point ledger, so the
// credit has to commit before any of them runs.
func (s *BookReportService) afterSubmit(userID uuid.UUID, report *model.BookReportModel) {
	credit := s.points != nil && s.submitPoints > 0
	if !credit && len(s.recomputers) == 0 {
		return
	}
	desc := fmt.Sprintf("독후감 제출: %s", report.BookReportBookTitle)
	s.dispatcher.Go("report.after_submit", func(ctx context.Context) error {
		var errs []error
		if credit {
			if err := s.points.Credit(ctx, userID, s.submitPoints, pointModel.CategoryBookReport, desc); err != nil {
				errs = append(errs, fmt.Errorf("credit points: %w", err))
			}
		}
		for _, rc := range s.recomputers {
			if err := rc.Recompute(ctx, userID); err != nil {
				errs = append(errs, fmt.Errorf("recompute: %w", err))
			}
		}
		return errors.Join(errs...)
	})
}

/* =========================
   Review transitions
========================= */

type transition struct {
	action      string
	label       string
	to          string
	from        []string
	needsReason bool
	reasonKind  string
	notifyType  string
	notifyTitle string
}

var (
	approveTransition = transition{
		action:      model.ActionApprove,
		label:       "승인",
		to:          model.StatusApproved,
		from:        []string{model.StatusPublished, model.StatusPending},
		notifyType:  notificationModel.TypeReportApproved,
		notifyTitle: "독후감이 승인되었습니다",
	}
	rejectTransition = transition{
		action:      model.ActionReject,
		label:       "반려",
		to:          model.StatusRejected,
		from:        []string{model.StatusPublished, model.StatusPending, model.StatusRevisionRequested},
		needsReason: true,
		reasonKind:  "reject",
		notifyType:  notificationModel.TypeReportRejected,
		notifyTitle: "독후감이 반려되었습니다",
	}
	revisionTransition = transition{
		action:      model.ActionRequestRevision,
		label:       "수정 요청",
		to:          model.StatusRevisionRequested,
		from:        []string{model.StatusPublished, model.StatusPending},
		needsReason: true,
		reasonKind:  "revision",
		notifyType:  notificationModel.TypeReportRevisionRequested,
		notifyTitle: "독후감 수정 요청이 도착했습니다",
	}
)

func (t transition) allowedFrom(status string) bool {
	for _, f := range t.from {
		if f == status {
			return true
		}
	}
	return false
}

// Approve moves a PUBLISHED or PENDING report to APPROVED. note is optional.
func (s *BookReportService) Approve(ctx context.Context, reportID, reviewerID uuid.UUID, note string) (*model.BookReportModel, error) {
	return s.review(ctx, approveTransition, reportID, reviewerID, note)
}

// Reject requires a non-blank reason.
func (s *BookReportService) Reject(ctx context.Context, reportID, reviewerID uuid.UUID, reason string) (*model.BookReportModel, error) {
	return s.review(ctx, rejectTransition, reportID, reviewerID, reason)
}

// RequestRevision requires non-blank feedback.
func (s *BookReportService) RequestRevision(ctx context.Context, reportID, reviewerID uuid.UUID, feedback string) (*model.BookReportModel, error) {
	return s.review(ctx, revisionTransition, reportID, reviewerID, feedback)
}

func (s *BookReportService) review(ctx context.Context, t transition, reportID, reviewerID uuid.UUID, comment string) (*model.BookReportModel, error) {
	comment = strings.TrimSpace(comment)
	if t.needsReason && comment == "" {
		return nil, apperr.MissingReasonError{Action: t.reasonKind}
	}

	current, err := s.store.FindByID(ctx, reportID, false)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFoundError{Resource: "report"}
	}
	ok, err := s.reviewers.CanReview(ctx, current.BookReportProgramID, reviewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.AuthorizationError{Action: "독후감 " + t.label}
	}

	var commentPtr *string
	if comment != "" {
		commentPtr = &comment
	}

	var updated model.BookReportModel
	err = s.store.Transaction(ctx, func(tx Store) error {
		r, err := tx.FindByID(ctx, reportID, true)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.NotFoundError{Resource: "report"}
		}
		if !t.allowedFrom(r.BookReportStatus) {
			return apperr.InvalidTransitionError{From: r.BookReportStatus, Action: t.label}
		}

		from := r.BookReportStatus
		now := s.now()
		r.BookReportStatus = t.to
		r.BookReportReviewComment = commentPtr
		if t.to == model.StatusApproved {
			r.BookReportApprovedAt = &now
			r.BookReportApprovedBy = &reviewerID
		} else {
			r.BookReportApprovedAt = nil
			r.BookReportApprovedBy = nil
		}
		if err := tx.UpdateReport(ctx, r); err != nil {
			return err
		}
		if err := tx.CreateReview(ctx, &model.BookReportReviewModel{
			BookReportReviewID:         uuid.New(),
			BookReportReviewReportID:   r.BookReportID,
			BookReportReviewReviewerID: reviewerID,
			BookReportReviewAction:     t.action,
			BookReportReviewFromStatus: from,
			BookReportReviewToStatus:   t.to,
			BookReportReviewComment:    commentPtr,
			BookReportReviewReviewedAt: now,
		}); err != nil {
			return err
		}
		updated = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAuthor(t, updated, comment)
	return &updated, nil
}

func (s *BookReportService) notifyAuthor(t transition, r model.BookReportModel, comment string) {
	if s.notifier == nil {
		return
	}
	content := fmt.Sprintf("'%s' 독후감이 %s되었습니다.", r.BookReportTitle, t.label)
	switch t.action {
	case model.ActionReject:
		content = fmt.Sprintf("'%s' 독후감이 반려되었습니다.\n사유: %s", r.BookReportTitle, comment)
	case model.ActionRequestRevision:
		content = fmt.Sprintf("'%s' 독후감에 수정 요청이 있습니다.\n%s", r.BookReportTitle, comment)
	default:
		if comment != "" {
			content += "\n" + comment
		}
	}
	link := "/reports/" + r.BookReportID.String()
	authorID := r.BookReportAuthorID

	s.dispatcher.Go("notify."+strings.ToLower(t.action), func(ctx context.Context) error {
		userID, err := s.members.UserIDForMember(ctx, authorID)
		if err != nil {
			return err
		}
		return s.notifier.Notify(ctx, userID, t.notifyType, t.notifyTitle, content, link)
	})
}

/* =========================
   Author edits
========================= */

// Field is a tri-state update: Set=false leaves the stored value alone.
type Field[T any] struct {
	Set   bool
	Value *T
}

func Set[T any](v T) Field[T] { return Field[T]{Set: true, Value: &v} }

type UpdateInput struct {
	Title      Field[string]
	Content    Field[string]
	Data       Field[map[string]json.RawMessage]
	Visibility Field[string]
	Rating     Field[float64]
}

// Update applies the supplied fields on behalf of the report's author. Structured reports
// regenerate their content from the sections and reject direct content edits.
func (s *BookReportService) Update(ctx context.Context, reportID, userID uuid.UUID, in UpdateInput) (*ReportView, error) {
	memberID, err := s.members.MemberIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, err := s.store.FindByID(ctx, reportID, false)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFoundError{Resource: "report"}
	}
	if current.BookReportAuthorID != memberID {
		return nil, apperr.ForbiddenError{}
	}

	var title *string
	if in.Title.Set {
		t := ""
		if in.Title.Value != nil {
			t = strings.TrimSpace(*in.Title.Value)
		}
		if t == "" {
			return nil, apperr.ValidationError{Field: "title", Reason: apperr.ReasonRequired}
		}
		title = &t
	}
	var visibility *string
	if in.Visibility.Set {
		raw := ""
		if in.Visibility.Value != nil {
			raw = *in.Visibility.Value
		}
		v, err := normalizeVisibility(raw)
		if err != nil {
			return nil, err
		}
		visibility = &v
	}
	var rating *int
	if in.Rating.Set {
		if rating, err = structured.ValidateRating(in.Rating.Value); err != nil {
			return nil, err
		}
	}

	var view ReportView
	err = s.store.Transaction(ctx, func(tx Store) error {
		r, err := tx.FindByID(ctx, reportID, true)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.NotFoundError{Resource: "report"}
		}
		if r.BookReportStatus == model.StatusApproved || r.BookReportStatus == model.StatusRejected {
			return apperr.InvalidTransitionError{From: r.BookReportStatus, Action: "수정"}
		}

		if title != nil {
			r.BookReportTitle = *title
		}
		if visibility != nil {
			r.BookReportVisibility = *visibility
		}
		if in.Rating.Set {
			r.BookReportRating = rating
		}

		var sr *model.StructuredBookReportModel
		if r.BookReportIsStructured {
			if in.Content.Set {
				return apperr.ValidationError{Field: "content", Reason: apperr.ReasonReadOnly}
			}
			if sr, err = tx.FindStructured(ctx, r.BookReportID); err != nil {
				return err
			}
			if sr == nil {
				return fmt.Errorf("structured row missing for report %s", r.BookReportID)
			}
			if in.Data.Set {
				if err := s.replaceSections(ctx, r, sr, in.Data.Value); err != nil {
					return err
				}
				if err := tx.SaveStructured(ctx, sr); err != nil {
					return err
				}
			}
		} else {
			if in.Data.Set {
				return apperr.ValidationError{Field: "data", Reason: apperr.ReasonReadOnly}
			}
			if in.Content.Set {
				c := ""
				if in.Content.Value != nil {
					c = strings.TrimSpace(*in.Content.Value)
				}
				if c == "" {
					return apperr.ValidationError{Field: "content", Reason: apperr.ReasonRequired}
				}
				r.BookReportContent = c
			}
		}

		if err := tx.UpdateReport(ctx, r); err != nil {
			return err
		}
		view = ReportView{Report: *r, Structured: sr}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// replaceSections validates the new mapping against the template version the report was
// written with, then swaps it in and regenerates the flat content.
func (s *BookReportService) replaceSections(ctx context.Context, r *model.BookReportModel, sr *model.StructuredBookReportModel, raw *map[string]json.RawMessage) error {
	tpl, err := s.templates.GetTemplateVersion(ctx, sr.StructuredBookReportStructure, sr.StructuredBookReportTemplateVersion)
	if err != nil {
		return err
	}
	var in map[string]json.RawMessage
	if raw != nil {
		in = *raw
	}
	data, err := structured.ParseSections(*tpl, in)
	if err != nil {
		return err
	}
	enc, err := structured.EncodeData(data)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	sr.StructuredBookReportData = datatypes.JSON(enc)
	r.BookReportContent = structured.ProjectContent(*tpl, data)
	return nil
}

// Resubmit returns a REVISION_REQUESTED report to PUBLISHED.
func (s *BookReportService) Resubmit(ctx context.Context, reportID, userID uuid.UUID) (*model.BookReportModel, error) {
	memberID, err := s.members.MemberIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updated model.BookReportModel
	err = s.store.Transaction(ctx, func(tx Store) error {
		r, err := tx.FindByID(ctx, reportID, true)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.NotFoundError{Resource: "report"}
		}
		if r.BookReportAuthorID != memberID {
			return apperr.ForbiddenError{}
		}
		if r.BookReportStatus != model.StatusRevisionRequested {
			return apperr.InvalidTransitionError{From: r.BookReportStatus, Action: "재제출"}
		}

		now := s.now()
		r.BookReportStatus = model.StatusPublished
		r.BookReportPublishedAt = &now
		r.BookReportApprovedAt = nil
		r.BookReportApprovedBy = nil
		if err := tx.UpdateReport(ctx, r); err != nil {
			return err
		}
		if err := tx.CreateReview(ctx, &model.BookReportReviewModel{
			BookReportReviewID:         uuid.New(),
			BookReportReviewReportID:   r.BookReportID,
			BookReportReviewReviewerID: userID,
			BookReportReviewAction:     model.ActionResubmit,
			BookReportReviewFromStatus: model.StatusRevisionRequested,
			BookReportReviewToStatus:   model.StatusPublished,
			BookReportReviewReviewedAt: now,
		}); err != nil {
			return err
		}
		updated = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

/* =========================
   Reads
========================= */

// Get returns a report; PRIVATE ones only to their author and reviewers.
func (s *BookReportService) Get(ctx context.Context, reportID, viewerID uuid.UUID) (*ReportView, error) {
	r, err := s.store.FindByID(ctx, reportID, false)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFoundError{Resource: "report"}
	}
	if r.BookReportVisibility == model.VisibilityPrivate {
		visible, err := s.canSeePrivate(ctx, r, viewerID)
		if err != nil {
			return nil, err
		}
		// private reports are reported as missing to anyone who may not read them
		if !visible {
			return nil, apperr.NotFoundError{Resource: "report"}
		}
	}

	view := &ReportView{Report: *r}
	if r.BookReportIsStructured {
		if view.Structured, err = s.store.FindStructured(ctx, r.BookReportID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *BookReportService) canSeePrivate(ctx context.Context, r *model.BookReportModel, viewerID uuid.UUID) (bool, error) {
	memberID, err := s.members.MemberIDForUser(ctx, viewerID)
	switch {
	case err == nil && memberID == r.BookReportAuthorID:
		return true, nil
	case err != nil && !isMemberNotFound(err):
		return false, err
	}
	return s.reviewers.CanReview(ctx, r.BookReportProgramID, viewerID)
}

type ProgramFilter struct {
	Status    *string
	SessionID *uuid.UUID
}

// ListForProgram is the reviewer listing, newest first.
func (s *BookReportService) ListForProgram(ctx context.Context, programID, viewerID uuid.UUID, f ProgramFilter, offset, limit int) ([]model.BookReportModel, int64, error) {
	ok, err := s.reviewers.CanReview(ctx, programID, viewerID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, apperr.AuthorizationError{Action: "독후감 목록 조회"}
	}
	if f.Status != nil && !model.ValidStatus(*f.Status) {
		return nil, 0, apperr.ValidationError{Field: "status", Reason: apperr.ReasonMalformed}
	}
	return s.store.List(ctx, ListFilter{
		ProgramID: &programID,
		SessionID: f.SessionID,
		Status:    f.Status,
		Offset:    offset,
		Limit:     limit,
	})
}

// ListMine lists the caller's own reports, optionally within one program.
func (s *BookReportService) ListMine(ctx context.Context, userID uuid.UUID, programID *uuid.UUID, offset, limit int) ([]model.BookReportModel, int64, error) {
	memberID, err := s.members.MemberIDForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, ListFilter{
		ProgramID: programID,
		AuthorID:  &memberID,
		Offset:    offset,
		Limit:     limit,
	})
}

/* =========================
   helpers
========================= */

func normalizeVisibility(v string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "", model.VisibilityPublic:
		return model.VisibilityPublic, nil
	case model.VisibilityPrivate:
		return model.VisibilityPrivate, nil
	}
	return "", apperr.ValidationError{Field: "visibility", Reason: apperr.ReasonMalformed}
}

func isMemberNotFound(err error) bool {
	var nf apperr.MemberNotFoundError
	return errors.As(err, &nf)
}
