package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	programService "bookclub_backend/internals/features/programs/service"
	"bookclub_backend/internals/features/reports/book_reports/model"
	"bookclub_backend/internals/features/reports/structured"
	"bookclub_backend/internals/helpers/apperr"
	"bookclub_backend/internals/helpers/dispatch"
)

/* =========================
   in-memory store
========================= */

type memData struct {
	reports    map[uuid.UUID]model.BookReportModel
	structured map[uuid.UUID]model.StructuredBookReportModel
	reviews    []model.BookReportReviewModel
}

func (d *memData) clone() *memData {
	c := &memData{
		reports:    make(map[uuid.UUID]model.BookReportModel, len(d.reports)),
		structured: make(map[uuid.UUID]model.StructuredBookReportModel, len(d.structured)),
		reviews:    append([]model.BookReportReviewModel(nil), d.reviews...),
	}
	for k, v := range d.reports {
		c.reports[k] = v
	}
	for k, v := range d.structured {
		c.structured[k] = v
	}
	return c
}

// memStore commits a transaction's writes only when fn returns nil.
type memStore struct {
	mu   *sync.Mutex
	data *memData
	inTx bool

	failCreateStructured error
	failUpdate           error
}

func newMemStore() *memStore {
	return &memStore{
		mu: &sync.Mutex{},
		data: &memData{
			reports:    map[uuid.UUID]model.BookReportModel{},
			structured: map[uuid.UUID]model.StructuredBookReportModel{},
		},
	}
}

func (s *memStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memStore{
		mu:                   s.mu,
		data:                 s.data.clone(),
		inTx:                 true,
		failCreateStructured: s.failCreateStructured,
		failUpdate:           s.failUpdate,
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *memStore) LockSubmission(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error { return nil }

func (s *memStore) FindByKey(_ context.Context, programID, sessionID, authorID uuid.UUID) (*model.BookReportModel, error) {
	defer s.lock()()
	for _, r := range s.data.reports {
		if r.BookReportProgramID == programID && r.BookReportSessionID == sessionID && r.BookReportAuthorID == authorID {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByID(_ context.Context, id uuid.UUID, _ bool) (*model.BookReportModel, error) {
	defer s.lock()()
	r, ok := s.data.reports[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *memStore) FindStructured(_ context.Context, reportID uuid.UUID) (*model.StructuredBookReportModel, error) {
	defer s.lock()()
	for _, sr := range s.data.structured {
		if sr.StructuredBookReportReportID == reportID {
			cp := sr
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateReport(_ context.Context, m *model.BookReportModel) error {
	defer s.lock()()
	for _, r := range s.data.reports {
		if r.BookReportProgramID == m.BookReportProgramID &&
			r.BookReportSessionID == m.BookReportSessionID &&
			r.BookReportAuthorID == m.BookReportAuthorID {
			return apperr.DuplicateSubmissionError{}
		}
	}
	if m.BookReportID == uuid.Nil {
		m.BookReportID = uuid.New()
	}
	s.data.reports[m.BookReportID] = *m
	return nil
}

func (s *memStore) CreateStructured(_ context.Context, m *model.StructuredBookReportModel) error {
	defer s.lock()()
	if s.failCreateStructured != nil {
		return s.failCreateStructured
	}
	if m.StructuredBookReportID == uuid.Nil {
		m.StructuredBookReportID = uuid.New()
	}
	s.data.structured[m.StructuredBookReportID] = *m
	return nil
}

func (s *memStore) UpdateReport(_ context.Context, m *model.BookReportModel) error {
	defer s.lock()()
	if s.failUpdate != nil {
		return s.failUpdate
	}
	s.data.reports[m.BookReportID] = *m
	return nil
}

func (s *memStore) SaveStructured(_ context.Context, m *model.StructuredBookReportModel) error {
	defer s.lock()()
	s.data.structured[m.StructuredBookReportID] = *m
	return nil
}

func (s *memStore) CreateReview(_ context.Context, m *model.BookReportReviewModel) error {
	defer s.lock()()
	s.data.reviews = append(s.data.reviews, *m)
	return nil
}

func (s *memStore) List(_ context.Context, f ListFilter) ([]model.BookReportModel, int64, error) {
	defer s.lock()()
	var out []model.BookReportModel
	for _, r := range s.data.reports {
		if f.ProgramID != nil && r.BookReportProgramID != *f.ProgramID {
			continue
		}
		if f.SessionID != nil && r.BookReportSessionID != *f.SessionID {
			continue
		}
		if f.AuthorID != nil && r.BookReportAuthorID != *f.AuthorID {
			continue
		}
		if f.Status != nil && r.BookReportStatus != *f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookReportTitle < out[j].BookReportTitle })
	total := int64(len(out))
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *memStore) reportCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.reports)
}

func (s *memStore) structuredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.structured)
}

func (s *memStore) reviewsFor(id uuid.UUID) []model.BookReportReviewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.BookReportReviewModel
	for _, r := range s.data.reviews {
		if r.BookReportReviewReportID == id {
			out = append(out, r)
		}
	}
	return out
}

/* =========================
   collaborator stubs
========================= */

type stubMembers map[uuid.UUID]uuid.UUID // user -> member

func (m stubMembers) MemberIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if id, ok := m[userID]; ok {
		return id, nil
	}
	return uuid.Nil, apperr.MemberNotFoundError{}
}

func (m stubMembers) UserIDForMember(_ context.Context, memberID uuid.UUID) (uuid.UUID, error) {
	for u, mem := range m {
		if mem == memberID {
			return u, nil
		}
	}
	return uuid.Nil, apperr.MemberNotFoundError{}
}

type stubSessions struct {
	programID uuid.UUID
	sessionID uuid.UUID
}

func (s stubSessions) SessionSnapshot(_ context.Context, programID, sessionID uuid.UUID) (programService.SessionSnapshot, error) {
	if programID != s.programID || sessionID != s.sessionID {
		return programService.SessionSnapshot{}, apperr.SessionNotFoundError{}
	}
	author := "헤르만 헤세"
	return programService.SessionSnapshot{
		SessionID:  sessionID,
		ProgramID:  programID,
		BookTitle:  "데미안",
		BookAuthor: &author,
	}, nil
}

type stubReviewers map[uuid.UUID]bool

func (r stubReviewers) CanReview(_ context.Context, _ uuid.UUID, userID uuid.UUID) (bool, error) {
	return r[userID], nil
}

type stubTemplates map[string]structured.Template

func (t stubTemplates) GetTemplate(_ context.Context, code string) (*structured.Template, error) {
	tpl, ok := t[code]
	if !ok {
		return nil, apperr.NotFoundError{Resource: "template"}
	}
	return &tpl, nil
}

func (t stubTemplates) GetTemplateVersion(ctx context.Context, code string, _ int) (*structured.Template, error) {
	return t.GetTemplate(ctx, code)
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type stubNotifier struct {
	rec *recorder
	err error
}

func (n stubNotifier) Notify(_ context.Context, userID uuid.UUID, notifType, _, content, _ string) error {
	n.rec.add("notify:" + notifType + ":" + userID.String() + ":" + content)
	return n.err
}

type stubPoints struct {
	rec *recorder
	err error
}

func (p stubPoints) Credit(_ context.Context, userID uuid.UUID, amount int, category, _ string) error {
	p.rec.add("credit:" + category + ":" + userID.String())
	return p.err
}

type stubRecomputer struct {
	name string
	rec  *recorder
	err  error
}

func (r stubRecomputer) Recompute(_ context.Context, userID uuid.UUID) error {
	r.rec.add("recompute:" + r.name)
	return r.err
}

// syncDispatcher runs jobs inline and keeps their errors.
type syncDispatcher struct {
	mu     sync.Mutex
	names  []string
	errors []error
}

func (d *syncDispatcher) Go(name string, job dispatch.Job) {
	err := job(context.Background())
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, name)
	if err != nil {
		d.errors = append(d.errors, err)
	}
}

/* =========================
   fixture
========================= */

type fixture struct {
	svc      *BookReportService
	store    *memStore
	rec      *recorder
	disp     *syncDispatcher
	program  uuid.UUID
	session  uuid.UUID
	author   uuid.UUID // user id
	member   uuid.UUID
	other    uuid.UUID // user id of a plain member
	reviewer uuid.UUID
	now      time.Time
}

func quoteTemplate() structured.Template {
	return structured.Template{
		Code:    "quote-first",
		Version: 1,
		Sections: []structured.Section{
			{ID: "quote", Title: "인상 깊은 구절", Emoji: "💬", Type: structured.SectionQuote, Required: true},
			{ID: "list", Title: "기억할 것", Emoji: "📝", Type: structured.SectionList},
		},
	}
}

type fixtureOpts struct {
	pointsErr    error
	notifyErr    error
	recomputeErr error
}

func newFixture(t *testing.T, opts ...fixtureOpts) *fixture {
	t.Helper()
	var o fixtureOpts
	if len(opts) > 0 {
		o = opts[0]
	}
	f := &fixture{
		store:    newMemStore(),
		rec:      &recorder{},
		disp:     &syncDispatcher{},
		program:  uuid.New(),
		session:  uuid.New(),
		author:   uuid.New(),
		member:   uuid.New(),
		other:    uuid.New(),
		reviewer: uuid.New(),
		now:      time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewBookReportService(Deps{
		Store:     f.store,
		Members:   stubMembers{f.author: f.member, f.other: uuid.New()},
		Sessions:  stubSessions{programID: f.program, sessionID: f.session},
		Reviewers: stubReviewers{f.reviewer: true},
		Templates: stubTemplates{"quote-first": quoteTemplate()},
		Notifier:  stubNotifier{rec: f.rec, err: o.notifyErr},
		Points:    stubPoints{rec: f.rec, err: o.pointsErr},
		Recomputers: []Recomputer{
			stubRecomputer{name: "progress", rec: f.rec, err: o.recomputeErr},
			stubRecomputer{name: "streak", rec: f.rec},
		},
		Dispatcher:   f.disp,
		SubmitPoints: 10,
		Now:          func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) structuredInput(data string) SubmitInput {
	var raw map[string]json.RawMessage
	if data != "" {
		if err := json.Unmarshal([]byte(data), &raw); err != nil {
			panic(err)
		}
	}
	return SubmitInput{
		ProgramID: f.program,
		SessionID: f.session,
		UserID:    f.author,
		Title:     "데미안을 읽고",
		Structure: "quote-first",
		Data:      raw,
	}
}

func (f *fixture) textInput() SubmitInput {
	return SubmitInput{
		ProgramID: f.program,
		SessionID: f.session,
		UserID:    f.author,
		Title:     "자유 독후감",
		Content:   "새는 알에서 나오려고 투쟁한다.",
	}
}

func (f *fixture) submitText(t *testing.T) *ReportView {
	t.Helper()
	v, err := f.svc.Submit(context.Background(), f.textInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return v
}

func ptr[T any](v T) *T { return &v }

/* =========================
   Submit
========================= */

func TestSubmitStructuredScenario(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), f.structuredInput(`{"quote":{"quote":""}}`))
	var ve apperr.ValidationError
	if !errors.As(err, &ve) || ve.SectionTitle != "인상 깊은 구절" {
		t.Fatalf("empty quote err = %v, want ValidationError naming the section", err)
	}
	if !strings.Contains(err.Error(), "인상 깊은 구절") {
		t.Fatalf("message %q does not name the section", err.Error())
	}
	if f.store.reportCount() != 0 {
		t.Fatal("failed validation persisted a report")
	}

	v, err := f.svc.Submit(context.Background(), f.structuredInput(`{"quote":{"quote":"삶은 여행이다"}}`))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	r := v.Report
	if r.BookReportStatus != model.StatusPublished || r.BookReportPublishedAt == nil || !r.BookReportPublishedAt.Equal(f.now) {
		t.Fatalf("unexpected status/publishedAt: %s %v", r.BookReportStatus, r.BookReportPublishedAt)
	}
	if strings.Count(r.BookReportContent, "## ") != 1 {
		t.Fatalf("content should have exactly one heading, got %q", r.BookReportContent)
	}
	if r.BookReportBookTitle != "데미안" || r.BookReportBookAuthor == nil || *r.BookReportBookAuthor != "헤르만 헤세" {
		t.Fatalf("book snapshot not copied: %+v", r)
	}
	if r.BookReportAuthorID != f.member || !r.BookReportIsStructured || r.BookReportVisibility != model.VisibilityPublic {
		t.Fatalf("unexpected report %+v", r)
	}
	if v.Structured == nil || v.Structured.StructuredBookReportReportID != r.BookReportID {
		t.Fatalf("structured row not linked: %+v", v.Structured)
	}
	if f.store.reportCount() != 1 || f.store.structuredCount() != 1 {
		t.Fatalf("rows = %d/%d, want 1/1", f.store.reportCount(), f.store.structuredCount())
	}
}

func TestSubmitDuplicate(t *testing.T) {
	f := newFixture(t)
	f.submitText(t)

	_, err := f.svc.Submit(context.Background(), f.structuredInput(`{"quote":{"quote":"두 번째"}}`))
	if !errors.As(err, new(apperr.DuplicateSubmissionError)) {
		t.Fatalf("err = %v, want DuplicateSubmissionError", err)
	}
	if f.store.reportCount() != 1 || f.store.structuredCount() != 0 {
		t.Fatalf("rows = %d/%d after duplicate, want 1/0", f.store.reportCount(), f.store.structuredCount())
	}
}

func TestSubmitConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, dup int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(context.Background(), f.textInput())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.As(err, new(apperr.DuplicateSubmissionError)):
				dup++
			default:
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok != 1 || dup != n-1 || f.store.reportCount() != 1 {
		t.Fatalf("ok=%d dup=%d rows=%d", ok, dup, f.store.reportCount())
	}
}

func TestSubmitIsAtomic(t *testing.T) {
	f := newFixture(t)
	f.store.failCreateStructured = errors.New("disk full")

	_, err := f.svc.Submit(context.Background(), f.structuredInput(`{"quote":{"quote":"삶은 여행이다"}}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if f.store.reportCount() != 0 || f.store.structuredCount() != 0 {
		t.Fatalf("orphan rows left: %d/%d", f.store.reportCount(), f.store.structuredCount())
	}
	if len(f.rec.list()) != 0 {
		t.Fatalf("side effects ran for a failed submit: %v", f.rec.list())
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*fixture, *SubmitInput)
		check  func(error) bool
	}{
		{"blank title", func(_ *fixture, in *SubmitInput) { in.Title = "  " },
			func(err error) bool { var ve apperr.ValidationError; return errors.As(err, &ve) && ve.Field == "title" }},
		{"blank content", func(_ *fixture, in *SubmitInput) { in.Content = "\n" },
			func(err error) bool { var ve apperr.ValidationError; return errors.As(err, &ve) && ve.Field == "content" }},
		{"rating too high", func(_ *fixture, in *SubmitInput) { in.Rating = ptr(6.0) },
			func(err error) bool { return errors.As(err, new(apperr.InvalidRatingError)) }},
		{"rating fractional", func(_ *fixture, in *SubmitInput) { in.Rating = ptr(3.5) },
			func(err error) bool { return errors.As(err, new(apperr.InvalidRatingError)) }},
		{"rating zero", func(_ *fixture, in *SubmitInput) { in.Rating = ptr(0.0) },
			func(err error) bool { return errors.As(err, new(apperr.InvalidRatingError)) }},
		{"bad visibility", func(_ *fixture, in *SubmitInput) { in.Visibility = "FRIENDS" },
			func(err error) bool { var ve apperr.ValidationError; return errors.As(err, &ve) && ve.Field == "visibility" }},
		{"unknown member", func(_ *fixture, in *SubmitInput) { in.UserID = uuid.New() },
			func(err error) bool { return errors.As(err, new(apperr.MemberNotFoundError)) }},
		{"session of another program", func(_ *fixture, in *SubmitInput) { in.ProgramID = uuid.New() },
			func(err error) bool { return errors.As(err, new(apperr.SessionNotFoundError)) }},
		{"unknown template", func(_ *fixture, in *SubmitInput) { in.Structure = "nope" },
			func(err error) bool { var nf apperr.NotFoundError; return errors.As(err, &nf) && nf.Resource == "template" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := f.textInput()
			tc.mutate(f, &in)
			_, err := f.svc.Submit(context.Background(), in)
			if !tc.check(err) {
				t.Fatalf("unexpected err: %v", err)
			}
			if f.store.reportCount() != 0 {
				t.Fatal("report persisted despite failure")
			}
		})
	}
}

func TestSubmitAcceptsIntegralRating(t *testing.T) {
	f := newFixture(t)
	in := f.textInput()
	in.Rating = ptr(4.0)
	in.Visibility = "private"
	v, err := f.svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if v.Report.BookReportRating == nil || *v.Report.BookReportRating != 4 || v.Report.BookReportVisibility != model.VisibilityPrivate {
		t.Fatalf("unexpected report %+v", v.Report)
	}
}

func TestSubmitSideEffects(t *testing.T) {
	f := newFixture(t)
	f.submitText(t)

	got := f.rec.list()
	want := []string{
		"credit:BOOK_REPORT:" + f.author.String(),
		"recompute:progress",
		"recompute:streak",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("side effects = %v, want %v", got, want)
	}
}

// slowPoints commits after a delay; ledgerCheck fails if it runs before that commit.
type slowPoints struct {
	committed *atomic.Int32
}

func (p slowPoints) Credit(context.Context, uuid.UUID, int, string, string) error {
	time.Sleep(20 * time.Millisecond)
	p.committed.Add(1)
	return nil
}

type ledgerCheck struct {
	committed *atomic.Int32
	early     *atomic.Int32
}

func (r ledgerCheck) Recompute(context.Context, uuid.UUID) error {
	if r.committed.Load() == 0 {
		r.early.Add(1)
	}
	return nil
}

func TestSubmitCreditsBeforeRecomputeOnWorkerPool(t *testing.T) {
	f := newFixture(t)
	var committed, early atomic.Int32
	disp := dispatch.New(dispatch.Options{Workers: 4, QueueSize: 16})
	svc := NewBookReportService(Deps{
		Store:        f.store,
		Members:      stubMembers{f.author: f.member},
		Sessions:     stubSessions{programID: f.program, sessionID: f.session},
		Reviewers:    stubReviewers{f.reviewer: true},
		Templates:    stubTemplates{"quote-first": quoteTemplate()},
		Notifier:     stubNotifier{rec: f.rec},
		Points:       slowPoints{committed: &committed},
		Recomputers:  []Recomputer{ledgerCheck{&committed, &early}, ledgerCheck{&committed, &early}},
		Dispatcher:   disp,
		SubmitPoints: 10,
		Now:          func() time.Time { return f.now },
	})

	if _, err := svc.Submit(context.Background(), f.textInput()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := disp.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if n := early.Load(); n != 0 {
		t.Fatalf("recompute ran before the credit committed %d time(s)", n)
	}
	if committed.Load() != 1 {
		t.Fatalf("credit ran %d times, want 1", committed.Load())
	}
	if st := disp.Stats(); st.Succeeded != 1 || st.Failed != 0 {
		t.Fatalf("dispatcher stats %+v", st)
	}
}

func TestSubmitSideEffectFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t, fixtureOpts{pointsErr: errors.New("ledger down"), recomputeErr: errors.New("timeout")})

	v, err := f.svc.Submit(context.Background(), f.textInput())
	if err != nil || v == nil {
		t.Fatalf("Submit = %v, %v; side-effect failures must not surface", v, err)
	}
	if len(f.disp.errors) != 1 {
		t.Fatalf("dispatcher saw %d errors, want 1", len(f.disp.errors))
	}
	if msg := f.disp.errors[0].Error(); !strings.Contains(msg, "ledger down") || !strings.Contains(msg, "timeout") {
		t.Fatalf("joined error lost a cause: %v", msg)
	}
	// a failed credit does not stop the recomputers
	if got := strings.Join(f.rec.list(), "|"); !strings.Contains(got, "recompute:progress") || !strings.Contains(got, "recompute:streak") {
		t.Fatalf("recomputers skipped: %v", got)
	}
	if f.store.reportCount() != 1 {
		t.Fatal("report not persisted")
	}
}

/* =========================
   Review transitions
========================= */

func TestApproveSetsApprovedAtTogether(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)

	r, err := f.svc.Approve(context.Background(), v.Report.BookReportID, f.reviewer, "")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if r.BookReportStatus != model.StatusApproved || r.BookReportApprovedAt == nil || !r.BookReportApprovedAt.Equal(f.now) {
		t.Fatalf("approve result %+v", r)
	}
	if r.BookReportApprovedBy == nil || *r.BookReportApprovedBy != f.reviewer {
		t.Fatalf("approvedBy = %v", r.BookReportApprovedBy)
	}

	stored, _ := f.store.FindByID(context.Background(), r.BookReportID, false)
	if stored.BookReportStatus != model.StatusApproved || stored.BookReportApprovedAt == nil {
		t.Fatalf("stored %+v", stored)
	}
	reviews := f.store.reviewsFor(r.BookReportID)
	if len(reviews) != 1 || reviews[0].BookReportReviewAction != model.ActionApprove ||
		reviews[0].BookReportReviewFromStatus != model.StatusPublished {
		t.Fatalf("reviews = %+v", reviews)
	}

	calls := f.rec.list()
	last := calls[len(calls)-1]
	if !strings.HasPrefix(last, "notify:REPORT_APPROVED:"+f.author.String()) {
		t.Fatalf("author not notified: %v", calls)
	}
}

func TestRejectAndRevisionRequireReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		f := newFixture(t)
		v := f.submitText(t)
		id := v.Report.BookReportID

		_, err := f.svc.Reject(context.Background(), id, f.reviewer, reason)
		var mr apperr.MissingReasonError
		if !errors.As(err, &mr) || mr.Action != "reject" {
			t.Fatalf("Reject(%q) err = %v", reason, err)
		}
		_, err = f.svc.RequestRevision(context.Background(), id, f.reviewer, reason)
		if !errors.As(err, &mr) || mr.Action != "revision" {
			t.Fatalf("RequestRevision(%q) err = %v", reason, err)
		}

		stored, _ := f.store.FindByID(context.Background(), id, false)
		if stored.BookReportStatus != model.StatusPublished || len(f.store.reviewsFor(id)) != 0 {
			t.Fatalf("state mutated on missing reason: %+v", stored)
		}
	}
}

func TestRejectNotifiesWithReason(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)

	r, err := f.svc.Reject(context.Background(), v.Report.BookReportID, f.reviewer, " 분량이 부족합니다 ")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if r.BookReportStatus != model.StatusRejected || r.BookReportApprovedAt != nil {
		t.Fatalf("reject result %+v", r)
	}
	if r.BookReportReviewComment == nil || *r.BookReportReviewComment != "분량이 부족합니다" {
		t.Fatalf("comment = %v", r.BookReportReviewComment)
	}
	calls := f.rec.list()
	if !strings.Contains(calls[len(calls)-1], "사유: 분량이 부족합니다") {
		t.Fatalf("reason not embedded in notification: %v", calls)
	}
}

func TestTransitionTable(t *testing.T) {
	type action func(f *fixture, id uuid.UUID) (*model.BookReportModel, error)
	approve := func(f *fixture, id uuid.UUID) (*model.BookReportModel, error) {
		return f.svc.Approve(context.Background(), id, f.reviewer, "")
	}
	reject := func(f *fixture, id uuid.UUID) (*model.BookReportModel, error) {
		return f.svc.Reject(context.Background(), id, f.reviewer, "사유")
	}
	revise := func(f *fixture, id uuid.UUID) (*model.BookReportModel, error) {
		return f.svc.RequestRevision(context.Background(), id, f.reviewer, "보완해주세요")
	}

	cases := []struct {
		name    string
		from    string
		act     action
		allowed bool
	}{
		{"approve published", model.StatusPublished, approve, true},
		{"approve pending", model.StatusPending, approve, true},
		{"approve draft", model.StatusDraft, approve, false},
		{"approve approved", model.StatusApproved, approve, false},
		{"approve rejected", model.StatusRejected, approve, false},
		{"approve revision requested", model.StatusRevisionRequested, approve, false},
		{"reject published", model.StatusPublished, reject, true},
		{"reject revision requested", model.StatusRevisionRequested, reject, true},
		{"reject approved", model.StatusApproved, reject, false},
		{"revise pending", model.StatusPending, revise, true},
		{"revise revision requested", model.StatusRevisionRequested, revise, false},
		{"revise rejected", model.StatusRejected, revise, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			v := f.submitText(t)
			r := v.Report
			r.BookReportStatus = tc.from
			if tc.from == model.StatusApproved {
				r.BookReportApprovedAt = &f.now
			}
			_ = f.store.UpdateReport(context.Background(), &r)

			_, err := tc.act(f, r.BookReportID)
			if tc.allowed && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !tc.allowed {
				var it apperr.InvalidTransitionError
				if !errors.As(err, &it) || it.From != tc.from {
					t.Fatalf("err = %v, want InvalidTransitionError from %s", err, tc.from)
				}
			}
			stored, _ := f.store.FindByID(context.Background(), r.BookReportID, false)
			if (stored.BookReportApprovedAt != nil) != (stored.BookReportStatus == model.StatusApproved) {
				t.Fatalf("approvedAt/status out of sync: %s %v", stored.BookReportStatus, stored.BookReportApprovedAt)
			}
		})
	}
}

func TestReviewRequiresReviewer(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)

	_, err := f.svc.Approve(context.Background(), v.Report.BookReportID, f.author, "")
	if !errors.As(err, new(apperr.AuthorizationError)) {
		t.Fatalf("err = %v, want AuthorizationError", err)
	}
	_, err = f.svc.Approve(context.Background(), uuid.New(), f.reviewer, "")
	var nf apperr.NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "report" {
		t.Fatalf("err = %v, want report NotFoundError", err)
	}
}

func TestApproveRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)
	f.store.failUpdate = errors.New("conn reset")

	if _, err := f.svc.Approve(context.Background(), v.Report.BookReportID, f.reviewer, ""); err == nil {
		t.Fatal("expected error")
	}
	if len(f.store.reviewsFor(v.Report.BookReportID)) != 0 {
		t.Fatal("review row written without status change")
	}
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, fixtureOpts{notifyErr: errors.New("smtp down")})
	v := f.submitText(t)

	r, err := f.svc.RequestRevision(context.Background(), v.Report.BookReportID, f.reviewer, "결론을 보완해주세요")
	if err != nil {
		t.Fatalf("RequestRevision: %v", err)
	}
	if r.BookReportStatus != model.StatusRevisionRequested {
		t.Fatalf("status = %s", r.BookReportStatus)
	}
	if len(f.disp.errors) != 1 {
		t.Fatalf("dispatcher errors = %v", f.disp.errors)
	}
}

/* =========================
   Update / Resubmit
========================= */

func TestUpdateByNonAuthorForbidden(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)

	_, err := f.svc.Update(context.Background(), v.Report.BookReportID, f.other, UpdateInput{Title: Set("탈취")})
	if !errors.As(err, new(apperr.ForbiddenError)) {
		t.Fatalf("err = %v, want ForbiddenError", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	f := newFixture(t)
	in := f.textInput()
	in.Rating = ptr(3.0)
	v, err := f.svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err := f.svc.Update(context.Background(), v.Report.BookReportID, f.author, UpdateInput{
		Title:      Set("고쳐 쓴 제목"),
		Visibility: Set("PRIVATE"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	r := got.Report
	if r.BookReportTitle != "고쳐 쓴 제목" || r.BookReportVisibility != model.VisibilityPrivate {
		t.Fatalf("fields not applied: %+v", r)
	}
	if r.BookReportContent != in.Content || r.BookReportRating == nil || *r.BookReportRating != 3 {
		t.Fatalf("untouched fields changed: %+v", r)
	}

	got, err = f.svc.Update(context.Background(), r.BookReportID, f.author, UpdateInput{Rating: Field[float64]{Set: true}})
	if err != nil {
		t.Fatalf("clear rating: %v", err)
	}
	if got.Report.BookReportRating != nil {
		t.Fatalf("rating not cleared: %v", *got.Report.BookReportRating)
	}
}

func TestUpdateRejectsBadRating(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)
	for _, bad := range []float64{0, 5.5, 6, -1} {
		_, err := f.svc.Update(context.Background(), v.Report.BookReportID, f.author, UpdateInput{Rating: Set(bad)})
		if !errors.As(err, new(apperr.InvalidRatingError)) {
			t.Fatalf("rating %v err = %v", bad, err)
		}
	}
}

func TestUpdateStructuredRegeneratesContent(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Submit(context.Background(), f.structuredInput(`{"quote":{"quote":"삶은 여행이다"}}`))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	id := v.Report.BookReportID

	_, err = f.svc.Update(context.Background(), id, f.author, UpdateInput{Content: Set("직접 수정")})
	var ve apperr.ValidationError
	if !errors.As(err, &ve) || ve.Reason != apperr.ReasonReadOnly {
		t.Fatalf("content edit err = %v, want read-only ValidationError", err)
	}

	empty := map[string]json.RawMessage{"quote": json.RawMessage(`{"quote":" "}`)}
	if _, err := f.svc.Update(context.Background(), id, f.author, UpdateInput{Data: Set(empty)}); !errors.As(err, &ve) {
		t.Fatalf("incomplete data err = %v", err)
	}

	data := map[string]json.RawMessage{
		"quote": json.RawMessage(`{"quote":"새는 알에서 나오려고 투쟁한다","page":"98"}`),
		"list":  json.RawMessage(`{"items":["투쟁","",  "자아"]}`),
	}
	got, err := f.svc.Update(context.Background(), id, f.author, UpdateInput{Data: Set(data)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := "## 💬 인상 깊은 구절\n> 새는 알에서 나오려고 투쟁한다 (p.98)\n\n## 📝 기억할 것\n1. 투쟁\n2. 자아"
	if got.Report.BookReportContent != want {
		t.Fatalf("content =\n%q\nwant\n%q", got.Report.BookReportContent, want)
	}
	if got.Structured == nil || !strings.Contains(string(got.Structured.StructuredBookReportData), "투쟁") {
		t.Fatalf("structured data not replaced: %+v", got.Structured)
	}
}

func TestUpdateBlockedInTerminalStates(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)
	if _, err := f.svc.Approve(context.Background(), v.Report.BookReportID, f.reviewer, "좋아요"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	_, err := f.svc.Update(context.Background(), v.Report.BookReportID, f.author, UpdateInput{Title: Set("x")})
	if !errors.As(err, new(apperr.InvalidTransitionError)) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
}

func TestResubmitAfterRevision(t *testing.T) {
	f := newFixture(t)
	v := f.submitText(t)
	id := v.Report.BookReportID

	if _, err := f.svc.Resubmit(context.Background(), id, f.author); !errors.As(err, new(apperr.InvalidTransitionError)) {
		t.Fatalf("resubmit from PUBLISHED err = %v", err)
	}
	if _, err := f.svc.RequestRevision(context.Background(), id, f.reviewer, "근거를 보강해주세요"); err != nil {
		t.Fatalf("RequestRevision: %v", err)
	}
	if _, err := f.svc.Update(context.Background(), id, f.author, UpdateInput{Content: Set("보강한 본문")}); err != nil {
		t.Fatalf("Update in REVISION_REQUESTED: %v", err)
	}
	if _, err := f.svc.Resubmit(context.Background(), id, f.other); !errors.As(err, new(apperr.ForbiddenError)) {
		t.Fatalf("resubmit by other err = %v", err)
	}

	f.now = f.now.Add(time.Hour)
	r, err := f.svc.Resubmit(context.Background(), id, f.author)
	if err != nil {
		t.Fatalf("Resubmit: %v", err)
	}
	if r.BookReportStatus != model.StatusPublished || !r.BookReportPublishedAt.Equal(f.now) {
		t.Fatalf("resubmit result %+v", r)
	}
	if n := len(f.store.reviewsFor(id)); n != 2 {
		t.Fatalf("review rows = %d, want 2", n)
	}
}

/* =========================
   Reads
========================= */

func TestGetPrivateVisibility(t *testing.T) {
	f := newFixture(t)
	in := f.textInput()
	in.Visibility = "PRIVATE"
	v, err := f.svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	id := v.Report.BookReportID

	if _, err := f.svc.Get(context.Background(), id, f.author); err != nil {
		t.Fatalf("author Get: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), id, f.reviewer); err != nil {
		t.Fatalf("reviewer Get: %v", err)
	}
	// an outsider gets the same answer as for a report that does not exist
	var nf apperr.NotFoundError
	if _, err := f.svc.Get(context.Background(), id, f.other); !errors.As(err, &nf) || nf.Resource != "report" {
		t.Fatalf("other Get err = %v", err)
	}
	if _, err := f.svc.Get(context.Background(), id, uuid.New()); !errors.As(err, &nf) {
		t.Fatalf("non-member Get err = %v", err)
	}
	if _, err := f.svc.Get(context.Background(), uuid.New(), f.author); !errors.As(err, new(apperr.NotFoundError)) {
		t.Fatalf("missing Get err = %v", err)
	}
}

func TestGetIncludesStructured(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Submit(context.Background(), f.structuredInput(`{"quote":{"quote":"삶은 여행이다"}}`))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := f.svc.Get(context.Background(), v.Report.BookReportID, f.other)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Structured == nil || got.Structured.StructuredBookReportStructure != "quote-first" {
		t.Fatalf("structured = %+v", got.Structured)
	}
}

func TestListForProgram(t *testing.T) {
	f := newFixture(t)
	f.submitText(t)

	if _, _, err := f.svc.ListForProgram(context.Background(), f.program, f.author, ProgramFilter{}, 0, 20); !errors.As(err, new(apperr.AuthorizationError)) {
		t.Fatalf("non reviewer err = %v", err)
	}
	rows, total, err := f.svc.ListForProgram(context.Background(), f.program, f.reviewer, ProgramFilter{Status: ptr(model.StatusPublished)}, 0, 20)
	if err != nil || total != 1 || len(rows) != 1 {
		t.Fatalf("list = %d/%d, %v", len(rows), total, err)
	}
	rows, _, err = f.svc.ListForProgram(context.Background(), f.program, f.reviewer, ProgramFilter{Status: ptr(model.StatusApproved)}, 0, 20)
	if err != nil || len(rows) != 0 {
		t.Fatalf("approved list = %d, %v", len(rows), err)
	}
	if _, _, err := f.svc.ListForProgram(context.Background(), f.program, f.reviewer, ProgramFilter{Status: ptr("BOGUS")}, 0, 20); !errors.As(err, new(apperr.ValidationError)) {
		t.Fatalf("bogus status err = %v", err)
	}
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	f.submitText(t)

	rows, total, err := f.svc.ListMine(context.Background(), f.author, &f.program, 0, 20)
	if err != nil || total != 1 || rows[0].BookReportAuthorID != f.member {
		t.Fatalf("mine = %v/%d, %v", rows, total, err)
	}
	rows, _, err = f.svc.ListMine(context.Background(), f.other, nil, 0, 20)
	if err != nil || len(rows) != 0 {
		t.Fatalf("other mine = %v, %v", rows, err)
	}
}
