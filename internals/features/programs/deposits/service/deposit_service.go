package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bookclub_backend/internals/features/programs/model"
	programService "bookclub_backend/internals/features/programs/service"
	"bookclub_backend/internals/helpers/apperr"
)

type Source interface {
	DepositSetting(ctx context.Context, programID uuid.UUID) (*model.ProgramDepositSettingModel, error)
	SessionCount(ctx context.Context, programID uuid.UUID) (int, error)
	ParticipantCounts(ctx context.Context, programID uuid.UUID) ([]programService.ParticipantCounts, error)
}

type Reviewers interface {
	CanReview(ctx context.Context, programID, userID uuid.UUID) (bool, error)
}

type DepositService struct {
	src       Source
	reviewers Reviewers
}

func NewDepositService(src Source, reviewers Reviewers) *DepositService {
	return &DepositService{src: src, reviewers: reviewers}
}

type ParticipantEligibility struct {
	MemberID      uuid.UUID `json:"member_id"`
	UserID        uuid.UUID `json:"user_id"`
	Nickname      string    `json:"nickname"`
	Role          string    `json:"role"`
	DepositStatus string    `json:"deposit_status"`
	Attended      int       `json:"attended"`
	Reports       int       `json:"reports"`
	Stats
	Eligibility
}

type Overview struct {
	ProgramID           uuid.UUID                `json:"program_id"`
	Enabled             bool                     `json:"enabled"`
	TotalSessions       int                      `json:"total_sessions"`
	DepositAmount       int64                    `json:"deposit_amount"`
	ConditionType       string                   `json:"condition_type,omitempty"`
	AttendanceThreshold float64                  `json:"attendance_threshold"`
	ReportThreshold     *float64                 `json:"report_threshold,omitempty"`
	EligibleCount       int                      `json:"eligible_count"`
	Participants        []ParticipantEligibility `json:"participants"`
}

// Overview evaluates every participant of programID. Reviewers only.
func (s *DepositService) Overview(ctx context.Context, programID, viewer uuid.UUID) (*Overview, error) {
	ok, err := s.reviewers.CanReview(ctx, programID, viewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.AuthorizationError{Action: "보증금 현황 조회"}
	}
	return s.build(ctx, programID)
}

// Mine evaluates the caller's own standing in programID.
func (s *DepositService) Mine(ctx context.Context, programID, userID uuid.UUID) (*Overview, error) {
	ov, err := s.build(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !ov.Enabled {
		return ov, nil
	}
	for _, p := range ov.Participants {
		if p.UserID == userID {
			ov.Participants = []ParticipantEligibility{p}
			ov.EligibleCount = 0
			if p.Eligible {
				ov.EligibleCount = 1
			}
			return ov, nil
		}
	}
	return nil, apperr.ForbiddenError{Message: "프로그램 참여자만 확인할 수 있습니다."}
}

func (s *DepositService) build(ctx context.Context, programID uuid.UUID) (*Overview, error) {
	var (
		setting   *model.ProgramDepositSettingModel
		scheduled int
		counts    []programService.ParticipantCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		setting, err = s.src.DepositSetting(gctx, programID)
		return err
	})
	g.Go(func() (err error) {
		scheduled, err = s.src.SessionCount(gctx, programID)
		return err
	})
	g.Go(func() (err error) {
		counts, err = s.src.ParticipantCounts(gctx, programID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ov := &Overview{ProgramID: programID, Participants: []ParticipantEligibility{}}
	if setting == nil || !setting.ProgramDepositSettingIsEnabled {
		return ov, nil
	}

	total := TotalSessions(setting, scheduled)
	set := SettingFromModel(setting)
	ov.Enabled = true
	ov.TotalSessions = total
	ov.DepositAmount = setting.ProgramDepositSettingDepositAmount
	ov.ConditionType = set.ConditionType
	ov.AttendanceThreshold = set.AttendanceRate
	if set.ConditionType != model.ConditionAttendanceOnly {
		ov.ReportThreshold = set.ReportRate
	}

	for _, c := range counts {
		st := Stats{
			AttendanceRate: Rate(c.Attended, total),
			ReportRate:     Rate(c.Reports, total),
		}
		el := Evaluate(st, set)
		if el.Eligible {
			ov.EligibleCount++
		}
		ov.Participants = append(ov.Participants, ParticipantEligibility{
			MemberID:      c.MemberID,
			UserID:        c.UserID,
			Nickname:      c.Nickname,
			Role:          c.Role,
			DepositStatus: c.DepositStatus,
			Attended:      c.Attended,
			Reports:       c.Reports,
			Stats:         st,
			Eligibility:   el,
		})
	}
	return ov, nil
}
