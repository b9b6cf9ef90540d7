package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookclub_backend/internals/features/programs/model"
)

// ParticipantCounts is the raw per-participant aggregate; rates are derived by the caller.
type ParticipantCounts struct {
	MemberID      uuid.UUID `gorm:"column:member_id"`
	UserID        uuid.UUID `gorm:"column:user_id"`
	Nickname      string    `gorm:"column:nickname"`
	Role          string    `gorm:"column:role"`
	DepositStatus string    `gorm:"column:deposit_status"`
	Attended      int       `gorm:"column:attended"`
	Reports       int       `gorm:"column:reports"`
}

// DepositSetting returns nil, nil when the program has none.
func (d *ProgramDirectory) DepositSetting(ctx context.Context, programID uuid.UUID) (*model.ProgramDepositSettingModel, error) {
	var s model.ProgramDepositSettingModel
	err := d.DB.WithContext(ctx).
		Where("program_deposit_setting_program_id = ?", programID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load deposit setting: %w", err)
	}
	return &s, nil
}

func (d *ProgramDirectory) SessionCount(ctx context.Context, programID uuid.UUID) (int, error) {
	var n int64
	if err := d.DB.WithContext(ctx).
		Model(&model.ProgramSessionModel{}).
		Where("program_session_program_id = ?", programID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return int(n), nil
}

// ParticipantCounts aggregates attendance and counted reports for every participant of programID.
// Reports in DRAFT or REJECTED do not count.
func (d *ProgramDirectory) ParticipantCounts(ctx context.Context, programID uuid.UUID) ([]ParticipantCounts, error) {
	var rows []ParticipantCounts
	err := d.DB.WithContext(ctx).Raw(`
		SELECT
			m.member_id,
			m.member_user_id AS user_id,
			m.member_nickname AS nickname,
			p.program_participant_role AS role,
			p.program_participant_deposit_status AS deposit_status,
			(
				SELECT COUNT(*)
				FROM program_attendances a
				JOIN program_sessions s ON s.program_session_id = a.program_attendance_session_id
				WHERE s.program_session_program_id = p.program_participant_program_id
				  AND a.program_attendance_member_id = m.member_id
				  AND a.program_attendance_attended
			) AS attended,
			(
				SELECT COUNT(*)
				FROM book_reports r
				WHERE r.book_report_program_id = p.program_participant_program_id
				  AND r.book_report_author_id = m.member_id
				  AND r.book_report_status NOT IN ('DRAFT', 'REJECTED')
			) AS reports
		FROM program_participants p
		JOIN members m ON m.member_id = p.program_participant_member_id
		WHERE p.program_participant_program_id = ?
		ORDER BY m.member_nickname ASC
	`, programID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate participant counts: %w", err)
	}
	return rows, nil
}
