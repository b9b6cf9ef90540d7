package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookclub_backend/internals/constants"
	"bookclub_backend/internals/features/programs/model"
	"bookclub_backend/internals/helpers/apperr"
)

// ProgramDirectory answers identity and session lookups for the report pipeline.
type ProgramDirectory struct {
	DB *gorm.DB
}

func NewProgramDirectory(db *gorm.DB) *ProgramDirectory {
	return &ProgramDirectory{DB: db}
}

type SessionSnapshot struct {
	SessionID  uuid.UUID
	ProgramID  uuid.UUID
	Number     int
	BookTitle  string
	BookAuthor *string
}

func (d *ProgramDirectory) MemberIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var m model.MemberModel
	err := d.DB.WithContext(ctx).
		Select("member_id").
		Where("member_user_id = ?", userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, apperr.MemberNotFoundError{}
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup member of user %s: %w", userID, err)
	}
	return m.MemberID, nil
}

func (d *ProgramDirectory) UserIDForMember(ctx context.Context, memberID uuid.UUID) (uuid.UUID, error) {
	var m model.MemberModel
	err := d.DB.WithContext(ctx).
		Select("member_user_id").
		Where("member_id = ?", memberID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, apperr.MemberNotFoundError{}
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup user of member %s: %w", memberID, err)
	}
	return m.MemberUserID, nil
}

// IsOrganizer reports whether userID organizes programID.
func (d *ProgramDirectory) IsOrganizer(ctx context.Context, programID, userID uuid.UUID) (bool, error) {
	var n int64
	err := d.DB.WithContext(ctx).
		Table("program_participants AS p").
		Joins("JOIN members m ON m.member_id = p.program_participant_member_id").
		Where("p.program_participant_program_id = ? AND m.member_user_id = ? AND p.program_participant_role = ?",
			programID, userID, constants.ParticipantOrganizer).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check organizer: %w", err)
	}
	return n > 0, nil
}

// SessionSnapshot returns the book metadata of a session that belongs to programID.
func (d *ProgramDirectory) SessionSnapshot(ctx context.Context, programID, sessionID uuid.UUID) (SessionSnapshot, error) {
	var s model.ProgramSessionModel
	err := d.DB.WithContext(ctx).
		Where("program_session_id = ? AND program_session_program_id = ?", sessionID, programID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionSnapshot{}, apperr.SessionNotFoundError{}
	}
	if err != nil {
		return SessionSnapshot{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return SessionSnapshot{
		SessionID:  s.ProgramSessionID,
		ProgramID:  s.ProgramSessionProgramID,
		Number:     s.ProgramSessionNumber,
		BookTitle:  s.ProgramSessionBookTitle,
		BookAuthor: s.ProgramSessionBookAuthor,
	}, nil
}
