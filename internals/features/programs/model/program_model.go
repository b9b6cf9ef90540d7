package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberModel is the community identity behind a user; reports are authored by members.
type MemberModel struct {
	MemberID        uuid.UUID `gorm:"column:member_id;type:uuid;default:gen_random_uuid();primaryKey" json:"member_id"`
	MemberUserID    uuid.UUID `gorm:"column:member_user_id;type:uuid;not null;uniqueIndex" json:"member_user_id"`
	MemberNickname  string    `gorm:"column:member_nickname;type:varchar(80);not null" json:"member_nickname"`
	MemberCreatedAt time.Time `gorm:"column:member_created_at;autoCreateTime" json:"member_created_at"`
}

func (MemberModel) TableName() string { return "members" }

type ProgramModel struct {
	ProgramID        uuid.UUID `gorm:"column:program_id;type:uuid;default:gen_random_uuid();primaryKey" json:"program_id"`
	ProgramTitle     string    `gorm:"column:program_title;type:varchar(200);not null" json:"program_title"`
	ProgramIsActive  bool      `gorm:"column:program_is_active;not null;default:true" json:"program_is_active"`
	ProgramCreatedAt time.Time `gorm:"column:program_created_at;autoCreateTime" json:"program_created_at"`
}

func (ProgramModel) TableName() string { return "programs" }

// ProgramSessionModel is one meeting of a program, with the book read for it.
type ProgramSessionModel struct {
	ProgramSessionID         uuid.UUID  `gorm:"column:program_session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"program_session_id"`
	ProgramSessionProgramID  uuid.UUID  `gorm:"column:program_session_program_id;type:uuid;not null;index" json:"program_session_program_id"`
	ProgramSessionNumber     int        `gorm:"column:program_session_number;not null" json:"program_session_number"`
	ProgramSessionBookTitle  string     `gorm:"column:program_session_book_title;type:varchar(255);not null" json:"program_session_book_title"`
	ProgramSessionBookAuthor *string    `gorm:"column:program_session_book_author;type:varchar(255)" json:"program_session_book_author,omitempty"`
	ProgramSessionDate       *time.Time `gorm:"column:program_session_date;type:date" json:"program_session_date,omitempty"`
}

func (ProgramSessionModel) TableName() string { return "program_sessions" }

// Deposit statuses. Only an admin action outside this service moves them.
const (
	DepositPending   = "PENDING"
	DepositHeld      = "HELD"
	DepositRefunded  = "REFUNDED"
	DepositForfeited = "FORFEITED"
)

type ProgramParticipantModel struct {
	ProgramParticipantID            uuid.UUID `gorm:"column:program_participant_id;type:uuid;default:gen_random_uuid();primaryKey" json:"program_participant_id"`
	ProgramParticipantProgramID     uuid.UUID `gorm:"column:program_participant_program_id;type:uuid;not null;uniqueIndex:uq_program_participant,priority:1" json:"program_participant_program_id"`
	ProgramParticipantMemberID      uuid.UUID `gorm:"column:program_participant_member_id;type:uuid;not null;uniqueIndex:uq_program_participant,priority:2" json:"program_participant_member_id"`
	ProgramParticipantRole          string    `gorm:"column:program_participant_role;type:varchar(20);not null;default:'MEMBER'" json:"program_participant_role"`
	ProgramParticipantDepositStatus string    `gorm:"column:program_participant_deposit_status;type:varchar(20);not null;default:'PENDING'" json:"program_participant_deposit_status"`
	ProgramParticipantJoinedAt      time.Time `gorm:"column:program_participant_joined_at;autoCreateTime" json:"program_participant_joined_at"`
}

func (ProgramParticipantModel) TableName() string { return "program_participants" }

type ProgramAttendanceModel struct {
	ProgramAttendanceID        uuid.UUID `gorm:"column:program_attendance_id;type:uuid;default:gen_random_uuid();primaryKey" json:"program_attendance_id"`
	ProgramAttendanceSessionID uuid.UUID `gorm:"column:program_attendance_session_id;type:uuid;not null;uniqueIndex:uq_program_attendance,priority:1" json:"program_attendance_session_id"`
	ProgramAttendanceMemberID  uuid.UUID `gorm:"column:program_attendance_member_id;type:uuid;not null;uniqueIndex:uq_program_attendance,priority:2" json:"program_attendance_member_id"`
	ProgramAttendanceAttended  bool      `gorm:"column:program_attendance_attended;not null;default:false" json:"program_attendance_attended"`
	ProgramAttendanceCheckedAt time.Time `gorm:"column:program_attendance_checked_at;autoCreateTime" json:"program_attendance_checked_at"`
}

func (ProgramAttendanceModel) TableName() string { return "program_attendances" }

// Deposit refund conditions.
const (
	ConditionAttendanceOnly      = "ATTENDANCE_ONLY"
	ConditionAttendanceAndReport = "ATTENDANCE_AND_REPORT"
)

type ProgramDepositSettingModel struct {
	ProgramDepositSettingProgramID      uuid.UUID `gorm:"column:program_deposit_setting_program_id;type:uuid;primaryKey" json:"program_id"`
	ProgramDepositSettingIsEnabled      bool      `gorm:"column:program_deposit_setting_is_enabled;not null;default:false" json:"is_enabled"`
	ProgramDepositSettingTotalSessions  *int      `gorm:"column:program_deposit_setting_total_sessions" json:"total_sessions,omitempty"`
	ProgramDepositSettingDepositAmount  int64     `gorm:"column:program_deposit_setting_deposit_amount;not null;default:0" json:"deposit_amount"`
	ProgramDepositSettingConditionType  string    `gorm:"column:program_deposit_setting_condition_type;type:varchar(32);not null;default:'ATTENDANCE_ONLY'" json:"condition_type"`
	ProgramDepositSettingAttendanceRate float64   `gorm:"column:program_deposit_setting_attendance_rate;not null;default:0" json:"attendance_rate"`
	ProgramDepositSettingReportRate     *float64  `gorm:"column:program_deposit_setting_report_rate" json:"report_rate,omitempty"`
	ProgramDepositSettingUpdatedAt      time.Time `gorm:"column:program_deposit_setting_updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProgramDepositSettingModel) TableName() string { return "program_deposit_settings" }
