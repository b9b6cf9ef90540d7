package service

import (
	"bookclub_backend/internals/features/programs/model"
)

// Stats are a participant's rates, each a percentage in [0,100].
type Stats struct {
	AttendanceRate float64 `json:"attendance_rate"`
	ReportRate     float64 `json:"report_rate"`
}

// Setting is the threshold view of a program deposit setting.
type Setting struct {
	AttendanceRate float64
	ReportRate     *float64
	ConditionType  string
}

type Eligibility struct {
	MeetsAttendance bool `json:"meets_attendance"`
	MeetsReport     bool `json:"meets_report"`
	Eligible        bool `json:"eligible"`
}

// Evaluate derives refund eligibility. Comparisons are inclusive; an absent report
// threshold, or an attendance-only condition, always satisfies the report side.
func Evaluate(s Stats, set Setting) Eligibility {
	meetsAttendance := s.AttendanceRate >= set.AttendanceRate

	meetsReport := true
	if set.ConditionType != model.ConditionAttendanceOnly && set.ReportRate != nil {
		meetsReport = s.ReportRate >= *set.ReportRate
	}

	return Eligibility{
		MeetsAttendance: meetsAttendance,
		MeetsReport:     meetsReport,
		Eligible:        meetsAttendance && meetsReport,
	}
}

func SettingFromModel(m *model.ProgramDepositSettingModel) Setting {
	return Setting{
		AttendanceRate: m.ProgramDepositSettingAttendanceRate,
		ReportRate:     m.ProgramDepositSettingReportRate,
		ConditionType:  m.ProgramDepositSettingConditionType,
	}
}

// TotalSessions prefers the configured count and falls back to the scheduled sessions.
func TotalSessions(m *model.ProgramDepositSettingModel, scheduled int) int {
	if m != nil && m.ProgramDepositSettingTotalSessions != nil && *m.ProgramDepositSettingTotalSessions > 0 {
		return *m.ProgramDepositSettingTotalSessions
	}
	return scheduled
}

// Rate is n/total as a percentage capped at 100; zero sessions yield 0.
func Rate(n, total int) float64 {
	if total <= 0 || n <= 0 {
		return 0
	}
	r := float64(n) / float64(total) * 100
	if r > 100 {
		return 100
	}
	return r
}
