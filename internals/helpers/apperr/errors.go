// Package apperr holds the user-facing error taxonomy shared by the report pipeline.
// Every error carries the HTTP status it should surface with; the text is shown to the user as-is.
package apperr

import (
	"fmt"
	"net/http"
)

// StatusCoder is implemented by every error in this package.
type StatusCoder interface {
	StatusCode() int
}

// AuthenticationError: no session on the request.
type AuthenticationError struct{}

func (AuthenticationError) Error() string   { return "로그인이 필요합니다." }
func (AuthenticationError) StatusCode() int { return http.StatusUnauthorized }

// AuthorizationError: the caller lacks the reviewer role for the program.
type AuthorizationError struct {
	Action string
}

func (e AuthorizationError) Error() string {
	if e.Action == "" {
		return "권한이 없습니다."
	}
	return fmt.Sprintf("%s 권한이 없습니다.", e.Action)
}
func (AuthorizationError) StatusCode() int { return http.StatusForbidden }

// ForbiddenError: the caller is not the owner of the resource.
type ForbiddenError struct {
	Message string
}

func (e ForbiddenError) Error() string {
	if e.Message == "" {
		return "본인이 작성한 독후감만 수정할 수 있습니다."
	}
	return e.Message
}
func (ForbiddenError) StatusCode() int { return http.StatusForbidden }

type MemberNotFoundError struct{}

func (MemberNotFoundError) Error() string   { return "회원 정보를 찾을 수 없습니다." }
func (MemberNotFoundError) StatusCode() int { return http.StatusNotFound }

// Validation reasons.
const (
	ReasonRequired  = "required"
	ReasonMalformed = "malformed"
	ReasonReadOnly  = "read_only"
)

// ValidationError names the first field or section that failed.
// SectionID/SectionTitle are set for template sections, Field for plain fields.
type ValidationError struct {
	Field        string
	SectionID    string
	SectionTitle string
	Reason       string
}

func (e ValidationError) Error() string {
	if e.SectionTitle != "" || e.SectionID != "" {
		name := e.SectionTitle
		if name == "" {
			name = e.SectionID
		}
		if e.Reason == ReasonMalformed {
			return fmt.Sprintf("'%s' 항목의 형식이 올바르지 않습니다.", name)
		}
		return fmt.Sprintf("'%s' 항목을 작성해주세요.", name)
	}
	switch e.Field {
	case "title":
		return "제목을 입력해주세요."
	case "content":
		if e.Reason == ReasonReadOnly {
			return "구조화된 독후감의 본문은 항목을 통해서만 수정할 수 있습니다."
		}
		return "내용을 입력해주세요."
	}
	if e.Reason == ReasonMalformed {
		return fmt.Sprintf("%s 형식이 올바르지 않습니다.", e.Field)
	}
	return fmt.Sprintf("%s 값을 확인해주세요.", e.Field)
}
func (ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }

type InvalidRatingError struct{}

func (InvalidRatingError) Error() string   { return "평점은 1에서 5 사이의 정수여야 합니다." }
func (InvalidRatingError) StatusCode() int { return http.StatusUnprocessableEntity }

type DuplicateSubmissionError struct{}

func (DuplicateSubmissionError) Error() string   { return "이미 이 회차에 독후감을 제출했습니다." }
func (DuplicateSubmissionError) StatusCode() int { return http.StatusConflict }

// MissingReasonError: reject/revision without a reason.
type MissingReasonError struct {
	Action string
}

func (e MissingReasonError) Error() string {
	if e.Action == "revision" {
		return "수정 요청 사유를 입력해주세요."
	}
	return "반려 사유를 입력해주세요."
}
func (MissingReasonError) StatusCode() int { return http.StatusUnprocessableEntity }

type SessionNotFoundError struct{}

func (SessionNotFoundError) Error() string   { return "회차 정보를 찾을 수 없습니다." }
func (SessionNotFoundError) StatusCode() int { return http.StatusNotFound }

type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	switch e.Resource {
	case "report":
		return "독후감을 찾을 수 없습니다."
	case "template":
		return "독후감 템플릿을 찾을 수 없습니다."
	case "deposit_setting":
		return "보증금 설정을 찾을 수 없습니다."
	case "program":
		return "프로그램을 찾을 수 없습니다."
	case "notification":
		return "알림을 찾을 수 없습니다."
	}
	return "요청한 정보를 찾을 수 없습니다."
}
func (NotFoundError) StatusCode() int { return http.StatusNotFound }

// InvalidTransitionError: the action is not allowed from the report's current status.
type InvalidTransitionError struct {
	From   string
	Action string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("현재 상태(%s)에서는 %s 할 수 없습니다.", e.From, e.Action)
}
func (InvalidTransitionError) StatusCode() int { return http.StatusConflict }
