package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{AuthenticationError{}, http.StatusUnauthorized},
		{AuthorizationError{Action: "독후감 승인"}, http.StatusForbidden},
		{ForbiddenError{}, http.StatusForbidden},
		{MemberNotFoundError{}, http.StatusNotFound},
		{ValidationError{Field: "title", Reason: ReasonRequired}, http.StatusUnprocessableEntity},
		{InvalidRatingError{}, http.StatusUnprocessableEntity},
		{DuplicateSubmissionError{}, http.StatusConflict},
		{MissingReasonError{Action: "reject"}, http.StatusUnprocessableEntity},
		{SessionNotFoundError{}, http.StatusNotFound},
		{NotFoundError{Resource: "report"}, http.StatusNotFound},
		{InvalidTransitionError{From: "APPROVED", Action: "반려"}, http.StatusConflict},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("service: %w", tc.err)
		var sc StatusCoder
		if !errors.As(wrapped, &sc) {
			t.Fatalf("%T does not surface a status through wrapping", tc.err)
		}
		if sc.StatusCode() != tc.want {
			t.Errorf("%T status = %d, want %d", tc.err, sc.StatusCode(), tc.want)
		}
	}
}

func TestValidationMessageNamesSection(t *testing.T) {
	err := ValidationError{SectionID: "quote", SectionTitle: "인상 깊은 구절", Reason: ReasonRequired}
	if got, want := err.Error(), "'인상 깊은 구절' 항목을 작성해주세요."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	err = ValidationError{SectionID: "quote", Reason: ReasonMalformed}
	if got, want := err.Error(), "'quote' 항목의 형식이 올바르지 않습니다."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{AuthorizationError{}, "권한이 없습니다."},
		{AuthorizationError{Action: "독후감 승인"}, "독후감 승인 권한이 없습니다."},
		{ForbiddenError{Message: "비공개 독후감입니다."}, "비공개 독후감입니다."},
		{MissingReasonError{Action: "revision"}, "수정 요청 사유를 입력해주세요."},
		{MissingReasonError{Action: "reject"}, "반려 사유를 입력해주세요."},
		{NotFoundError{Resource: "template"}, "독후감 템플릿을 찾을 수 없습니다."},
		{NotFoundError{}, "요청한 정보를 찾을 수 없습니다."},
		{ValidationError{Field: "content", Reason: ReasonReadOnly}, "구조화된 독후감의 본문은 항목을 통해서만 수정할 수 있습니다."},
		{ValidationError{Field: "visibility", Reason: ReasonMalformed}, "visibility 형식이 올바르지 않습니다."},
		{InvalidTransitionError{From: "APPROVED", Action: "반려"}, "현재 상태(APPROVED)에서는 반려 할 수 없습니다."},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("%T: got %q, want %q", tc.err, got, tc.want)
		}
	}
}
