package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeErrorIs(t *testing.T) {
	err := ErrRecordNotFound.WrapMsg("conversation not found", "id", "c1")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatal("wrapped error should match its code error")
	}
	if errors.Is(err, ErrNoPermission) {
		t.Fatal("different codes must not match")
	}
}

func TestCodeErrorSurvivesWrapping(t *testing.T) {
	inner := ErrNoPermission.WrapMsg("not a member")
	outer := fmt.Errorf("handler: %w", inner)

	ce := Unwrap(outer)
	if ce == nil {
		t.Fatal("CodeError lost through fmt wrapping")
	}
	if ce.Code != NoPermissionError {
		t.Fatalf("code = %d, want %d", ce.Code, NoPermissionError)
	}
}

func TestUnwrapPlainError(t *testing.T) {
	if ce := Unwrap(errors.New("boom")); ce != nil {
		t.Fatalf("plain error should not unwrap to CodeError, got %+v", ce)
	}
	if ce := Unwrap(nil); ce != nil {
		t.Fatal("nil should unwrap to nil")
	}
}

func TestWithDetailDoesNotMutate(t *testing.T) {
	d := ErrArgs.WithDetail("field x missing")
	if ErrArgs.Detail != "" {
		t.Fatalf("predefined error mutated: %q", ErrArgs.Detail)
	}
	if d.Detail == "" {
		t.Fatal("detail not applied to the clone")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{ServerInternalError, http.StatusInternalServerError},
		{ArgsError, http.StatusBadRequest},
		{UnauthorizedError, http.StatusUnauthorized},
		{ProfileNotFoundError, http.StatusNotFound},
		{RecordNotFoundError, http.StatusNotFound},
		{NoPermissionError, http.StatusForbidden},
		{999999, http.StatusInternalServerError}, // 未登记的码兜底 500
	}
	for _, c := range cases {
		if got := HTTPStatus(c.code); got != c.want {
			t.Fatalf("HTTPStatus(%d) = %d, want %d", c.code, got, c.want)
		}
	}
}
