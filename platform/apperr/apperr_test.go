package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusPerKind(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindBadRequest, http.StatusBadRequest},
		{KindInternal, http.StatusInternalServerError},
		{KindGone, http.StatusGone},
		{KindUnknown, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := New(tc.kind, "boom").HTTPStatus(); got != tc.want {
			t.Fatalf("kind %d: expected status %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestGoneConstructor(t *testing.T) {
	err := Gone("conversation expired")
	if GetKind(err) != KindGone {
		t.Fatalf("expected KindGone, got %v", GetKind(err))
	}
	if err.Error() != "conversation expired" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapUnwrapsUnderlyingError(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "fetch lead", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to match underlying cause")
	}
	if !Is(err, KindInternal) {
		t.Fatal("expected Is to match KindInternal")
	}
}
