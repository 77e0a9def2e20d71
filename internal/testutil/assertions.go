package testutil

import (
	"errors"
	"testing"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError with code %q, got %T: %v", expectedCode, err, err)
	}

	if appErr.Code != expectedCode {
		t.Fatalf("expected error code %q, got %q (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test immediately when err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
