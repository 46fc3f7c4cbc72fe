package core

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestServiceErrorMapper_AssignsStableCodes(t *testing.T) {
	cases := []struct {
		err      error
		category goerrors.Category
		textCode string
		status   int
	}{
		{fmt.Errorf("%w: request 9", ErrRequestNotFound), goerrors.CategoryNotFound, ErrorNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: request 1", ErrUnauthorized), goerrors.CategoryAuthz, ErrorUnauthorized, http.StatusForbidden},
		{fmt.Errorf("%w: request 1", ErrInvalidRequestState), goerrors.CategoryConflict, ErrorInvalidState, http.StatusConflict},
		{fmt.Errorf("%w: open -> open", ErrInvalidRequestStatusTransition), goerrors.CategoryConflict, ErrorInvalidState, http.StatusConflict},
		{fmt.Errorf("%w: bad bounty", ErrInvalidInput), goerrors.CategoryValidation, ErrorValidationFailed, http.StatusBadRequest},
	}

	for _, tc := range cases {
		mapped := serviceErrorMapper(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapped error for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("%v: expected category %q, got %q", tc.err, tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.textCode {
			t.Fatalf("%v: expected text code %q, got %q", tc.err, tc.textCode, mapped.TextCode)
		}
		if mapped.Code != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, mapped.Code)
		}
	}
}

func TestServiceErrorMapper_FallsBackToInternal(t *testing.T) {
	mapped := serviceErrorMapper(stderrors.New("disk on fire"))
	if mapped == nil {
		t.Fatalf("expected mapped error")
	}
	if mapped.Code == 0 || mapped.TextCode == "" {
		t.Fatalf("expected envelope defaults, got %#v", mapped)
	}
	if serviceErrorMapper(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestNewValidationError_Envelope(t *testing.T) {
	err := NewValidationError(goerrors.FieldError{Field: "target_ref", Message: "too long"})
	if err.TextCode != ErrorValidationFailed {
		t.Fatalf("expected %q, got %q", ErrorValidationFailed, err.TextCode)
	}
	if err.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", err.Code)
	}
	if !IsValidation(err) {
		t.Fatalf("expected IsValidation")
	}
	if IsNotFound(err) || IsUnauthorized(err) || IsInvalidState(err) {
		t.Fatalf("validation error must not match other predicates")
	}
}

func TestNewUnknownFunctionError(t *testing.T) {
	err := NewUnknownFunctionError("transfer")
	if err.TextCode != ErrorUnknownFunction {
		t.Fatalf("expected %q, got %q", ErrorUnknownFunction, err.TextCode)
	}
	if err.Category != goerrors.CategoryNotFound {
		t.Fatalf("expected not found category, got %q", err.Category)
	}
}

func TestServiceErrorMapper_NormalizesForeignTextCodes(t *testing.T) {
	foreign := goerrors.Wrap(stderrors.New("payload rejected"), goerrors.CategoryValidation, "message validation failed").
		WithTextCode("VALIDATION_FAILED")
	mapped := MapError(foreign)
	if mapped.TextCode != ErrorValidationFailed {
		t.Fatalf("expected %q, got %q", ErrorValidationFailed, mapped.TextCode)
	}
	if !IsValidation(mapped) {
		t.Fatalf("expected IsValidation after normalization")
	}

	internal := MapError(stderrors.New("disk on fire"))
	if internal.TextCode != ErrorInternal {
		t.Fatalf("expected %q, got %q", ErrorInternal, internal.TextCode)
	}
}
