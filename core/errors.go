package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorValidationFailed = "FRONTRUN_VALIDATION_FAILED"
	ErrorNotFound         = "FRONTRUN_NOT_FOUND"
	ErrorUnauthorized     = "FRONTRUN_UNAUTHORIZED"
	ErrorInvalidState     = "FRONTRUN_INVALID_STATE"
	ErrorUnknownFunction  = "FRONTRUN_UNKNOWN_FUNCTION"
	ErrorInternal         = "FRONTRUN_INTERNAL_ERROR"

	serviceTextCodePrefix = "FRONTRUN_"
)

func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureServiceErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrRequestNotFound):
		return wrapServiceError(err, goerrors.CategoryNotFound, ErrorNotFound)
	case errors.Is(err, ErrUnauthorized):
		return wrapServiceError(err, goerrors.CategoryAuthz, ErrorUnauthorized)
	case errors.Is(err, ErrInvalidRequestState), errors.Is(err, ErrInvalidRequestStatusTransition):
		return wrapServiceError(err, goerrors.CategoryConflict, ErrorInvalidState)
	case errors.Is(err, ErrInvalidInput):
		return wrapServiceError(err, goerrors.CategoryValidation, ErrorValidationFailed)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureServiceErrorEnvelope(mapped)
}

func wrapServiceError(err error, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.Wrap(err, category, err.Error()).
			WithTextCode(textCode),
	)
}

// NewValidationError builds the envelope returned for malformed or oversized
// input. Each field error names the offending argument.
func NewValidationError(fields ...goerrors.FieldError) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.NewValidation("core: validation failed", fields...).
			WithTextCode(ErrorValidationFailed).
			WithSeverity(goerrors.SeverityError),
	)
}

func NewUnknownFunctionError(function string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.New("core: unknown function "+strings.TrimSpace(function), goerrors.CategoryNotFound).
			WithTextCode(ErrorUnknownFunction),
	)
}

// MapError converts any error into the service envelope.
func MapError(err error) *goerrors.Error {
	return serviceErrorMapper(err)
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if !strings.HasPrefix(err.TextCode, serviceTextCodePrefix) {
		err.TextCode = defaultServiceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultServiceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorValidationFailed
	case goerrors.CategoryNotFound:
		return ErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ErrorUnauthorized
	case goerrors.CategoryConflict:
		return ErrorInvalidState
	default:
		return ErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func IsValidation(err error) bool {
	return hasTextCode(err, ErrorValidationFailed) || errors.Is(err, ErrInvalidInput)
}

func IsNotFound(err error) bool {
	return hasTextCode(err, ErrorNotFound) || errors.Is(err, ErrRequestNotFound)
}

func IsUnauthorized(err error) bool {
	return hasTextCode(err, ErrorUnauthorized) || errors.Is(err, ErrUnauthorized)
}

func IsInvalidState(err error) bool {
	return hasTextCode(err, ErrorInvalidState) || errors.Is(err, ErrInvalidRequestState)
}

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}
