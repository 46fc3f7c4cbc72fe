package core

import (
	"fmt"
	"unicode/utf8"

	goerrors "github.com/goliatone/go-errors"
)

func (in CreateRequestInput) Validate(limits Limits) error {
	var fields []goerrors.FieldError
	if in.Caller.IsZero() {
		fields = append(fields, goerrors.FieldError{Field: "caller", Message: "caller is required"})
	}
	if msg := checkASCII(in.TargetRef, limits.MaxTargetRefBytes); msg != "" {
		fields = append(fields, goerrors.FieldError{Field: "target_ref", Message: msg})
	}
	if msg := checkASCII(in.TargetContract, limits.MaxTargetContractBytes); msg != "" {
		fields = append(fields, goerrors.FieldError{Field: "target_contract", Message: msg})
	}
	if msg := checkUTF8(in.Description, limits.MaxDescriptionBytes); msg != "" {
		fields = append(fields, goerrors.FieldError{Field: "description", Message: msg})
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

func (in CancelRequestInput) Validate() error {
	var fields []goerrors.FieldError
	if in.Caller.IsZero() {
		fields = append(fields, goerrors.FieldError{Field: "caller", Message: "caller is required"})
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

func checkASCII(value string, maxBytes int) string {
	if maxBytes > 0 && len(value) > maxBytes {
		return fmt.Sprintf("must be at most %d bytes", maxBytes)
	}
	for i := 0; i < len(value); i++ {
		if value[i] >= utf8.RuneSelf {
			return fmt.Sprintf("must be ascii, found byte 0x%x at offset %d", value[i], i)
		}
	}
	return ""
}

func checkUTF8(value string, maxBytes int) string {
	if maxBytes > 0 && len(value) > maxBytes {
		return fmt.Sprintf("must be at most %d bytes", maxBytes)
	}
	if !utf8.ValidString(value) {
		return "must be valid utf-8"
	}
	return ""
}
