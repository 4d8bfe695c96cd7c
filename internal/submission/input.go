package submission

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxResumeSize is the upload limit enforced before any network call.
const maxResumeSize = 10 << 20 // 10 MiB

var pdfMagic = []byte("%PDF")

// Input is a candidate submission as entered by the recruiter.
type Input struct {
	Name           string `validate:"required"`
	Email          string `validate:"required,email"`
	Phone          string `validate:"required"`
	JobID          int64  `validate:"required,gt=0"`
	ResumeFilename string
	Resume         []byte
}

// ValidationError is a pre-network rejection with a user-visible reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateInput(input *Input) error {
	if input == nil {
		return &ValidationError{Reason: "submission input is required"}
	}

	if err := validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &ValidationError{Reason: fieldReason(fieldErrs[0])}
		}
		return &ValidationError{Reason: err.Error()}
	}

	if len(input.Resume) == 0 {
		return &ValidationError{Reason: "a resume file is required"}
	}
	if !isPDF(input.ResumeFilename, input.Resume) {
		return &ValidationError{Reason: "only PDF resumes are accepted"}
	}
	if len(input.Resume) > maxResumeSize {
		return &ValidationError{Reason: "resume must be 10 MiB or smaller"}
	}

	return nil
}

func fieldReason(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "gt":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "a valid email address is required"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func isPDF(filename string, data []byte) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return false
	}
	return bytes.HasPrefix(data, pdfMagic)
}
