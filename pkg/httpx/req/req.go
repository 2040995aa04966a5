package req

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"creditdesk/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// ValidationError is returned when a request body fails decoding or struct
// validation. It maps to HTTP 400 in reply.Error.
type ValidationError struct {
	description string
	cause       error
}

func (e *ValidationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.description, e.cause)
	}

	return e.description
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func (e *ValidationError) ErrorCode() errcodes.Code {
	return errcodes.ValidationError
}

func (e *ValidationError) Description() string {
	return e.description
}

func Read(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return &ValidationError{
			description: "Invalid JSON",
			cause:       fmt.Errorf("json.Decode: %w", err),
		}
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return &ValidationError{
			description: err.Error(),
			cause:       fmt.Errorf("validate.StructCtx: %w", err),
		}
	}

	return nil
}
