package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// MaxJSONBodyBytes caps JSON request bodies.
const MaxJSONBodyBytes = 1 << 20

// Global validator instance for reuse. Field names are reported by their JSON tag.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v. Bodies larger than
// MaxJSONBodyBytes are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if w != nil {
		r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// ValidateRequest validates v with its struct tags, or with its own Validate
// method when it has one. Tag violations are returned as *domain.ValidationError.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.NewValidationError(fe.Field(), tagMessage(fe), err)
	}
	return domain.NewValidationError("", err.Error(), err)
}

// tagMessage maps a failed validation tag to a user-facing message.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}
