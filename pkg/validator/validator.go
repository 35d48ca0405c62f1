package validator

import (
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/clinicops/clinic-api/pkg/errors"
)

// Validator validates request structs against their `validate` tags.
type Validator interface {
	Validate(interface{}) error
}

type validator struct {
	v *playground.Validate
}

func New() Validator {
	return &validator{v: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate returns a validation AppError naming the first offending field.
func (vd *validator) Validate(obj interface{}) error {
	err := vd.v.Struct(obj)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(playground.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errors.Validation("invalid request")
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return errors.Validationf("%s is required", field)
	case "email":
		return errors.Validationf("%s must be a valid email", field)
	case "oneof":
		return errors.Validationf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return errors.Validationf("%s must match format %s", field, fe.Param())
	default:
		return errors.Validationf("%s is invalid", field)
	}
}
