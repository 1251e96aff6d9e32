package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		return Grade(fl.Field().String()).Valid()
	})
	return v
}

// ValidateCourse normalizes c and checks the course invariants.
func ValidateCourse(c Course) (Course, error) {
	c = c.Normalize()
	if err := validate.Struct(c); err != nil {
		return c, translate(err)
	}
	return c, nil
}

// ValidateBaseline checks the baseline ranges.
func ValidateBaseline(b Baseline) error {
	if err := validate.Struct(b); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "grade":
		return fmt.Sprintf("must be one of %s (got %q)", gradeList(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of %s (got %v)", strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return "is invalid"
	}
}

func gradeList() string {
	names := make([]string, len(AllGrades))
	for i, g := range AllGrades {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}
