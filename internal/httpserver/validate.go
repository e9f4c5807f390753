package httpserver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/robalobadob/conduit/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// page size bounds live in domain so the service defaults agree with them
	_ = v.RegisterValidation("pagesize", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n >= 1 && n <= domain.MaxLimit
	})
	return v
}

// check validates s and returns a KindInvalid domain error listing every
// failing field.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := domain.Validation{}
	for _, fe := range ves {
		out.Add(fe.Field(), message(fe))
	}
	return out.Err()
}

func message(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		numeric = true
	}
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "email":
		return "is invalid"
	case "min":
		if numeric {
			return "must be at least " + fe.Param()
		}
		if fe.Param() == "1" {
			return "can't be blank"
		}
		return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "pagesize":
		return fmt.Sprintf("must be between 1 and %d", domain.MaxLimit)
	case "max":
		if numeric {
			return "must be at most " + fe.Param()
		}
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	}
	return "is invalid"
}

// bindError turns a decode failure from render.Bind into a 400.
func bindError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Invalid("body", "is not valid JSON")
}
