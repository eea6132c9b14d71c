package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"project-management-api/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate

	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func modelValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report fields under their JSON names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("project_status", func(fl validator.FieldLevel) bool {
			return ProjectStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
			return TaskStatus(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// validateStruct runs the struct tags of a model and converts failures into
// an *apperr.ValidationError keyed by JSON field name.
func validateStruct(model any) error {
	err := modelValidator().Struct(model)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := apperr.FieldErrors{}
	for _, v := range verrs {
		fe.Add(v.Field(), fieldMessage(v))
	}
	return fe.Err()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field cannot be blank."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "project_status", "task_status":
		return fmt.Sprintf("Value %q is not a valid choice.", fe.Value())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
