// Package forms validates and normalizes user input before any request is
// sent. A form that fails validation never reaches the network.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskboard/internal/service"
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed rule of a form.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var labels = map[string]string{
	"title":       "Title",
	"description": "Description",
	"status":      "Status",
	"dueDate":     "Due date",
	"name":        "Name",
	"email":       "Email",
	"password":    "Password",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, err := service.ParseStatus(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDueDate(fl.Field().String())
		return err == nil
	})
	return v
}

// check runs the struct rules and converts failures to *ValidationError.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s is required", label)
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "status":
		return "Status must be one of todo, in-progress, done"
	case "duedate":
		return "Due date must be a valid date in dd/mm/yyyy format"
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}
