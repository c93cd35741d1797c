package core

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so errors match what users and API clients see.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes the draft and checks that title and content are present.
func (d Draft) Validate() error {
	return validationError(validate.Struct(d.Normalize()))
}

// validateNote checks the invariants a note must hold after any mutation.
func validateNote(n Note) error {
	var fields []string
	if err := validate.Var(strings.TrimSpace(n.Title), "required"); err != nil {
		fields = append(fields, "title")
	}
	if err := validate.Var(strings.TrimSpace(n.Content), "required"); err != nil {
		fields = append(fields, "content")
	}
	if err := validate.Var(n.Tags, "omitempty,dive,required"); err != nil {
		fields = append(fields, "tags")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}
