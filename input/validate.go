package input

import (
	"errors"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
)

// An Enumerable is a type that can only hold one of a set of constant values.
// Fields of Enumerable types are checked with the "enum" rule.
type Enumerable interface {
	String() string
	Valid() error
}

// newValidate constructs a *v10.Validate naming fields by their json, then schema, tags.
func newValidate() *v10.Validate {
	v := v10.New()
	v.RegisterValidation("enum", validateEnumerable)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}

			if name != "" {
				return name
			}
		}

		return ""
	})

	return v
}

// validate checks the fields on structPtr match the rules set by "validate" struct tags,
// translating each failure into a ValidationError.
func (in *Input) validate(structPtr any) error {
	err := in.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var validateErrs ValidationErrors
	for _, ve := range errs {
		field := ve.Namespace()
		if ns := strings.SplitN(field, ".", 2); len(ns) == 2 {
			field = ns[1]
		}

		rule := ve.Tag()
		if ve.Param() != "" {
			rule += "=" + ve.Param()
		}
		rule += "; " + ve.Type().String()

		validateErrs = append(validateErrs, ValidationError{
			Field: field,
			Got:   ve.Value(),
			Rule:  rule,
		})
	}

	return validateErrs
}

// validateEnumerable validates whether field is a valid Enumerable or slice of valid Enumerable.
func validateEnumerable(fl v10.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return checkEnums(field)
	}

	vals := make([]reflect.Value, 0, field.Len())
	for i := 0; i < field.Len(); i++ {
		vals = append(vals, field.Index(i))
	}

	return checkEnums(vals...)
}

func checkEnums(items ...reflect.Value) bool {
	if len(items) == 0 {
		return false
	}

	for _, item := range items {
		enum, ok := item.Interface().(Enumerable)
		if !ok || enum.Valid() != nil {
			return false
		}
	}

	return true
}
