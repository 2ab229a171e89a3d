package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/schema"

	"github.com/xy-planning-network/switchback"
)

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some are mistakes in the destination struct; the rest are values that do not fit it.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", switchback.ErrNotValid, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				// For non-slice values, Index is -1.
				Got:  fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule: "must be " + err.Type.String(),
			})

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: mark fields "required" with validate tags, not schema tags`, switchback.ErrBadConfig)

		case schema.UnknownKeyError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			})

		default:
			// A field of a type no converter handles only errors once a value is sent for it.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", switchback.ErrBadConfig)
			}

			return fmt.Errorf("%w: %s", switchback.ErrUnexpected, err)
		}
	}

	return validErrs
}
