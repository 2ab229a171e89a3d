package switchback

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrBadConfig    = errors.New("bad config")
	ErrNameConflict = errors.New("name conflict")
	ErrNotExist     = errors.New("not exist")
	ErrNotValid     = errors.New("invalid")
	ErrRecursion    = errors.New("recursion limit")
	ErrUnexpected   = errors.New("unexpected")
)

const (
	// DefaultHeading titles error pages not produced by a 404.
	DefaultHeading = "An Error Was Encountered"

	// NotFoundHeading titles error pages produced by a 404.
	NotFoundHeading = "404 Page Not Found"

	// NotFoundMessage is shown to clients on a 404.
	NotFoundMessage = "The page you requested was not found."

	// GeneralTemplate is the error template rendered for most failures.
	GeneralTemplate = "error_general"

	// NotFoundTemplate is the error template rendered on a 404.
	NotFoundTemplate = "error_404"
)

// An Error is a terminal failure for the request being dispatched.
// It carries everything needed to render an error page:
// the status code, heading, messages and template,
// along with the sentinel error classifying it.
//
// Error unwraps to that sentinel, so callers test it with [errors.Is].
type Error struct {
	Status   int
	Heading  string
	Messages []string
	Template string

	// Page names the resource that could not be found, for logging.
	Page string

	Err error
}

// NotFound constructs the *Error rendering a 404 for page.
func NotFound(page string) *Error {
	return &Error{
		Status:   http.StatusNotFound,
		Heading:  NotFoundHeading,
		Messages: []string{NotFoundMessage},
		Template: NotFoundTemplate,
		Page:     page,
		Err:      ErrNotExist,
	}
}

// Fail constructs the *Error rendering a 500 for err.
// When no messages are provided, err's text is the message.
func Fail(err error, messages ...string) *Error {
	if len(messages) == 0 && err != nil {
		messages = []string{err.Error()}
	}

	return &Error{
		Status:   http.StatusInternalServerError,
		Heading:  DefaultHeading,
		Messages: messages,
		Template: GeneralTemplate,
		Err:      err,
	}
}

// BadRequest constructs the *Error rendering a 400 with the message.
func BadRequest(msg string) *Error {
	return &Error{
		Status:   http.StatusBadRequest,
		Heading:  DefaultHeading,
		Messages: []string{msg},
		Template: GeneralTemplate,
		Err:      ErrNotValid,
	}
}

func (e *Error) Error() string {
	msg := strings.Join(e.Messages, " ")
	if e.Page != "" {
		msg = fmt.Sprintf("%s --> %s", msg, e.Page)
	}

	if e.Err == nil {
		return fmt.Sprintf("%d %s", e.Status, msg)
	}

	return fmt.Sprintf("%d %s: %s", e.Status, e.Err, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError pulls an *Error out of err,
// wrapping any other error in a 500 *Error.
// AsError returns nil when err is nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return Fail(err)
}
