package template

import "errors"

var (
	ErrExecute = errors.New("template execution failed")
	ErrNoFiles = errors.New("no files provided")
)
