/*
Package input reads what a client sent with a request into structs, validating them.

An app loads the input component like any other library:

	libraries: [input]

Handlers then decode the query string, a form or a JSON body into a struct
whose fields carry "schema", "json" and "validate" tags:

	type filter struct {
		Page int    `schema:"page" validate:"gte=1"`
		Sort string `schema:"sort" validate:"oneof=asc desc"`
	}

	v, _ := s.Get("input")
	var f filter
	if err := v.(*input.Input).Query(s.Request(), &f); err != nil {
		return nil, input.AsError(err)
	}

Values that fail their rules come back as ValidationErrors,
which AsError turns into a 400 error page listing each of them.
*/
package input
