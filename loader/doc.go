/*
Package loader resolves what a request asks for by name against layered directories,
then binds it in the request's Container.

Components are found under components/, handlers under handlers/, models under models/,
helpers under helpers/ and views under views/ of each directory of a [paths.Set].
Source files decide what is loaded and from where;
the [catalog.Catalog] supplies the Go code constructing it.

	l, err := loader.New(loader.Params{Set: set, Resolver: r, Catalog: cat, Config: store})
	if err != nil {
		return err
	}

	if err := l.Component("Email", nil, ""); err != nil {
		return err
	}

	mailer, _ := l.Get("email")
*/
package loader

import "github.com/xy-planning-network/switchback/catalog"

var _ catalog.Scope = (*Loader)(nil)
