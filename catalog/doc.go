/*
Package catalog maps the names switchback resolves from source directories to the Go code implementing them.

Go cannot load a type by name at runtime, so an app registers its components, handlers, models and helpers
with a [Catalog] at startup:

	cat := catalog.New()
	cat.Register("SB_Email", email.New)
	cat.Override("MY_Email", "SB_Email", myemail.Extend)
	cat.RegisterHandler("blog", blog.New)
	cat.RegisterDriver("Cache", "redis", cache.NewRedis)

The loader decides what to load by searching the layered directories for source files;
the Catalog then constructs it.
An override registered with [Catalog.Override] is built around an instance of the type it overrides,
delegating to it for anything it does not change.
*/
package catalog
