/*
Package route resolves request URIs into the handler and entry point that serve them.

A [Table] holds the route rules of an app, decoded from the routes configuration block:

	default_handler: welcome
	404_override: errors/missing
	rules:
	  - pattern: blog
	    target: posts/index
	  - pattern: product/(:num)
	    target: catalog/show/$1
	  - pattern: archive/(:num)/?(:num)?
	    callback: archive

Patterns may use the :any and :num wildcards and capture groups referenced from targets as $1, $2 and so on.
Callbacks declare their parameters, with optional defaults, when registered through [Func].

A [Router] matches the URI against its Table, then searches the handlers/ directories
of the layered base directories for a handler serving the result.
The resolved [Stack] names the base directory, subdirectory, handler, entry point and arguments of the request.
*/
package route
