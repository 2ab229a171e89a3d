/*
The middleware package defines what a middleware is in switchback and a set of basic middlewares.

The available middlewares are:
- CORS
- ForceHTTPS
- InjectIPAddress
- LogRequest
- RateLimit
- Recover
- RequestID

Middlewares wrap the dispatcher as a whole, before any route is resolved.
The following is a typical chain:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.Recover(env, log),
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.InjectIPAddress(),
		middleware.RequestID(),
		middleware.LogRequest(log),
	}
*/
package middleware
