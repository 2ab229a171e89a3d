package switchback

import "context"

// A Key stashes values in a [context.Context] handled by switchback.
type Key string

const (
	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// IpAddrKey stashes the IP address of an HTTP request.
	IpAddrKey Key = "IpAddrKey"

	// routeKey stashes the resolved route stack of the request being dispatched.
	routeKey Key = "RouteKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "switchback context key: " + string(k)
}

// WithRoute adds the resolved route segments to ctx.
func WithRoute(ctx context.Context, segments []string) context.Context {
	return context.WithValue(ctx, routeKey, append([]string(nil), segments...))
}

// RouteFromContext retrieves the route segments stashed by [WithRoute].
func RouteFromContext(ctx context.Context) ([]string, bool) {
	segs, ok := ctx.Value(routeKey).([]string)
	return segs, ok
}
