/*
Package router wraps gorilla/mux in front of the dispatcher.

Most requests never match a route registered here:
CatchAll funnels them to the dispatcher, which resolves them against the app's route table.
Explicit routes suit the endpoints that sit outside of the app, like health checks or /metrics,
and static assets served from [AssetsPath].

Routes match in the order registered, so register explicit routes before calling CatchAll.
*/
package router
