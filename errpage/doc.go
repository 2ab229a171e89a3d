/*
Package errpage renders the error pages of a request.

An error override handler configured in the route table gets the first chance to render;
the generic templates under views/errors/ are the fallback.
Showing an error page may itself fail and call for another;
a per-request depth guard keeps that from recursing without bound.
*/
package errpage
