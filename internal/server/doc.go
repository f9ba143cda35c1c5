// Package server exposes the game list services over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in the order it is added (first added runs outermost), following the standard Go pattern.
//
// The [ChiRouter] implementation uses chi internally for method and path parameter matching.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which returns the routes they serve,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [GameHandler] and [ListHandler] serve the catalog and list endpoints.
//
// # Endpoints
//
//	GET  /games                       game summaries
//	GET  /games/{id}                  one game
//	GET  /lists                       all lists
//	GET  /lists/{id}                  one list
//	GET  /lists/{id}/games            a list's games in position order
//	POST /lists/{id}/replacement      move a game: {"sourceIndex": 0, "destinationIndex": 2}
//	GET  /health                      liveness
//
// # Errors
//
// Service errors map to status codes with errors.Is: not found is 404, an index outside the list or a malformed
// request is 400, a failed commit is 409, and anything else is 500. Error bodies have the shape
// {"error": {"code": "...", "message": "..."}}.
package server
