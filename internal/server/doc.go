// Package server provides HTTP routing, middleware, and an in-memory myFlix API for development and tests.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /movies") internally.
//
// # Mock API
//
// [MockAPI] serves the endpoints the client consumes:
//
//	POST   /login?Username=&Password=          → {user, token}
//	POST   /users                              → created user
//	GET    /movies                             → seeded catalog (bearer)
//	GET    /users/{Username}                   → profile (bearer)
//	POST   /users/{Username}/movies/{MovieID}  → profile after add (bearer)
//	DELETE /users/{Username}/movies/{MovieID}  → profile after remove (bearer)
//
// Tokens are random UUIDs kept in memory. Nothing survives a restart.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
