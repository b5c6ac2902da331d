// Package services implements the HTTP side of the myFlix client.
//
// # Raw Transport
//
// [APIService] performs a single request against the API base URL and returns an [APIResponse]
// holding the status, headers, body and (when the body parses) decoded JSON. Every request carries
// an X-Request-ID and waits on the shared [rate.Limiter] first.
//
// # Typed Client
//
// [Client] maps the catalog operations onto the API:
//   - GET /movies : [Client.Movies]
//   - GET /users/{Username} : [Client.CurrentUser]
//   - POST /users/{Username}/movies/{MovieID} : [Client.AddFavorite]
//   - DELETE /users/{Username}/movies/{MovieID} : [Client.RemoveFavorite]
//   - POST /login : [Client.Login]
//   - POST /users : [Client.Register]
//
// # Authentication
//
// Authenticated requests go through an [oauth2.Transport] whose source is a [SessionTokenSource].
// The token is read from the session store on every request, so a logout takes effect immediately.
// Login writes the token and username into the same store.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no token in the session, or the API answered 401
//   - [shared.ErrAPIRequest] : transport failure or any other non-2xx status
//   - [shared.ErrInvalidInput] : form payload rejected before sending
package services
