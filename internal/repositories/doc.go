// Package repositories implements persistent storage for the client session.
//
// The session is a flat key/value map (token, user) that outlives a single process so that
// `myflix login` in one invocation authenticates `myflix movies list` in the next.
//
// Key Implementations:
//   - [SQLiteSessionStore] : default backend, a single table created by the embedded migrations
//   - [RedisSessionStore] : shared backend for several terminals, keys live under a prefix
//
// [NewSessionStore] picks the backend from [shared.SessionConfig].
package repositories
