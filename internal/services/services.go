package services

import "context"

// Session keys written on login and read by authenticated requests.
const (
	SessionTokenKey = "token"
	SessionUserKey  = "user"
)

// Session is the subset of the persistent session store the client needs.
//
// Get returns "" with a nil error for absent keys.
type Session interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
