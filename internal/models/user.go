package models

// User is the profile record returned by the API for the logged-in user.
type User struct {
	ID             string   `json:"_id,omitempty"`
	Username       string   `json:"Username"`
	Email          string   `json:"Email,omitempty"`
	Birthday       string   `json:"Birthday,omitempty"`
	FavoriteMovies []string `json:"FavoriteMovies"`
}

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"Username" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

// Registration is the sign-up form payload.
//
// Birthday is optional and uses the YYYY-MM-DD layout.
type Registration struct {
	Username string `json:"Username" validate:"required,min=5,alphanum"`
	Password string `json:"Password" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Birthday string `json:"Birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// LoginResult is the /login response.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
