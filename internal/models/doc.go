// Package models defines the records exchanged with the myFlix API.
//
// The package contains two categories of types:
//
// 1. Catalog records, passed through to views and dialogs without transformation
//   - [Movie] : a catalog entry with embedded [Genre] and [Director]
//   - [User] : the profile record holding the FavoriteMovies identifiers
//
// 2. Request payloads, validated before they leave the client
//   - [Credentials] : login form input
//   - [Registration] : sign-up form input
//   - [LoginResult] : the /login response carrying the bearer token
package models
