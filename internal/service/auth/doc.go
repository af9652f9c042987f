// Package auth issues and validates the JWT access tokens used by the API and
// hashes user passwords with bcrypt.
package auth
