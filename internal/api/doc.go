// Package api contains the HTTP handlers for authentication, check-ins,
// biometric submissions, history and content generation. Handlers decode
// and validate requests, call the services and map their errors to status
// codes via HandleAPIError.
package api
