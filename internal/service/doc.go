// Package service contains the application use cases. It coordinates the
// stress scorer, the biometric session registry, the content generation
// orchestrator and the stores defined in internal/store.
//
// Services receive their dependencies through constructor injection and
// depend only on interfaces, never on concrete infrastructure. Unexpected
// failures are wrapped in service-specific error types that keep the cause
// reachable through errors.Is and errors.As; expected conditions such as
// validation failures and missing records pass through unchanged so the API
// layer can map them to status codes.
package service
