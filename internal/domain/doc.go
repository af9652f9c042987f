// Package domain contains the core business entities, value objects, and
// domain errors of the application: check-in and biometric inputs, stress
// assessments, the records persisted for them, and the study content
// generated for a learner. It is independent of any specific infrastructure
// or delivery mechanism.
package domain
