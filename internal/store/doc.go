// Package store defines the persistence interfaces used by the services:
// users, stress records and generated content. Implementations live in
// internal/platform/postgres.
package store
