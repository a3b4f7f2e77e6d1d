// Package store defines the persistence interfaces and the query composer
// the services depend on. Concrete implementations live under
// internal/platform/postgres (production) and internal/mocks (tests).
package store
