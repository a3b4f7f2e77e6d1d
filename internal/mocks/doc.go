// Package mocks provides in-memory implementations of the store and
// transport interfaces for unit tests. The task store applies the query
// composer's reference semantics directly, so filter behavior can be
// tested without a database.
package mocks
