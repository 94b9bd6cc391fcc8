//go:build integration

// Package containers starts throwaway infrastructure for integration tests.
package containers

import (
	"sync"
	"testing"
)

var (
	sharedMu       sync.Mutex
	sharedPostgres *PostgresContainer
)

// SharedPostgres returns the package-wide Postgres container, starting and
// migrating it on first use. Suites should truncate tables in SetupTest.
func SharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedPostgres == nil {
		sharedPostgres = NewPostgresContainer(t)
	}
	return sharedPostgres
}
