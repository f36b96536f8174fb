package unitofwork

import "context"

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
	// Ping checks store reachability for health reporting.
	Ping(ctx context.Context) error
}
