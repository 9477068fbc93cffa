package repository

import (
	"context"
)

// UnitOfWork defines the contract for transactional work and repository
// access bound to the same session.
//
// Example usage:
//
//	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
//		repo, err := repository.Get[userrepo.Repository](uow)
//		...
//	})
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns the repository registered for the interface
	// pointed to by repoType, e.g. (*userrepo.Repository)(nil).
	GetRepository(repoType any) (any, error)
}
