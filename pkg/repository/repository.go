package repository

import "fmt"

// Pagination bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions controls paging and soft-delete visibility for list queries.
type ListOptions struct {
	Page           int
	PageSize       int
	IncludeDeleted bool
}

// Normalize clamps page and page size into valid ranges.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

// Offset returns the number of rows to skip.
func (o ListOptions) Offset() int {
	n := o.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Get resolves a repository of interface type T from the unit of work.
//
//	repo, err := repository.Get[userrepo.Repository](uow)
func Get[T any](uow UnitOfWork) (T, error) {
	var zero T
	repoAny, err := uow.GetRepository((*T)(nil))
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}
