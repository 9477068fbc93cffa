package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

type stubUoW struct {
	repo any
	err  error
}

func (s stubUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(s)
}

func (s stubUoW) GetRepository(any) (any, error) { return s.repo, s.err }

func TestGet(t *testing.T) {
	t.Parallel()

	repo, err := repository.Get[greeter](stubUoW{repo: english{}})
	require.NoError(t, err)
	assert.Equal(t, "hello", repo.Greet())

	_, err = repository.Get[greeter](stubUoW{repo: 42})
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = repository.Get[greeter](stubUoW{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestListOptions(t *testing.T) {
	t.Parallel()

	o := repository.ListOptions{}.Normalize()
	assert.Equal(t, 1, o.Page)
	assert.Equal(t, repository.DefaultPageSize, o.PageSize)

	o = repository.ListOptions{Page: 3, PageSize: 500}.Normalize()
	assert.Equal(t, repository.MaxPageSize, o.PageSize)
	assert.Equal(t, 200, repository.ListOptions{Page: 3, PageSize: 500}.Offset())
}
