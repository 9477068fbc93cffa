package database

import (
	"errors"

	"github.com/amirasaad/backoffice/pkg/domain"
	"gorm.io/gorm"
)

// storeErrors pairs GORM sentinels with the domain errors the HTTP layer
// turns into status codes. A broken foreign key means the referenced
// record is gone.
var storeErrors = []struct {
	gorm   error
	domain error
}{
	{gorm.ErrDuplicatedKey, domain.ErrAlreadyExists},
	{gorm.ErrRecordNotFound, domain.ErrNotFound},
	{gorm.ErrForeignKeyViolated, domain.ErrNotFound},
}

// MapGormErrorToDomain replaces a known GORM error anywhere in err's chain
// with its domain error. Driver text is dropped so constraint names never
// reach a response. Other errors are returned as is.
func MapGormErrorToDomain(err error) error {
	for _, e := range storeErrors {
		if errors.Is(err, e.gorm) {
			return e.domain
		}
	}
	return err
}

// WrapError wraps a GORM operation and automatically maps errors.
//
// Usage:
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(user).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// ExpectAffected maps an update that touched no row to domain.ErrNotFound.
func ExpectAffected(tx *gorm.DB) error {
	if tx.Error != nil {
		return MapGormErrorToDomain(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
