package database

import (
	"github.com/amirasaad/backoffice/pkg/repository"
	"gorm.io/gorm"
)

// Paginate applies offset and limit from opts.
func Paginate(opts repository.ListOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		n := opts.Normalize()
		return db.Offset(n.Offset()).Limit(n.PageSize)
	}
}

// Active hides soft-deleted rows unless includeDeleted is set.
func Active(includeDeleted bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if includeDeleted {
			return db
		}
		return db.Where("is_deleted = ?", false)
	}
}
