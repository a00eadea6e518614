package repositories

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key a Storage.Transaction callback stores its
// *gorm.DB under so every repository sharing that ctx participates in the
// same transaction instead of opening its own connection.
type txKey struct{}

// conn resolves the *gorm.DB to use for a single call: the transactional
// handle stashed in ctx by GormStorage.Transaction if present, otherwise
// the repository's own pooled connection scoped to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
