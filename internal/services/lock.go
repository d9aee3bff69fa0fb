package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rowLock adds FOR UPDATE where the dialect supports it. sqlite has no
// row locks but allows only one writer at a time, so the transaction
// alone gives the same per-entity exclusion there.
func rowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
