// Package services holds the workflows behind the HTTP controllers. Every check-then-write
// sequence runs in one transaction with the deciding row locked.
package services

import (
	"errors"
	"strconv"
	"time"

	"careerlink/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// notFound maps gorm's missing-row error to a domain not-found for entity.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity)
	}
	return err
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
