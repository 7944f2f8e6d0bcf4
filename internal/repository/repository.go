package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey detects unique-constraint violations across the supported
// drivers. Postgres reports gorm.ErrDuplicatedKey through the error
// translator; SQLite surfaces the constraint name in the message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique")
}

func totalPages(count int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(count) / pageSize
	if int(count)%pageSize != 0 {
		pages++
	}
	return pages
}
