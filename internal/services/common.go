package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	newestFirst          = "created_at DESC, id DESC"
	newestCommentsFirst  = "timestamp DESC, id DESC"
	likeEscapeExpression = "ESCAPE '\\'"
)

// isUniqueViolation recognizes duplicate-key failures from drivers that do and
// do not implement gorm's error translation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// isForeignKeyViolation recognizes an insert or update whose parent row is
// gone, typically deleted after the existence check.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// likePattern builds a case-insensitive substring pattern, escaping LIKE
// wildcards in the user's query.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// ilike renders "LOWER(col) LIKE ? ESCAPE '\'"
func ilike(column string) string {
	return "LOWER(" + column + ") LIKE ? " + likeEscapeExpression
}

func exists(db *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
