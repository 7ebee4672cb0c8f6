package repositories

import (
	"errors"
	"strings"

	"blog/app/models"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err came from a unique index. Translated
// gorm errors are checked first; driver messages cover connections opened
// without TranslateError.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// translate maps storage errors onto the model sentinels. dup is returned for
// unique violations and may be nil when the caller has no unique columns.
func translate(err error, dup error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case dup != nil && isUniqueViolation(err):
		return dup
	default:
		return err
	}
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL foreign key violation SQLSTATE 23503
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, "23503")
}
