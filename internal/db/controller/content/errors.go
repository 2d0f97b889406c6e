package content

import (
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrContentNotFound is returned when no record has the requested id.
	ErrContentNotFound = errors.New("content not found")
	// ErrDuplicateName is returned when the name is already held by another record.
	ErrDuplicateName = errors.New("duplicate content name")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrStore is returned for any other failure of the record store.
	ErrStore = errors.New("content store failure")
)

// uniqueViolations are driver messages for a unique constraint violation,
// used when the dialector does not translate the error itself.
var uniqueViolations = []string{
	"UNIQUE constraint failed", // sqlite
	"Duplicate entry",          // mysql 1062
	"duplicate key value",      // postgres 23505
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, m := range uniqueViolations {
		if strings.Contains(msg, m) {
			return true
		}
	}

	return false
}

// translate maps store errors to the package errors. Unknown failures keep
// the driver message as context but are identified by ErrStore only.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrContentNotFound
	case isDuplicateKey(err):
		return ErrDuplicateName
	default:
		return pkgerrors.WithMessage(ErrStore, err.Error())
	}
}
