package datastore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/urlist/internal/common"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a bundle does not exist.
	ErrNotFound = fmt.Errorf("bundle %w", common.ErrNotFound)
	// ErrLinkNotFound is returned when a link does not exist in the bundle.
	ErrLinkNotFound = fmt.Errorf("link %w", common.ErrNotFound)
	// ErrVanityTaken is returned when the vanity URL already belongs to another bundle.
	ErrVanityTaken = errors.New("vanity URL already taken")
)

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
