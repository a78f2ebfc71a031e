package storage

import (
	"fmt"
	"regexp"
)

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// Words with at most one size suffix such as (20) or (10, 2), so a type
	// can never declare another column.
	typeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ ]*(\( *[+-]?[0-9]+ *(, *[+-]?[0-9]+ *)?\)[A-Za-z0-9_ ]*)?$`)
)

// validateIdentifier checks that name can be used as a table or column name.
func validateIdentifier(name string) error {
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// validateType checks a column type declaration such as "INTEGER",
// "VARCHAR(20)" or "INTEGER PRIMARY KEY". Empty means no declared type.
func validateType(typ string) error {
	if typ == "" {
		return nil
	}
	if !typeRe.MatchString(typ) {
		return fmt.Errorf("%w: invalid column type %q", ErrInvalidSchema, typ)
	}
	return nil
}

// quoteIdentifier quotes an already validated identifier.
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}
