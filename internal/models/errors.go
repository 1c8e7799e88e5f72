package models

import (
	"errors"
	"fmt"
	"strings"
)

// Custom errors
var (
	ErrMissingColumn = errors.New("missing column")
	ErrNotFound      = errors.New("record not found")
	ErrUnknownProp   = errors.New("unknown prop")
)

// MissingColumnError reports a semantic field that could not be resolved
// from any of its accepted column names.
type MissingColumnError struct {
	Field     string
	Tried     []string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("could not find a %s column: tried [%s]; available columns: [%s]",
		e.Field, strings.Join(e.Tried, ", "), strings.Join(e.Available, ", "))
}

// Unwrap lets errors.Is match ErrMissingColumn.
func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}
