package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownChemical rejects a consumption batch referencing a chemical
	// that is not in the inventory. The whole batch is refused.
	ErrUnknownChemical = errors.New("químico no encontrado")

	// ErrForbidden rejects a config mutation from a non-supervisor role.
	ErrForbidden = errors.New("acceso restringido a Supervisores")
)

// ValidationError reports a malformed or out-of-range field on a submitted
// record. Validation rejects the whole submitted unit, never partial writes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %s inválido: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
