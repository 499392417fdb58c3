// pkg/schema/errors.go
package schema

import "errors"

var (
	ErrTableNotFound        = errors.New("table not found")
	ErrColumnNotFound       = errors.New("column not found")
	ErrRowArityMismatch     = errors.New("row size does not match column count")
	ErrPredicateUnsupported = errors.New("predicate unsupported for selectivity estimation")
)
