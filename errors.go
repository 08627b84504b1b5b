package fieldtape

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fieldtape/internal/tape"
)

var (
	// ErrFieldNotFound is returned by Get when the name resolves to no
	// field. Remove on an absent name is a no-op, not an error.
	ErrFieldNotFound = errors.New("field not found")

	// ErrAllocationFailed is returned when the tape cannot grow, either
	// because the memory budget denied the reservation or the allocator
	// is exhausted. It is the only failure mode of Set.
	ErrAllocationFailed = errors.New("allocation failed")
)

// TypeMismatchError indicates a read whose type fingerprint disagrees
// with the stored one. Since fingerprints cover both the logical type and
// its byte width, this also guards against mismatched-width reads.
type TypeMismatchError struct {
	Field    string
	Expected uint64
	Actual   uint64
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch on field %q: expected fingerprint %#x, stored %#x", e.Field, e.Expected, e.Actual)
}

// InvalidHandleError indicates a handle outside the live row range.
// A stale handle that still lands inside the range cannot be detected;
// see the invalidation contract in the package documentation.
type InvalidHandleError struct {
	Handle Handle
	Rows   int
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid handle %d: registry has %d fields", e.Handle, e.Rows)
}

// translateError maps internal errors onto the public error surface.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, tape.ErrBudgetExceeded) {
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	return err
}
