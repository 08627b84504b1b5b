package fieldtape

import (
	"fmt"
	"time"

	"github.com/hupe1980/fieldtape/internal/hash"
	"github.com/hupe1980/fieldtape/internal/index"
	"github.com/hupe1980/fieldtape/internal/resource"
	"github.com/hupe1980/fieldtape/internal/tape"
)

// Registry is the record store: one contiguous tape of value bytes plus a
// structure-of-arrays field index describing it. It manages exactly one
// record's fields; collections of records are the caller's concern.
//
// Invariant: the tape length equals the sum of all field lengths, and the
// field ranges partition the tape with no gaps or overlaps.
type Registry struct {
	tape *tape.Tape
	idx  *index.Index

	logger  *Logger
	metrics MetricsCollector
	ctrl    *resource.Controller
}

// New creates an empty registry. New never allocates tape memory; the
// first Set does, which is also where a memory budget denial surfaces.
func New(optFns ...Option) *Registry {
	o := applyOptions(optFns)
	return &Registry{
		tape:    tape.New(o.initialCapacity, o.controller),
		idx:     index.New(o.expectedFields),
		logger:  o.logger,
		metrics: o.metricsCollector,
		ctrl:    o.controller,
	}
}

// Set stores value under name with the given type.
//
// Three cases, in order:
//   - name exists and the byte length is unchanged: the tape bytes are
//     overwritten in place and the type fingerprint updated. No offsets
//     move, no other field's bytes change (the golden path).
//   - name exists with a different byte length: the field is removed
//     (with tape compaction and offset relocation) and re-appended, which
//     invalidates handles per the Handle contract.
//   - name is new: value is appended to the tape and a row inserted.
//
// The only failure mode is ErrAllocationFailed when the tape cannot grow;
// a failed Set leaves the registry unchanged.
func (r *Registry) Set(name string, value []byte, typ Type) error {
	start := time.Now()
	err := r.set(name, value, typ)
	r.metrics.RecordSet(len(value), time.Since(start), err)
	r.logger.LogSet(name, len(value), err)
	return err
}

func (r *Registry) set(name string, value []byte, typ Type) error {
	nameFP := hash.Fingerprint64(name)
	typeFP := typ.Fingerprint()

	if row, ok := r.idx.Find(name, nameFP); ok {
		if uint64(len(value)) == r.idx.Length(row) {
			r.tape.WriteAt(r.idx.Offset(row), value)
			r.idx.SetTypeFP(row, typeFP)
			return nil
		}
		// Size changed: remove-then-append. Capacity is reserved before
		// the hole is carved so a budget denial cannot half-apply the
		// update.
		if err := r.tape.Grow(len(value)); err != nil {
			return translateError(err)
		}
		r.removeRow(row)
	}

	off, err := r.tape.Append(value)
	if err != nil {
		return translateError(err)
	}
	r.idx.Insert(name, nameFP, off, uint64(len(value)), typeFP)
	return nil
}

// Get returns a read-only view of name's bytes after checking the type
// fingerprint. The view is valid only until the next Set or Remove on
// this registry. A failed Get leaves the registry untouched.
func (r *Registry) Get(name string, typ Type) ([]byte, error) {
	start := time.Now()
	b, err := r.get(name, typ)
	r.metrics.RecordGet(time.Since(start), err)
	return b, err
}

func (r *Registry) get(name string, typ Type) ([]byte, error) {
	row, ok := r.idx.Find(name, hash.Fingerprint64(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	return r.fieldAt(row, typ)
}

// GetByHandle is Get without the name lookup. The handle must be fresh
// per the Handle invalidation contract; out-of-range handles are rejected
// with InvalidHandleError rather than reading undefined rows.
func (r *Registry) GetByHandle(h Handle, typ Type) ([]byte, error) {
	start := time.Now()
	b, err := r.getByHandle(h, typ)
	r.metrics.RecordGet(time.Since(start), err)
	return b, err
}

func (r *Registry) getByHandle(h Handle, typ Type) ([]byte, error) {
	if h < 0 || int(h) >= r.idx.Rows() {
		return nil, &InvalidHandleError{Handle: h, Rows: r.idx.Rows()}
	}
	return r.fieldAt(int(h), typ)
}

func (r *Registry) fieldAt(row int, typ Type) ([]byte, error) {
	if fp := typ.Fingerprint(); fp != r.idx.TypeFP(row) {
		return nil, &TypeMismatchError{
			Field:    r.idx.Name(row),
			Expected: fp,
			Actual:   r.idx.TypeFP(row),
		}
	}
	return r.tape.View(r.idx.Offset(row), r.idx.Length(row)), nil
}

// Handle resolves name to a row handle for O(1) re-access.
func (r *Registry) Handle(name string) (Handle, bool) {
	row, ok := r.idx.Find(name, hash.Fingerprint64(name))
	if !ok {
		return 0, false
	}
	return Handle(row), true
}

// Remove deletes name's field, compacting the tape and relocating every
// following offset. It reports whether a field was removed; removing an
// absent name is an idempotent no-op, not an error.
func (r *Registry) Remove(name string) bool {
	start := time.Now()
	row, ok := r.idx.Find(name, hash.Fingerprint64(name))
	if !ok {
		return false
	}
	moved := r.removeRow(row)
	r.metrics.RecordRemove(moved, time.Since(start))
	r.logger.LogRemove(name, moved)
	return true
}

// removeRow carves the row's byte range out of the tape and drops the
// row. Relocation runs before the row removal so it still sees the full
// row set; relocating the doomed row is harmless since it is dropped
// immediately after.
func (r *Registry) removeRow(row int) int {
	off := r.idx.Offset(row)
	length := r.idx.Length(row)
	moved := int(r.tape.Len() - (off + length))

	r.tape.Compact(off, length)
	r.idx.Relocate(off, length)
	r.idx.Remove(row)
	return moved
}

// Len returns the live field count.
func (r *Registry) Len() int {
	return r.idx.Rows()
}

// TapeLen returns the tape's logical length in bytes, which always
// equals the sum of all field lengths.
func (r *Registry) TapeLen() uint64 {
	return r.tape.Len()
}

// Fields returns the field names in row order. Row order reflects
// insertion and swap-compaction history, not tape order.
func (r *Registry) Fields() []string {
	return r.idx.Names()
}

// Blit returns a copy of the live tape [0, TapeLen()). By construction it
// is a complete flat encoding of the record's current values; the schema
// needed to decode it travels separately (see WriteBlit).
func (r *Registry) Blit() []byte {
	return append([]byte(nil), r.tape.Bytes()...)
}

// Reset drops all fields, keeping reserved capacity.
func (r *Registry) Reset() {
	r.tape.Reset()
	r.idx.Reset()
}

// Close releases the tape's memory reservation back to the controller.
// The registry is empty but reusable afterwards.
func (r *Registry) Close() {
	r.idx.Reset()
	r.tape.Release()
}
