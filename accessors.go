package fieldtape

import (
	"encoding/binary"
	"math"
)

// Fixed-width convenience accessors. Values are encoded little-endian
// into small stack buffers; each pair round-trips through Set/Get with
// the matching predeclared Type, so a Get with the wrong accessor fails
// the fingerprint check instead of misreading widths.

// SetBool stores v under name as a single byte (0 or 1).
func (r *Registry) SetBool(name string, v bool) error {
	b := [1]byte{0}
	if v {
		b[0] = 1
	}
	return r.Set(name, b[:], TypeBool)
}

// GetBool reads a bool field.
func (r *Registry) GetBool(name string) (bool, error) {
	b, err := r.Get(name, TypeBool)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// SetUint16 stores v under name.
func (r *Registry) SetUint16(name string, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return r.Set(name, b[:], TypeUint16)
}

// GetUint16 reads a uint16 field.
func (r *Registry) GetUint16(name string) (uint16, error) {
	b, err := r.Get(name, TypeUint16)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// SetInt32 stores v under name.
func (r *Registry) SetInt32(name string, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return r.Set(name, b[:], TypeInt32)
}

// GetInt32 reads an int32 field.
func (r *Registry) GetInt32(name string) (int32, error) {
	b, err := r.Get(name, TypeInt32)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// SetInt64 stores v under name.
func (r *Registry) SetInt64(name string, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return r.Set(name, b[:], TypeInt64)
}

// GetInt64 reads an int64 field.
func (r *Registry) GetInt64(name string) (int64, error) {
	b, err := r.Get(name, TypeInt64)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// SetUint64 stores v under name.
func (r *Registry) SetUint64(name string, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return r.Set(name, b[:], TypeUint64)
}

// GetUint64 reads a uint64 field.
func (r *Registry) GetUint64(name string) (uint64, error) {
	b, err := r.Get(name, TypeUint64)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// SetFloat32 stores v under name.
func (r *Registry) SetFloat32(name string, v float32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return r.Set(name, b[:], TypeFloat32)
}

// GetFloat32 reads a float32 field.
func (r *Registry) GetFloat32(name string) (float32, error) {
	b, err := r.Get(name, TypeFloat32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// SetFloat64 stores v under name.
func (r *Registry) SetFloat64(name string, v float64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return r.Set(name, b[:], TypeFloat64)
}

// GetFloat64 reads a float64 field.
func (r *Registry) GetFloat64(name string) (float64, error) {
	b, err := r.Get(name, TypeFloat64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// SetString stores v under name as a dynamic-width field. Setting a
// string of a different length is a size-changing update and follows the
// remove-then-append path.
func (r *Registry) SetString(name, v string) error {
	return r.Set(name, []byte(v), TypeString)
}

// GetString reads a string field. The returned string is a copy and
// stays valid across later mutations.
func (r *Registry) GetString(name string) (string, error) {
	b, err := r.Get(name, TypeString)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SetBytes stores v under name as a dynamic-width field.
func (r *Registry) SetBytes(name string, v []byte) error {
	return r.Set(name, v, TypeBytes)
}

// GetBytes reads a bytes field. The returned slice is a view into the
// tape, valid only until the next mutation.
func (r *Registry) GetBytes(name string) ([]byte, error) {
	return r.Get(name, TypeBytes)
}
