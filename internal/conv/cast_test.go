package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint32(t *testing.T) {
	v, err := IntToUint32(math.MaxUint32)
	assert.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), v)

	_, err = IntToUint32(-1)
	assert.Error(t, err)

	_, err = IntToUint32(math.MaxUint32 + 1)
	assert.Error(t, err)
}

func TestIntToUint16(t *testing.T) {
	v, err := IntToUint16(math.MaxUint16)
	assert.NoError(t, err)
	assert.Equal(t, uint16(math.MaxUint16), v)

	_, err = IntToUint16(-1)
	assert.Error(t, err)

	_, err = IntToUint16(math.MaxUint16 + 1)
	assert.Error(t, err)
}
