package vkc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32SliceBytes(t *testing.T) {
	f := Float32Slice{0, 0.5, 1.0, 1.5}

	b := f.Bytes()
	require.Len(t, b, 16)
	assert.Equal(t, uint64(16), f.SizeInBytes())

	// 0.5 is 0x3f000000 little-endian
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x3f}, b[4:8])
}

func TestFloat32SliceRoundTrip(t *testing.T) {
	f := make(Float32Slice, 128)
	for i := range f {
		f[i] = float32(i) * 0.5
	}

	back := Float32sFromBytes(f.Bytes())
	require.Len(t, back, 128)
	for i := range f {
		assert.Equal(t, f[i], back[i])
	}
}

func TestFloat32SliceEmpty(t *testing.T) {
	assert.Nil(t, Float32Slice(nil).Bytes())
	assert.Nil(t, Float32sFromBytes(nil))
	assert.Nil(t, Float32sFromBytes([]byte{1, 2}))
}
