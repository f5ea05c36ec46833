package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vkc "github.com/QUINTIX/vk-compute"
)

func TestInputValues(t *testing.T) {
	in := inputValues(defaultNumFloats)
	require.Len(t, in, defaultNumFloats)

	assert.Equal(t, float32(0), in[0])
	assert.Equal(t, float32(0.5), in[1])
	assert.Equal(t, float32(50), in[100])
	assert.Equal(t, float32(8191.5), in[defaultNumFloats-1])
}

func TestVerifyDoubled(t *testing.T) {
	in := inputValues(1024)

	out := make(vkc.Float32Slice, len(in))
	for i := range in {
		out[i] = in[i] * 2
	}

	require.NoError(t, verifyDoubled(in, out))
}

func TestVerifyDoubledMismatch(t *testing.T) {
	in := inputValues(64)

	out := make(vkc.Float32Slice, len(in))
	for i := range in {
		out[i] = in[i] * 2
	}
	out[17] = 3.25

	err := verifyDoubled(in, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 17")
}

func TestVerifyDoubledLengthMismatch(t *testing.T) {
	in := inputValues(16)
	err := verifyDoubled(in, in[:8])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "8 elements")
}

func TestVerifyDoubledTolerance(t *testing.T) {
	in := vkc.Float32Slice{1000}
	out := vkc.Float32Slice{2000.0009}

	// within relative tolerance of the expected magnitude
	assert.NoError(t, verifyDoubled(in, out))

	out[0] = 2000.5
	assert.Error(t, verifyDoubled(in, out))
}

func TestGroupCount(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{16384, 256, 64},
		{1, 256, 1},
		{256, 256, 1},
		{257, 256, 2},
		{1000, 256, 4},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, groupCount(tc.n, tc.size), "groupCount(%d, %d)", tc.n, tc.size)
	}
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), alignUp(0, 256))
	assert.Equal(t, uint64(256), alignUp(1, 256))
	assert.Equal(t, uint64(65536), alignUp(65536, 256))
	assert.Equal(t, uint64(4096), alignUp(4000, 256))
}
