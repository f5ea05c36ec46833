package main

import (
	"github.com/chewxy/math32"
	"github.com/cockroachdb/errors"

	vkc "github.com/QUINTIX/vk-compute"
)

// verifyTolerance bounds the acceptable relative error per element. The
// doubling shader is exact in float32, but the tolerance keeps verification
// honest should the shader ever grow less trivial math.
const verifyTolerance = 1e-6

// inputValues produces the sample's input array: element i is i * 0.5.
func inputValues(count int) vkc.Float32Slice {
	floats := make(vkc.Float32Slice, count)
	for i := range floats {
		floats[i] = float32(i) * 0.5
	}
	return floats
}

// verifyDoubled checks that every output element is its input doubled,
// within tolerance, reporting the first mismatch.
func verifyDoubled(input, output vkc.Float32Slice) error {
	if len(output) != len(input) {
		return errors.Newf("output has %d elements, want %d", len(output), len(input))
	}

	for i := range input {
		want := input[i] * 2
		scale := math32.Max(1, math32.Abs(want))
		if math32.Abs(output[i]-want) > verifyTolerance*scale {
			return errors.Newf("output mismatch at element %d: got %v, want %v", i, output[i], want)
		}
	}
	return nil
}

// groupCount returns how many workgroups of the given size cover n elements.
func groupCount(n, workgroupSize int) int {
	return (n + workgroupSize - 1) / workgroupSize
}

// alignUp rounds n up to the next multiple of align.
func alignUp(n, align uint64) uint64 {
	return (n + align - 1) / align * align
}
