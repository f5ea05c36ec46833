package vkc

import (
	"unsafe"
)

// Float32Slice adapts a []float32 for copying into and out of GPU visible
// memory.
type Float32Slice []float32

// Bytes returns a view of the slice's backing array as bytes, suitable for
// DeviceMemory.MapCopyUnmap and friends. The view aliases the slice.
func (f Float32Slice) Bytes() []byte {
	if len(f) == 0 {
		return nil
	}
	size := len(f) * int(unsafe.Sizeof(float32(0)))
	return ToBytes(unsafe.Pointer(&f[0]), size)
}

// SizeInBytes returns the number of bytes the slice occupies on the device.
func (f Float32Slice) SizeInBytes() uint64 {
	return uint64(len(f)) * uint64(unsafe.Sizeof(float32(0)))
}

// Float32sFromBytes reinterprets mapped memory as float32 values. The result
// aliases data, so it is only valid while the memory stays mapped; copy it
// out before unmapping.
func Float32sFromBytes(data []byte) Float32Slice {
	if len(data) < 4 {
		return nil
	}
	const m = 0x7fffffff
	n := len(data) / 4
	return (*[m / 4]float32)(unsafe.Pointer(&data[0]))[:n:n]
}
