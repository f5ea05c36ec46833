package vkc

import (
	vk "github.com/vulkan-go/vulkan"
)

// Buffer describes a span of memory usable by pipelines. For compute work
// these are nearly always storage buffers.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
}

// CreateStorageBuffer creates an exclusive-sharing storage buffer, the
// default for compute shader inputs and outputs.
func (d *Device) CreateStorageBuffer(sizeInBytes uint64) (*Buffer, error) {
	return d.CreateBufferWithOptions(sizeInBytes, vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit), vk.SharingModeExclusive)
}

func (d *Device) CreateBufferWithOptions(sizeInBytes uint64, usage vk.BufferUsageFlags, sharing vk.SharingMode) (*Buffer, error) {

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(sizeInBytes),
		Usage:       usage,
		SharingMode: sharing,
	}

	var buffer vk.Buffer
	err := vk.Error(vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer))
	if err != nil {
		return nil, err
	}

	return &Buffer{
		VKBuffer: buffer,
		Device:   d,
		Size:     sizeInBytes,
	}, nil
}

func (b *Buffer) VKMemoryRequirements() vk.MemoryRequirements {
	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &memoryRequirements)
	return memoryRequirements
}

// DSInfo describes this buffer for use in a descriptor set write
func (b *Buffer) DSInfo(offset int) vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: b.VKBuffer,
		Offset: vk.DeviceSize(offset),
		Range:  vk.DeviceSize(b.Size),
	}
}

func (b *Buffer) AllocationRequirements() *AllocationRequirements {
	memoryRequirements := b.VKMemoryRequirements()
	mr := &memoryRequirements
	mr.Deref()

	return &AllocationRequirements{
		Size:           int(mr.Size),
		MemoryTypeBits: mr.MemoryTypeBits,
	}
}

// Bind binds this buffer to device memory at the given offset
func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	return vk.Error(vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset)))
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}
