package vkc

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

func (d *Device) WaitIdle() {
	vk.DeviceWaitIdle(d.VKDevice)
}

// GetQueue retrieves the first queue of the given family from the device
func (d *Device) GetQueue(qf *QueueFamily) *Queue {
	var vkq vk.Queue

	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &vkq)

	return &Queue{QueueFamily: qf, Device: d, VKQueue: vkq}
}

type AllocationRequirements struct {
	Size           int
	MemoryTypeBits uint32
}

// AllocateForBuffer allocates device memory sized and typed for the buffer
func (d *Device) AllocateForBuffer(b *Buffer, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {
	ar := b.AllocationRequirements()
	return d.Allocate(ar.Size, ar.MemoryTypeBits, memoryProperties)
}

// Allocate allocates raw device memory of a type matching the given type bits
// and property flags. Applications should prefer pool based allocation via the
// ResourceManager since Vulkan caps the number of raw allocations.
func (d *Device) Allocate(sizeInBytes int, memoryTypeBits uint32, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {

	var allocateInfo = vk.MemoryAllocateInfo{}
	allocateInfo.SType = vk.StructureTypeMemoryAllocateInfo
	allocateInfo.AllocationSize = vk.DeviceSize(sizeInBytes)

	var err error
	allocateInfo.MemoryTypeIndex, err = d.PhysicalDevice.FindMemoryType(memoryTypeBits, memoryProperties)
	if err != nil {
		return nil, err
	}

	var deviceMemory vk.DeviceMemory

	err = vk.Error(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory))
	if err != nil {
		return nil, err
	}

	return &DeviceMemory{
		Size:           uint64(sizeInBytes),
		Device:         d,
		VKDeviceMemory: deviceMemory,
	}, nil
}

// AllocateWithType allocates raw device memory from an explicit memory type
// index, as found by FindMemoryTypeWithSize.
func (d *Device) AllocateWithType(sizeInBytes int, memoryTypeIndex uint32) (*DeviceMemory, error) {
	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(sizeInBytes),
		MemoryTypeIndex: memoryTypeIndex,
	}

	var deviceMemory vk.DeviceMemory

	err := vk.Error(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory))
	if err != nil {
		return nil, err
	}

	return &DeviceMemory{
		Size:           uint64(sizeInBytes),
		Device:         d,
		VKDeviceMemory: deviceMemory,
	}, nil
}
