package vkc

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSet is a binding of resources to a descriptor, per a specific
// DescriptorSetLayout
type DescriptorSet struct {
	Device               *Device
	DescriptorPool       *DescriptorPool
	VKDescriptorSet      vk.DescriptorSet
	VKWriteDescriptorSet []vk.WriteDescriptorSet
}

func (d *Device) NewDescriptorSet() *DescriptorSet {
	return &DescriptorSet{Device: d}
}

// AddBuffer adds a specific buffer to this descriptor set
func (du *DescriptorSet) AddBuffer(dstBinding int, dtype vk.DescriptorType, b *Buffer, offset int) {
	var writeDescriptorSet = vk.WriteDescriptorSet{}
	writeDescriptorSet.SType = vk.StructureTypeWriteDescriptorSet
	writeDescriptorSet.DstBinding = uint32(dstBinding)
	writeDescriptorSet.DescriptorCount = 1
	writeDescriptorSet.DescriptorType = dtype
	writeDescriptorSet.PBufferInfo = []vk.DescriptorBufferInfo{b.DSInfo(offset)}

	if du.VKWriteDescriptorSet == nil {
		du.VKWriteDescriptorSet = make([]vk.WriteDescriptorSet, 0)
	}
	du.VKWriteDescriptorSet = append(du.VKWriteDescriptorSet, writeDescriptorSet)
}

// AddStorageBuffer adds a storage buffer at the given binding, the common
// case for compute work.
func (du *DescriptorSet) AddStorageBuffer(dstBinding int, b *Buffer) {
	du.AddBuffer(dstBinding, vk.DescriptorTypeStorageBuffer, b, 0)
}

// Write flushes the accumulated buffer bindings to the descriptor set
func (du *DescriptorSet) Write() {
	for i := range du.VKWriteDescriptorSet {
		du.VKWriteDescriptorSet[i].DstSet = du.VKDescriptorSet
	}
	vk.UpdateDescriptorSets(du.Device.VKDevice, uint32(len(du.VKWriteDescriptorSet)), du.VKWriteDescriptorSet, 0, nil)
}
