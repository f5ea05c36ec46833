package vkc

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// BufferResource is a buffer which has been sub-allocated from a
// BufferResourcePool's device memory by the ResourceManager.
type BufferResource struct {
	Buffer
	Usage           vk.BufferUsageFlagBits
	ResourcePool    *BufferResourcePool
	Allocation      *Allocation
	StagingResource *BufferResource
}

// VKMappedMemoryRange is provided so that the buffer implements the
// MappedMemoryRange interface which can be used by device flush calls.
// Host-coherent pools never need flushing.
func (r *BufferResource) VKMappedMemoryRange() vk.MappedMemoryRange {
	return vk.MappedMemoryRange{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: r.ResourcePool.Memory.VKDeviceMemory,
		Offset: vk.DeviceSize(r.Allocation.Offset),
		Size:   vk.DeviceSize(r.Allocation.Size),
	}
}

// RequiresStaging indicates that this particular buffer resource must be
// staged before it can be used, which is primarily indicative that it is
// stored in device local memory.
func (r *BufferResource) RequiresStaging() bool {
	return r.ResourcePool.NeedsStaging
}

// AllocateStagingResource allocates a transfer-source buffer in the staging
// pool, sized for this resource. Once allocated it must be explicitly freed.
func (r *BufferResource) AllocateStagingResource() error {
	if !r.ResourcePool.NeedsStaging {
		return fmt.Errorf("resource does not require staging")
	}
	stagingPool := r.ResourcePool.ResourceManager.GetStagingPool()
	if stagingPool == nil {
		return fmt.Errorf("no pool named %q exists for staging resources, please ensure it has been created", StagingPoolName)
	}
	var err error
	r.StagingResource, err = stagingPool.AllocateBuffer(r.Buffer.Size, vk.BufferUsageTransferSrcBit)
	return err
}

// FreeStagingResource frees the staging resource associated with this
// resource
func (r *BufferResource) FreeStagingResource() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
}

// CmdCopyBufferFromStagedResource records a copy of the resource's staging
// buffer into the resource itself
func (c *CommandBuffer) CmdCopyBufferFromStagedResource(resource *BufferResource) {
	vk.CmdCopyBuffer(c.VK(), resource.StagingResource.Buffer.VKBuffer, resource.Buffer.VKBuffer, 1, []vk.BufferCopy{
		{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      vk.DeviceSize(resource.Allocation.Size),
		},
	})
}

// Bytes returns a byte slice over this resource's span of the pool's mapped
// memory, which can be read from or copied to. The pool memory must be
// mapped and host visible, otherwise nil is returned.
func (r *BufferResource) Bytes() []byte {
	if r.RequiresStaging() {
		return nil
	}
	if r.ResourcePool.Memory.Ptr == nil {
		return nil
	}

	const m = 0x7fffffff
	s := r.Allocation.Offset
	e := r.Allocation.Offset + r.Allocation.Size

	return (*[m]byte)(r.ResourcePool.Memory.Ptr)[s:e]
}

func (r *BufferResource) Destroy() {
	r.Free()
}

// Free this resource and its associated resources
func (r *BufferResource) Free() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
	if r.Allocation != nil {
		r.ResourcePool.Allocator.Free(r.Allocation)
		r.Allocation = nil
	}
	if r.Buffer.VKBuffer != vk.NullBuffer {
		r.Buffer.Destroy()
		r.Buffer.VKBuffer = vk.NullBuffer
	}
}
