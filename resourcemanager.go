package vkc

import (
	"fmt"
	"log/slog"

	vk "github.com/vulkan-go/vulkan"
)

const StagingPoolName = "staging"

var errInsufficientPoolSpace = fmt.Errorf("insufficient storage space in resource pool")

// BufferResourcePool is a named pool of buffers carved out of a single
// DeviceMemory allocation. Vulkan limits the number of raw memory
// allocations an application may make, so buffers should be sub-allocated
// from pools like this rather than allocated individually.
type BufferResourcePool struct {
	Device           *Device
	Name             string
	Usage            vk.BufferUsageFlagBits
	Sharing          vk.SharingMode
	MemoryProperties vk.MemoryPropertyFlagBits
	Size             uint64
	Allocator        IAllocator
	Memory           *DeviceMemory
	NeedsStaging     bool
	ResourceManager  *ResourceManager
}

// AllocateBuffer creates a buffer of the given size and usage and binds it to
// pool memory at an offset which satisfies the buffer's alignment.
func (p *BufferResourcePool) AllocateBuffer(size uint64, usage vk.BufferUsageFlagBits) (*BufferResource, error) {

	buffer, err := p.Device.CreateBufferWithOptions(size, vk.BufferUsageFlags(usage), p.Sharing)
	if err != nil {
		return nil, err
	}

	mr := buffer.VKMemoryRequirements()
	mr.Deref()

	allocation := p.Allocator.Allocate(uint64(mr.Size), uint64(mr.Alignment))
	if allocation == nil {
		buffer.Destroy()
		return nil, errInsufficientPoolSpace
	}

	if err := buffer.Bind(p.Memory, allocation.Offset); err != nil {
		p.Allocator.Free(allocation)
		buffer.Destroy()
		return nil, err
	}

	ret := &BufferResource{
		Allocation:   allocation,
		ResourcePool: p,
	}
	ret.VKBuffer = buffer.VKBuffer
	ret.Device = buffer.Device
	ret.Size = buffer.Size
	ret.Usage = usage

	allocation.Object = ret

	return ret, nil
}

func (p *BufferResourcePool) LogDetails() {
	slog.Debug("buffer pool", "name", p.Name, "size", p.Size)
	p.Allocator.LogDetails()
}

func (p *BufferResourcePool) Destroy() {
	if p.Allocator != nil {
		p.Allocator.DestroyContents()
		p.Allocator = nil
	}
	if p.Memory != nil {
		p.Memory.Destroy()
		p.Memory = nil
	}
	delete(p.ResourceManager.bufferPools, p.Name)
}

// ResourceManager tracks named buffer pools so that teardown can destroy
// everything still held, in pool order.
type ResourceManager struct {
	Device      *Device
	bufferPools map[string]*BufferResourcePool
}

func (d *Device) CreateResourceManager() *ResourceManager {
	return &ResourceManager{Device: d, bufferPools: make(map[string]*BufferResourcePool)}
}

func (r *ResourceManager) GetStagingPool() *BufferResourcePool {
	return r.bufferPools[StagingPoolName]
}

func (r *ResourceManager) HasStagingPool() bool {
	return r.bufferPools[StagingPoolName] != nil
}

// AllocateStagingPool creates the host-visible pool used to stage data into
// device-local pools.
func (r *ResourceManager) AllocateStagingPool(size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(StagingPoolName, size,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
		vk.BufferUsageTransferSrcBit, vk.SharingModeExclusive)
}

// AllocateHostComputePool creates a host-visible, host-coherent storage
// buffer pool, the kind a compute job reads back from without staging.
func (r *ResourceManager) AllocateHostComputePool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
		vk.BufferUsageStorageBufferBit, vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateBufferPoolWithOptions(name string, size uint64, mprops vk.MemoryPropertyFlagBits, usage vk.BufferUsageFlagBits, sharing vk.SharingMode) (*BufferResourcePool, error) {
	needsStaging := false

	//FIXME this could be smarter about detecting integrated devices to really see if staging is needed
	if mprops&vk.MemoryPropertyDeviceLocalBit == vk.MemoryPropertyDeviceLocalBit {
		needsStaging = true
	}

	p := &BufferResourcePool{
		Device:           r.Device,
		Name:             name,
		Usage:            usage,
		Sharing:          sharing,
		MemoryProperties: mprops,
		Size:             size,
		Allocator:        &LinearAllocator{Size: size},
		NeedsStaging:     needsStaging,
		ResourceManager:  r,
	}

	if needsStaging {
		usage |= vk.BufferUsageTransferDstBit
	}

	// A throwaway buffer of the pool's usage reveals which memory types the
	// pool allocation must come from.
	buffer, err := r.Device.CreateBufferWithOptions(size, vk.BufferUsageFlags(usage), sharing)
	if err != nil {
		return nil, err
	}
	defer buffer.Destroy()

	mr := buffer.VKMemoryRequirements()
	mr.Deref()

	memory, err := r.Device.Allocate(int(size), mr.MemoryTypeBits, mprops)
	if err != nil {
		return nil, err
	}
	p.Memory = memory

	r.bufferPools[name] = p

	return p, nil
}

func (r *ResourceManager) BufferPool(name string) *BufferResourcePool {
	return r.bufferPools[name]
}

func (r *ResourceManager) LogDetails() {
	for name, pool := range r.bufferPools {
		slog.Debug("resource manager pool", "name", name)
		pool.LogDetails()
	}
}

func (r *ResourceManager) Destroy() {
	for _, p := range r.bufferPools {
		p.Destroy()
	}
}
