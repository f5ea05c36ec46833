package vkc

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// PortabilitySubsetExtension must be enabled on devices which advertise it,
// which in practice means shimmed Vulkan implementations like MoltenVK.
const PortabilitySubsetExtension = "VK_KHR_portability_subset"

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

// DeviceType returns the device type reported by the driver (discrete,
// integrated, virtual, cpu or other).
func (p *PhysicalDevice) DeviceType() vk.PhysicalDeviceType {
	return p.VKPhysicalDeviceProperties.DeviceType
}

// APIVersion returns the Vulkan API version the device supports.
func (p *PhysicalDevice) APIVersion() Version {
	v := p.VKPhysicalDeviceProperties.ApiVersion
	return Version{
		Major: int(v >> 22),
		Minor: int((v >> 12) & 0x3ff),
		Patch: int(v & 0xfff),
	}
}

// QueueFamilies returns the queue families the device exposes
func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, nil
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}
		ret[i].VKQueueFamilyProperties.Deref()
	}

	return ret, nil
}

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// CreateLogicalDeviceWithOptions creates a logical device with one queue per
// supplied queue family, plus any requested extensions and layers.
func (p *PhysicalDevice) CreateLogicalDeviceWithOptions(qfs QueueFamilySlice, options *CreateDeviceOptions) (*Device, error) {

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(qfs))
	for j, q := range qfs {
		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(q.Index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	deviceFeatures := p.VKPhysicalDeviceFeatures()

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(qfs)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{deviceFeatures},
	}

	if options != nil {
		if options.EnabledExtensions != nil {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if options.EnabledLayers != nil {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var ldevice vk.Device

	err := vk.Error(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice))
	if err != nil {
		return nil, err
	}

	return &Device{PhysicalDevice: p, VKDevice: ldevice}, nil
}

// CreateLogicalDevice creates a logical device with one queue per supplied
// queue family and no extensions or layers.
func (p *PhysicalDevice) CreateLogicalDevice(qfs QueueFamilySlice) (*Device, error) {
	return p.CreateLogicalDeviceWithOptions(qfs, nil)
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var deviceFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &deviceFeatures)
	return deviceFeatures
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	return memoryProperties
}

// MemoryHeap describes one of the device's memory heaps.
type MemoryHeap struct {
	Index       int
	Size        uint64
	DeviceLocal bool
}

// MemoryHeaps returns the memory heaps the device exposes.
func (p *PhysicalDevice) MemoryHeaps() []MemoryHeap {
	mp := p.VKPhysicalDeviceMemoryProperties()
	mp.Deref()

	ret := make([]MemoryHeap, 0, mp.MemoryHeapCount)
	var i uint32
	for i = 0; i < mp.MemoryHeapCount; i++ {
		mh := mp.MemoryHeaps[i]
		mh.Deref()
		ret = append(ret, MemoryHeap{
			Index:       int(i),
			Size:        uint64(mh.Size),
			DeviceLocal: vk.MemoryHeapFlagBits(mh.Flags)&vk.MemoryHeapDeviceLocalBit != 0,
		})
	}
	return ret
}

// FindMemoryType locates a memory type which matches the requested type bits
// and has all of the requested property flags.
func (p *PhysicalDevice) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	memoryProperties := p.VKPhysicalDeviceMemoryProperties()
	mp := &memoryProperties
	mp.Deref()

	var i uint32
	for i = 0; i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		if memoryTypeBits&(1<<i) != 0 &&
			vk.MemoryPropertyFlagBits(mt.PropertyFlags)&properties == properties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no matching memory type found")
}

// FindMemoryTypeWithSize locates a memory type with all of the requested
// property flags whose backing heap is large enough for the desired
// allocation. No buffer is needed, so memory type bits are not consulted;
// this is the search to use when sizing a pool before any buffer exists.
func (p *PhysicalDevice) FindMemoryTypeWithSize(properties vk.MemoryPropertyFlagBits, sizeInBytes uint64) (uint32, error) {
	memoryProperties := p.VKPhysicalDeviceMemoryProperties()
	mp := &memoryProperties
	mp.Deref()

	var i uint32
	for i = 0; i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		if vk.MemoryPropertyFlagBits(mt.PropertyFlags)&properties != properties {
			continue
		}
		mh := mp.MemoryHeaps[mt.HeapIndex]
		mh.Deref()
		if uint64(mh.Size) >= sizeInBytes {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no memory type with properties %b can fit %d bytes", properties, sizeInBytes)
}

// SupportedExtensions lists the extensions the device supports
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil))
	if err != nil {
		return nil, err
	}

	ext := make([]vk.ExtensionProperties, count)
	err = vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, e := range ext {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}

// HasPortabilitySubset reports whether the device advertises
// VK_KHR_portability_subset. Vulkan requires that extension be enabled
// whenever the device advertises it.
func (p *PhysicalDevice) HasPortabilitySubset() (bool, error) {
	exts, err := p.SupportedExtensions()
	if err != nil {
		return false, err
	}
	for _, e := range exts {
		if e == PortabilitySubsetExtension {
			return true, nil
		}
	}
	return false, nil
}

// DeviceTypeString renders a vk.PhysicalDeviceType the way vulkaninfo does.
func DeviceTypeString(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}
