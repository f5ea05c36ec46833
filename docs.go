/*
Package vkc implements a compute-only abstraction atop the Vulkan framework for go.
Vulkan exposes GPUs with very little abstraction, which makes it powerful and also
quite tedious: every object the driver hands back must be explicitly created, bound
and destroyed by the application, in the right order. This package wraps the subset
of Vulkan needed to run compute work - there is no windowing, swapchain or graphics
pipeline support here, on purpose.

The object hierarchy mirrors Vulkan's own:

	Instance	the vulkan runtime instance
	PhysicalDevice	the physical hardware device
	Device		the logical device, target of most creation calls
	Queue		a queue which work (command buffers) may be submitted to
	DeviceMemory	an allocation of memory on the host or device
	Buffer		a typed span of memory usable by shaders
	Pipeline	a compute shader plus its layout, ready to dispatch

A typical compute program looks like this: initialize the loader, create an
Instance, enumerate PhysicalDevices and pick one, find a queue family with the
compute bit, create a logical Device, allocate memory and buffers, describe the
buffers to the shader via descriptor sets, build a ComputePipeline from a SPIR-V
module, record a command buffer which binds the pipeline and dispatches, submit it
with a Fence, wait, and read the results back out of mapped memory.

Vulkan limits how many raw memory allocations an application may make, so rather
than allocating DeviceMemory per buffer, buffers should be carved out of larger
pools. The ResourceManager owns named BufferResourcePools backed by a single
DeviceMemory each, and a LinearAllocator hands out aligned offsets within a pool.

Teardown runs in reverse dependency order: command pool, pipeline, pipeline
layout, shader module, buffers, descriptor objects, memory, device, instance.
Every wrapper type exposes the underlying native handle in a VK prefixed field so
applications can always drop down to the raw API when this package gets in the way.
*/
package vkc
