package main

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/spf13/cobra"
	vk "github.com/vulkan-go/vulkan"

	vkc "github.com/QUINTIX/vk-compute"
)

const (
	// defaultNumFloats matches the original sample's fixed workload.
	defaultNumFloats = 16384
	numBuffers       = 2

	// workgroupSize must match local_size_x in shaders/double.comp.
	workgroupSize = 256

	shaderEntryPoint = "main"

	submitTimeout = 10 * time.Second
)

var (
	configPath string
	numFloats  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Upload floats, dispatch the compute shader and verify the output",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := vkc.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if numFloats <= 0 {
			return errors.Newf("count must be positive, got %d", numFloats)
		}
		return runCompute(cfg, numFloats)
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML config file")
	runCmd.Flags().IntVar(&numFloats, "count", defaultNumFloats, "number of float32 elements to process")
	rootCmd.AddCommand(runCmd)
}

func runCompute(cfg *vkc.Config, count int) error {
	if err := vkc.InitializeForComputeOnly(); err != nil {
		return errors.Wrap(err, "vulkan initialization failed")
	}

	app := vkc.App{
		Name:       "vkfc",
		EngineName: "No Engine",
		Version:    vkc.Version{Major: 1, Minor: 0, Patch: 0},
		APIVersion: vkc.Version{Major: 1, Minor: 1, Patch: 0},
	}

	if cfg.Vulkan.Validation {
		if err := app.EnableValidation(); err != nil {
			return errors.Wrap(err, "validation requested but not available, install the LunarG Vulkan SDK")
		}
	}
	slog.Debug("validation layer", "enabled", cfg.Vulkan.Validation)

	instance, err := app.CreateInstance()
	if err != nil {
		return errors.Wrap(err, "failed to create instance")
	}
	defer instance.Destroy()

	if cfg.Vulkan.Validation {
		if err := instance.UseDefaultDebugCallback(); err != nil {
			return errors.Wrap(err, "failed to install debug callback")
		}
	}

	pdevices, err := instance.PhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "failed to enumerate physical devices")
	}

	pdevice, err := cfg.Device.SelectPhysicalDevice(pdevices)
	if err != nil {
		return err
	}
	slog.Info("selected device",
		"name", pdevice.DeviceName,
		"type", vkc.DeviceTypeString(pdevice.DeviceType()))

	queues, err := pdevice.QueueFamilies()
	if err != nil {
		return errors.Wrap(err, "failed to enumerate queue families")
	}
	qf, err := queues.FirstCompute()
	if err != nil {
		return err
	}
	slog.Debug("compute queue family", "index", qf.Index)

	opts := &vkc.CreateDeviceOptions{}
	portability, err := pdevice.HasPortabilitySubset()
	if err != nil {
		return errors.Wrap(err, "failed to enumerate device extensions")
	}
	if portability {
		// required for shimmed Vulkan implementations like MoltenVK
		opts.EnabledExtensions = []string{vkc.PortabilitySubsetExtension}
	}

	ldevice, err := pdevice.CreateLogicalDeviceWithOptions(vkc.QueueFamilySlice{qf}, opts)
	if err != nil {
		return errors.Wrap(err, "failed to create logical device")
	}
	defer ldevice.Destroy()

	queue := ldevice.GetQueue(qf)

	input := inputValues(count)

	// Buffers are padded to the span the dispatched workgroups cover, so
	// tail invocations of a partial workgroup stay in bounds. Only the
	// first count elements are uploaded and verified.
	span := alignUp(input.SizeInBytes(), workgroupSize*4)
	poolSize := numBuffers * span

	memoryIndex, err := pdevice.FindMemoryTypeWithSize(
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, poolSize)
	if err != nil {
		return errors.Wrapf(err, "device cannot host %d bytes of coherent memory", poolSize)
	}
	slog.Debug("memory type", "index", memoryIndex, "poolSize", poolSize)

	rm := ldevice.CreateResourceManager()
	defer rm.Destroy()

	pool, err := rm.AllocateHostComputePool("compute", poolSize)
	if err != nil {
		return errors.Wrap(err, "failed to allocate compute pool")
	}

	inBuf, err := pool.AllocateBuffer(span, vk.BufferUsageStorageBufferBit)
	if err != nil {
		return errors.Wrap(err, "failed to allocate input buffer")
	}
	defer inBuf.Free()

	outBuf, err := pool.AllocateBuffer(span, vk.BufferUsageStorageBufferBit)
	if err != nil {
		return errors.Wrap(err, "failed to allocate output buffer")
	}
	defer outBuf.Free()

	if err := pool.Memory.CopyAtOffset(inBuf.Allocation.Offset, input.Bytes()); err != nil {
		return errors.Wrap(err, "failed to upload input data")
	}

	dsl := ldevice.NewDescriptorSetLayout()
	dsl.AddStorageBufferBinding(0)
	dsl.AddStorageBufferBinding(1)
	if _, err := ldevice.CreateDescriptorSetLayout(dsl); err != nil {
		return errors.Wrap(err, "failed to create descriptor set layout")
	}
	defer dsl.Destroy()

	dpool := ldevice.NewDescriptorPool()
	dpool.AddPoolSize(vk.DescriptorTypeStorageBuffer, numBuffers)
	if _, err := ldevice.CreateDescriptorPool(dpool, 1); err != nil {
		return errors.Wrap(err, "failed to create descriptor pool")
	}
	defer dpool.Destroy()

	dset, err := dpool.Allocate(dsl)
	if err != nil {
		return errors.Wrap(err, "failed to allocate descriptor set")
	}
	defer dpool.Free(dset)

	dset.AddStorageBuffer(0, &inBuf.Buffer)
	dset.AddStorageBuffer(1, &outBuf.Buffer)
	dset.Write()

	shader, err := ldevice.CreateShaderModule(doubleShader)
	if err != nil {
		return errors.Wrap(err, "failed to create shader module")
	}
	defer shader.Destroy()

	pipelineLayout, err := ldevice.CreatePipelineLayout(dsl)
	if err != nil {
		return errors.Wrap(err, "failed to create pipeline layout")
	}
	defer pipelineLayout.Destroy()

	cache, err := ldevice.CreatePipelineCache()
	if err != nil {
		return errors.Wrap(err, "failed to create pipeline cache")
	}
	defer cache.Destroy()

	pipeline := &vkc.ComputePipeline{}
	pipeline.SetShaderStage(shaderEntryPoint, shader)
	pipeline.SetPipelineLayout(pipelineLayout)
	if err := ldevice.CreateComputePipelines(cache, pipeline); err != nil {
		return errors.Wrap(err, "failed to create compute pipeline")
	}
	defer pipeline.Destroy()

	cpool, err := ldevice.CreateCommandPool(qf)
	if err != nil {
		return errors.Wrap(err, "failed to create command pool")
	}
	defer cpool.Destroy()

	cb, err := cpool.AllocateBuffer()
	if err != nil {
		return errors.Wrap(err, "failed to allocate command buffer")
	}
	defer cpool.FreeBuffer(cb)

	if err := cb.BeginOneTime(); err != nil {
		return errors.Wrap(err, "failed to begin command buffer")
	}
	cb.CmdBindComputePipeline(pipeline)
	cb.CmdBindDescriptorSets(vk.PipelineBindPointCompute, pipelineLayout, 0, dset)
	cb.CmdDispatch(groupCount(count, workgroupSize), 1, 1)
	if err := cb.End(); err != nil {
		return errors.Wrap(err, "failed to end command buffer")
	}

	fence, err := ldevice.CreateFence()
	if err != nil {
		return errors.Wrap(err, "failed to create fence")
	}
	defer fence.Destroy()

	start := hrtime.Now()
	if err := queue.SubmitWithFence(fence, cb); err != nil {
		return errors.Wrap(err, "failed to submit command buffer")
	}
	if err := ldevice.WaitForFences(true, submitTimeout, fence); err != nil {
		return errors.Wrap(err, "timed out waiting for compute dispatch")
	}
	elapsed := hrtime.Since(start)

	if _, err := pool.Memory.Map(); err != nil {
		return errors.Wrap(err, "failed to map pool memory")
	}
	defer pool.Memory.Unmap()

	output := vkc.Float32sFromBytes(outBuf.Bytes())
	if len(output) < count {
		return errors.Newf("mapped output holds %d elements, want at least %d", len(output), count)
	}
	if err := verifyDoubled(input, output[:count]); err != nil {
		return err
	}

	slog.Info("output verified", "elements", count, "dispatch", elapsed)
	return nil
}
