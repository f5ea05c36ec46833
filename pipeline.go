package vkc

import (
	vk "github.com/vulkan-go/vulkan"
)

type ComputePipeline struct {
	Device                          *Device
	VKPipeline                      vk.Pipeline
	VKPipelineShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
	VKPipelineLayout                vk.PipelineLayout
}

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	var pipelineCacheCreate = vk.PipelineCacheCreateInfo{}
	pipelineCacheCreate.SType = vk.StructureTypePipelineCacheCreateInfo

	var pipelineCache vk.PipelineCache

	err := vk.Error(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache))
	if err != nil {
		return nil, err
	}

	return &PipelineCache{Device: d, VKPipelineCache: pipelineCache}, nil
}

func (p *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(p.Device.VKDevice, p.VKPipelineCache, nil)
}

func (c *ComputePipeline) SetPipelineLayout(layout *PipelineLayout) {
	c.VKPipelineLayout = layout.VKPipelineLayout
}

// SetShaderStage configures the compute stage of the pipeline from a shader
// module and the entry point within it, commonly "main".
func (c *ComputePipeline) SetShaderStage(entryPoint string, shaderModule *ShaderModule) {
	c.VKPipelineShaderStageCreateInfo = shaderModule.VKPipelineShaderStageCreateInfo(vk.ShaderStageComputeBit, entryPoint)
}

func (c *ComputePipeline) Destroy() {
	vk.DestroyPipeline(c.Device.VKDevice, c.VKPipeline, nil)
}

// CreateComputePipelines creates one or more compute pipelines in a single
// driver call, sharing the pipeline cache.
func (d *Device) CreateComputePipelines(pc *PipelineCache, cp ...*ComputePipeline) error {

	pipelines := make([]vk.Pipeline, len(cp))
	ci := make([]vk.ComputePipelineCreateInfo, len(cp))

	for i, p := range cp {
		ci[i] = vk.ComputePipelineCreateInfo{
			SType:  vk.StructureTypeComputePipelineCreateInfo,
			Stage:  p.VKPipelineShaderStageCreateInfo,
			Layout: p.VKPipelineLayout,
		}
	}

	err := vk.Error(vk.CreateComputePipelines(
		d.VKDevice, pc.VKPipelineCache,
		uint32(len(ci)), ci,
		nil, pipelines))
	if err != nil {
		return err
	}

	for i := range pipelines {
		cp[i].Device = d
		cp[i].VKPipeline = pipelines[i]
	}

	return nil
}
