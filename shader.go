package vkc

import (
	"fmt"
	"os"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

type ShaderModule struct {
	Device         *Device
	Description    string
	VKShaderModule vk.ShaderModule
}

// CreateShaderModule creates a shader module from SPIR-V bytes, typically
// embedded in the binary at build time via go:embed.
func (d *Device) CreateShaderModule(data []byte) (*ShaderModule, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V data must be a non-empty multiple of 4 bytes, got %d", len(data))
	}

	var module vk.ShaderModule
	err := vk.Error(vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(data)),
		PCode:    sliceUint32(data),
	}, nil, &module))
	if err != nil {
		return nil, err
	}

	return &ShaderModule{VKShaderModule: module, Device: d}, nil
}

// LoadShaderModuleFromFile creates a shader module from a SPIR-V file on disk
func (d *Device) LoadShaderModuleFromFile(file string) (*ShaderModule, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	s, err := d.CreateShaderModule(data)
	if err != nil {
		return nil, err
	}
	s.Description = file
	return s, nil
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	var shaderStageCreateInfo = vk.PipelineShaderStageCreateInfo{}
	shaderStageCreateInfo.SType = vk.StructureTypePipelineShaderStageCreateInfo
	shaderStageCreateInfo.Stage = stage
	shaderStageCreateInfo.Module = s.VKShaderModule
	shaderStageCreateInfo.PName = safeString(entryPoint)
	return shaderStageCreateInfo
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}

func sliceUint32(data []byte) []uint32 {
	const m = 0x7fffffff
	return (*[m / 4]uint32)(unsafe.Pointer(&data[0]))[: len(data)/4 : len(data)/4]
}
