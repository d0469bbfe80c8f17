package dieselcompute

import (
	vk "github.com/vulkan-go/vulkan"
)

// CorePipeline is a compiled compute pipeline plus the layout describing its
// descriptor set interface. The recording layer reads only the two accessors.
type CorePipeline struct {
	device   vk.Device
	pipeline vk.Pipeline
	layout   vk.PipelineLayout
}

// NewCorePipeline builds a compute pipeline from a SPIR-V module entry point
// and the descriptor set layouts the shader consumes.
func NewCorePipeline(device vk.Device, module vk.ShaderModule, entry string, set_layouts []vk.DescriptorSetLayout) (*CorePipeline, error) {
	var core CorePipeline
	core.device = device

	ret := vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(set_layouts)),
		PSetLayouts:    set_layouts,
	}, nil, &core.layout)
	if isError(ret) {
		return nil, NewError(ret)
	}

	stage := vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageComputeBit,
		Module: module,
		PName:  safeString(entry),
	}

	pipeline_info := vk.ComputePipelineCreateInfo{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Stage:  stage,
		Layout: core.layout,
	}

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret = vk.CreateComputePipelines(device, nil, 1,
		[]vk.ComputePipelineCreateInfo{pipeline_info}, nil, pipelines)
	if isError(ret) {
		vk.DestroyPipelineLayout(device, core.layout, nil)
		return nil, NewError(ret)
	}
	core.pipeline = pipelines[0]

	return &core, nil
}

// Pipeline returns the native compute pipeline handle.
func (p *CorePipeline) Pipeline() vk.Pipeline {
	return p.pipeline
}

// Layout returns the native pipeline layout handle.
func (p *CorePipeline) Layout() vk.PipelineLayout {
	return p.layout
}

func (p *CorePipeline) Destroy() {
	if p.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(p.device, p.pipeline, nil)
		p.pipeline = vk.NullPipeline
	}
	if p.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(p.device, p.layout, nil)
		p.layout = vk.NullPipelineLayout
	}
}
