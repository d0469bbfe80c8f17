package dieselcompute

import (
	vk "github.com/vulkan-go/vulkan"
)

// Symbols is the capability table of native entry points the recording layer
// is permitted to call. Implementations are read-only and safe to share
// between any number of command buffers.
//
// The production table is DriverSymbols, which forwards to the entry points
// resolved against the installed driver at vk.Init time. Tests substitute a
// stub that records call order and returns configurable results.
type Symbols interface {
	BeginCommandBuffer(cmd vk.CommandBuffer, info *vk.CommandBufferBeginInfo) vk.Result
	EndCommandBuffer(cmd vk.CommandBuffer) vk.Result
	ResetCommandBuffer(cmd vk.CommandBuffer, flags vk.CommandBufferResetFlags) vk.Result
	CmdCopyBuffer(cmd vk.CommandBuffer, src vk.Buffer, dst vk.Buffer, regions []vk.BufferCopy)
	CmdBindPipeline(cmd vk.CommandBuffer, bind_point vk.PipelineBindPoint, pipeline vk.Pipeline)
	CmdBindDescriptorSets(cmd vk.CommandBuffer, bind_point vk.PipelineBindPoint, layout vk.PipelineLayout,
		first_set uint32, sets []vk.DescriptorSet, dynamic_offsets []uint32)
	CmdResetQueryPool(cmd vk.CommandBuffer, pool vk.QueryPool, first_query uint32, query_count uint32)
	CmdWriteTimestamp(cmd vk.CommandBuffer, stage vk.PipelineStageFlagBits, pool vk.QueryPool, query uint32)
	CmdDispatch(cmd vk.CommandBuffer, x uint32, y uint32, z uint32)
}

// DriverSymbols forwards every capability to the loaded driver proc table.
// The zero value is ready to use once vk.Init has succeeded.
type DriverSymbols struct{}

func (DriverSymbols) BeginCommandBuffer(cmd vk.CommandBuffer, info *vk.CommandBufferBeginInfo) vk.Result {
	return vk.BeginCommandBuffer(cmd, info)
}

func (DriverSymbols) EndCommandBuffer(cmd vk.CommandBuffer) vk.Result {
	return vk.EndCommandBuffer(cmd)
}

func (DriverSymbols) ResetCommandBuffer(cmd vk.CommandBuffer, flags vk.CommandBufferResetFlags) vk.Result {
	return vk.ResetCommandBuffer(cmd, flags)
}

func (DriverSymbols) CmdCopyBuffer(cmd vk.CommandBuffer, src vk.Buffer, dst vk.Buffer, regions []vk.BufferCopy) {
	vk.CmdCopyBuffer(cmd, src, dst, uint32(len(regions)), regions)
}

func (DriverSymbols) CmdBindPipeline(cmd vk.CommandBuffer, bind_point vk.PipelineBindPoint, pipeline vk.Pipeline) {
	vk.CmdBindPipeline(cmd, bind_point, pipeline)
}

func (DriverSymbols) CmdBindDescriptorSets(cmd vk.CommandBuffer, bind_point vk.PipelineBindPoint,
	layout vk.PipelineLayout, first_set uint32, sets []vk.DescriptorSet, dynamic_offsets []uint32) {
	vk.CmdBindDescriptorSets(cmd, bind_point, layout, first_set, uint32(len(sets)), sets,
		uint32(len(dynamic_offsets)), dynamic_offsets)
}

func (DriverSymbols) CmdResetQueryPool(cmd vk.CommandBuffer, pool vk.QueryPool, first_query uint32, query_count uint32) {
	vk.CmdResetQueryPool(cmd, pool, first_query, query_count)
}

func (DriverSymbols) CmdWriteTimestamp(cmd vk.CommandBuffer, stage vk.PipelineStageFlagBits, pool vk.QueryPool, query uint32) {
	vk.CmdWriteTimestamp(cmd, stage, pool, query)
}

func (DriverSymbols) CmdDispatch(cmd vk.CommandBuffer, x uint32, y uint32, z uint32) {
	vk.CmdDispatch(cmd, x, y, z)
}
