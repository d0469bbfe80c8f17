package dieselcompute

import (
	vk "github.com/vulkan-go/vulkan"
)

// CoreCommandBuffer administers one pre-allocated native command buffer for
// compute micro-benchmarking loops. It owns neither the native handle (the
// buffer comes from a CorePool and stays alive after the wrapper is dropped)
// nor the capability table it records through.
//
// The native driver tracks the Initial/Recording/Executable state machine;
// this layer does no local validation of it. Recording calls are valid only
// between a successful Begin and the matching End, and a given instance must
// be driven by a single goroutine at a time.
type CoreCommandBuffer struct {
	command_buffer vk.CommandBuffer
	device         vk.Device
	symbols        Symbols
}

// BoundDescriptorSet pairs a descriptor set handle with the layout slot it is
// bound at. Callers supply an ordered sequence; duplicate indices are not
// rejected here, each entry is applied as an independent bind in call order.
type BoundDescriptorSet struct {
	Index uint32
	Set   vk.DescriptorSet
}

// NewCoreCommandBuffer wraps a native command buffer allocated elsewhere.
// The handle is immutable for the wrapper's lifetime and is never freed here.
func NewCoreCommandBuffer(device vk.Device, command_buffer vk.CommandBuffer, symbols Symbols) *CoreCommandBuffer {
	return &CoreCommandBuffer{
		command_buffer: command_buffer,
		device:         device,
		symbols:        symbols,
	}
}

// CommandBuffer exposes the native handle for the submission path.
func (c *CoreCommandBuffer) CommandBuffer() vk.CommandBuffer {
	return c.command_buffer
}

// Begin moves the buffer into the recording state. The buffer is declared
// one-time-submit: the driver may optimize for a single submission, so a
// recorded sequence must not be submitted twice without a Reset/Begin cycle
// in between. On failure the buffer must be treated as indeterminate.
func (c *CoreCommandBuffer) Begin() error {
	ret := c.symbols.BeginCommandBuffer(c.command_buffer, &vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		Flags:            vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
		PInheritanceInfo: nil,
	})
	return NewError(ret)
}

// End finalizes the recorded sequence so it becomes submittable.
func (c *CoreCommandBuffer) End() error {
	return NewError(c.symbols.EndCommandBuffer(c.command_buffer))
}

// Reset discards the recorded commands and returns the buffer to its initial
// state. Resources backing the buffer's internal pools are deliberately not
// released: in a benchmarking loop the next iteration re-records the same
// sequence against the same resources, and skipping the release avoids
// reallocation overhead that would distort timing.
func (c *CoreCommandBuffer) Reset() error {
	return NewError(c.symbols.ResetCommandBuffer(c.command_buffer, vk.CommandBufferResetFlags(0)))
}

// CopyBuffer records a linear byte-range copy between two buffers. The caller
// guarantees [src_offset, src_offset+length) lies within src and the
// analogous range within dst; no bounds checking happens at this layer and
// violations are driver-defined behavior.
func (c *CoreCommandBuffer) CopyBuffer(src *CoreBuffer, src_offset uint64, dst *CoreBuffer, dst_offset uint64, length uint64) {
	region := vk.BufferCopy{
		SrcOffset: vk.DeviceSize(src_offset),
		DstOffset: vk.DeviceSize(dst_offset),
		Size:      vk.DeviceSize(length),
	}
	c.symbols.CmdCopyBuffer(c.command_buffer, src.Buffer(), dst.Buffer(), []vk.BufferCopy{region})
}

// BindPipelineAndDescriptorSets records one compute pipeline bind followed by
// one descriptor set bind per entry, in the order given, with no dynamic
// offsets. Binding is stateful on the native buffer: later Dispatch calls use
// whatever was bound most recently, and rebinding an index overwrites it.
func (c *CoreCommandBuffer) BindPipelineAndDescriptorSets(pipeline *CorePipeline, sets []BoundDescriptorSet) {
	c.symbols.CmdBindPipeline(c.command_buffer, vk.PipelineBindPointCompute, pipeline.Pipeline())

	for _, set := range sets {
		c.symbols.CmdBindDescriptorSets(c.command_buffer, vk.PipelineBindPointCompute,
			pipeline.Layout(), set.Index, []vk.DescriptorSet{set.Set}, nil)
	}
}

// ResetQueryPool records a reset of every slot in the pool. Must be recorded
// before any WriteTimestamp targeting the same pool in this sequence, or the
// driver's validation layer rejects the submission.
func (c *CoreCommandBuffer) ResetQueryPool(query_pool *CoreQueryPool) {
	c.symbols.CmdResetQueryPool(c.command_buffer, query_pool.QueryPool(), 0, query_pool.QueryCount())
}

// WriteTimestamp records a GPU timestamp capture at completion of the given
// pipeline stage into the pool slot at query_index. Index range and
// uniqueness per iteration are the caller's responsibility.
func (c *CoreCommandBuffer) WriteTimestamp(query_pool *CoreQueryPool, stage vk.PipelineStageFlagBits, query_index uint32) {
	c.symbols.CmdWriteTimestamp(c.command_buffer, stage, query_pool.QueryPool(), query_index)
}

// Dispatch records a compute dispatch over an x*y*z workgroup grid. A zero
// count on any axis records a defined no-op. A BindPipelineAndDescriptorSets
// call must precede it in the same recorded sequence.
func (c *CoreCommandBuffer) Dispatch(x, y, z uint32) {
	c.symbols.CmdDispatch(c.command_buffer, x, y, z)
}
