package dieselcompute

import (
	vk "github.com/vulkan-go/vulkan"
)

// CorePool wraps a command pool created with the reset-command-buffer flag so
// each allocated buffer can be individually reset between benchmark
// iterations. Command buffers handed out by AllocateCommandBuffer stay owned
// by this pool; dropping a CoreCommandBuffer wrapper frees nothing.
type CorePool struct {
	pool    vk.CommandPool
	device  vk.Device
	symbols Symbols
}

func NewCorePool(device vk.Device, family_index uint32, symbols Symbols) (*CorePool, error) {
	var core CorePool
	var cmdPool vk.CommandPool

	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family_index,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &cmdPool)
	if isError(ret) {
		return nil, NewError(ret)
	}

	core.pool = cmdPool
	core.device = device
	core.symbols = symbols
	return &core, nil
}

// AllocateCommandBuffer allocates one primary command buffer from the pool
// and wraps it with the pool's capability table.
func (c *CorePool) AllocateCommandBuffer() (*CoreCommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(c.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, buffers)
	if isError(ret) {
		return nil, NewError(ret)
	}
	return NewCoreCommandBuffer(c.device, buffers[0], c.symbols), nil
}

func (c *CorePool) Destroy() {
	vk.DestroyCommandPool(c.device, c.pool, nil)
}
