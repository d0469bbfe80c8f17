package dieselcompute

import (
	vk "github.com/vulkan-go/vulkan"
)

// CoreDescriptorPool allocates the descriptor sets compute pipelines bind
// their storage buffers through. Layouts created here are destroyed with the
// pool; sets are returned to the pool implicitly at Destroy.
type CoreDescriptorPool struct {
	device  vk.Device
	pool    vk.DescriptorPool
	layouts []vk.DescriptorSetLayout
}

// NewCoreDescriptorPool creates a pool sized for max_sets descriptor sets
// referencing up to storage_buffers storage buffer descriptors in total.
func NewCoreDescriptorPool(device vk.Device, max_sets int, storage_buffers int) (*CoreDescriptorPool, error) {
	var core CoreDescriptorPool
	core.device = device

	sizes := []vk.DescriptorPoolSize{{
		Type:            vk.DescriptorTypeStorageBuffer,
		DescriptorCount: uint32(storage_buffers),
	}}

	ret := vk.CreateDescriptorPool(device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       uint32(max_sets),
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &core.pool)
	if isError(ret) {
		return nil, NewError(ret)
	}

	return &core, nil
}

// CreateStorageLayout creates a set layout with bindings storage buffer
// slots, numbered from zero, all visible to the compute stage.
func (core *CoreDescriptorPool) CreateStorageLayout(bindings int) (vk.DescriptorSetLayout, error) {
	layout_bindings := make([]vk.DescriptorSetLayoutBinding, bindings)
	for i := 0; i < bindings; i++ {
		layout_bindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(i),
			DescriptorType:  vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageComputeBit),
		}
	}

	var layout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(core.device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(layout_bindings)),
		PBindings:    layout_bindings,
	}, nil, &layout)
	if isError(ret) {
		return vk.NullDescriptorSetLayout, NewError(ret)
	}

	core.layouts = append(core.layouts, layout)
	return layout, nil
}

// Allocate carves one descriptor set with the given layout out of the pool.
func (core *CoreDescriptorPool) Allocate(layout vk.DescriptorSetLayout) (vk.DescriptorSet, error) {
	var set vk.DescriptorSet
	ret := vk.AllocateDescriptorSets(core.device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     core.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}, &set)
	if isError(ret) {
		return vk.NullDescriptorSet, NewError(ret)
	}
	return set, nil
}

// WriteStorageBuffer points the given binding of a descriptor set at the
// whole of a storage buffer.
func (core *CoreDescriptorPool) WriteStorageBuffer(set vk.DescriptorSet, binding uint32, buffer *CoreBuffer) {
	info := []vk.DescriptorBufferInfo{{
		Buffer: buffer.Buffer(),
		Offset: 0,
		Range:  vk.DeviceSize(buffer.Size()),
	}}

	writes := []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      binding,
		DstArrayElement: 0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeStorageBuffer,
		PBufferInfo:     info,
	}}

	vk.UpdateDescriptorSets(core.device, uint32(len(writes)), writes, 0, nil)
}

func (core *CoreDescriptorPool) Destroy() {
	for _, layout := range core.layouts {
		vk.DestroyDescriptorSetLayout(core.device, layout, nil)
	}
	core.layouts = nil
	if core.pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(core.device, core.pool, nil)
		core.pool = vk.NullDescriptorPool
	}
}
