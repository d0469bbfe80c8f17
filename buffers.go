package dieselcompute

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// CoreBuffer is a storage buffer backed by host visible, host coherent
// memory, usable as both a transfer source and destination so benchmark
// loops can seed and read back contents. The recording layer only ever
// touches the Buffer accessor; creation and teardown stay here.
type CoreBuffer struct {
	buffer vk.Buffer
	memory vk.DeviceMemory
	device vk.Device
	size   vk.DeviceSize
	name   string
}

// NewCoreStorageBuffer creates a storage buffer of bytes_size bytes on the
// given device and binds freshly allocated host visible memory to it.
func NewCoreStorageBuffer(device *CoreDevice, name string, bytes_size int) (*CoreBuffer, error) {
	core := CoreBuffer{
		device: device.Handle(),
		size:   vk.DeviceSize(bytes_size),
		name:   name,
	}

	usage := vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit |
		vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit)

	ret := vk.CreateBuffer(core.device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        core.size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}, nil, &core.buffer)
	if isError(ret) {
		return nil, NewError(ret)
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(core.device, core.buffer, &requirements)
	requirements.Deref()

	host_flags := vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	index, found := FindRequiredMemoryType(device.MemoryProperties(),
		requirements.MemoryTypeBits, host_flags)
	if !found {
		vk.DestroyBuffer(core.device, core.buffer, nil)
		return nil, fmt.Errorf("buffer %s: no host visible memory type available", name)
	}

	ret = vk.AllocateMemory(core.device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: index,
	}, nil, &core.memory)
	if isError(ret) {
		vk.DestroyBuffer(core.device, core.buffer, nil)
		return nil, NewError(ret)
	}

	ret = vk.BindBufferMemory(core.device, core.buffer, core.memory, 0)
	if isError(ret) {
		core.Destroy()
		return nil, NewError(ret)
	}

	return &core, nil
}

// Buffer returns the native handle. The handle stays valid for the duration
// of any recording or pending submission that references it; coordinating
// that lifetime is the orchestrator's job.
func (core *CoreBuffer) Buffer() vk.Buffer {
	return core.buffer
}

func (core *CoreBuffer) Size() uint64 {
	return uint64(core.size)
}

func (core *CoreBuffer) Name() string {
	return core.name
}

// Write copies data into the buffer through a transient mapping. Fails when
// data exceeds the buffer size.
func (core *CoreBuffer) Write(data []byte) error {
	if uint64(len(data)) > uint64(core.size) {
		return fmt.Errorf("buffer %s: write of %d bytes exceeds size %d", core.name, len(data), core.size)
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(core.device, core.memory, 0, vk.DeviceSize(len(data)), 0, &ptr)
	if isError(ret) {
		return NewError(ret)
	}
	vk.Memcopy(ptr, data)
	vk.UnmapMemory(core.device, core.memory)
	return nil
}

// Read copies the first len(out) bytes of the buffer into out through a
// transient mapping.
func (core *CoreBuffer) Read(out []byte) error {
	if uint64(len(out)) > uint64(core.size) {
		return fmt.Errorf("buffer %s: read of %d bytes exceeds size %d", core.name, len(out), core.size)
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(core.device, core.memory, 0, vk.DeviceSize(len(out)), 0, &ptr)
	if isError(ret) {
		return NewError(ret)
	}
	copy(out, unsafe.Slice((*byte)(ptr), len(out)))
	vk.UnmapMemory(core.device, core.memory)
	return nil
}

func (core *CoreBuffer) Destroy() {
	if core.buffer != vk.NullBuffer {
		vk.DestroyBuffer(core.device, core.buffer, nil)
		core.buffer = vk.NullBuffer
	}
	if core.memory != vk.NullDeviceMemory {
		vk.FreeMemory(core.device, core.memory, nil)
		core.memory = vk.NullDeviceMemory
	}
}
