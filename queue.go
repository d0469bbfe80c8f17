package dieselcompute

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Submitter hands a recorded command buffer to the GPU and blocks until the
// work completes. CoreQueue is the production implementation; benchmark tests
// substitute a stub so loops run without a driver.
type Submitter interface {
	Submit(cmd *CoreCommandBuffer) error
}

// CoreQueue selects a compute capable queue family on a physical device and
// performs fence synchronized submission on it. One queue per family is
// created; extend GetCreateInfos if more are needed.
type CoreQueue struct {
	properties []vk.QueueFamilyProperties
	queues     []vk.Queue
	gpu        vk.PhysicalDevice
	device     vk.Device
	family     int
	fence      vk.Fence
}

// NewCoreQueue lists the queue families available on a physical device and
// enables queue creation. Returns nil when the device exposes no families.
func NewCoreQueue(gpu vk.PhysicalDevice) *CoreQueue {
	var q CoreQueue
	var count uint32
	q.gpu = gpu
	q.family = -1
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	if count == 0 {
		return nil
	}
	q.properties = make([]vk.QueueFamilyProperties, count)
	q.queues = make([]vk.Queue, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, q.properties)
	return &q
}

// FindSuitableQueue reports whether a family carrying all the given flag bits
// exists and returns its index.
func (q *CoreQueue) FindSuitableQueue(flag_bits uint32) (bool, int) {
	for index := 0; index < len(q.properties); index++ {
		queue := q.properties[index]
		queue.Deref()
		flag := queue.QueueFlags & vk.QueueFlags(flag_bits)
		if flag == vk.QueueFlags(flag_bits) {
			return true, index
		}
	}
	return false, 0
}

// IsDeviceSuitable checks if the device can serve queue operations with the
// given flag bits.
func (q *CoreQueue) IsDeviceSuitable(flag_bits uint32) bool {
	found, _ := q.FindSuitableQueue(flag_bits)
	return found
}

// GetCreateInfos returns a single-queue create info for the compute family.
// Must be resolved with BindComputeQueue first.
func (q *CoreQueue) GetCreateInfos() []vk.DeviceQueueCreateInfo {
	priority := float32(1.0)
	info := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(q.family),
		QueueCount:       1,
		PQueuePriorities: []float32{priority},
	}
	return []vk.DeviceQueueCreateInfo{info}
}

// BindComputeQueue resolves the compute capable family this queue will
// submit on. Call before GetCreateInfos and CreateQueues.
func (q *CoreQueue) BindComputeQueue() error {
	found, index := q.FindSuitableQueue(uint32(vk.QueueComputeBit))
	if !found {
		return fmt.Errorf("no compute capable queue family on device")
	}
	q.family = index
	return nil
}

// CreateQueues initiates the actual queue objects. Must be called after the
// logical device is established.
func (q *CoreQueue) CreateQueues(device vk.Device) {
	q.device = device
	vk.GetDeviceQueue(device, uint32(q.family), 0, &q.queues[q.family])
}

// Family returns the bound compute queue family index.
func (q *CoreQueue) Family() uint32 {
	return uint32(q.family)
}

// Queue returns the bound compute queue handle.
func (q *CoreQueue) Queue() vk.Queue {
	return q.queues[q.family]
}

// Submit hands one recorded command buffer to the compute queue and waits on
// a fence until the GPU signals completion. The fence is created lazily and
// recycled across submissions.
func (q *CoreQueue) Submit(cmd *CoreCommandBuffer) error {
	if q.fence == vk.NullFence {
		ret := vk.CreateFence(q.device, &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
		}, nil, &q.fence)
		if isError(ret) {
			return NewError(ret)
		}
	} else {
		if ret := vk.ResetFences(q.device, 1, []vk.Fence{q.fence}); isError(ret) {
			return NewError(ret)
		}
	}

	buffers := []vk.CommandBuffer{cmd.CommandBuffer()}
	ret := vk.QueueSubmit(q.Queue(), 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}}, q.fence)
	if isError(ret) {
		return NewError(ret)
	}

	ret = vk.WaitForFences(q.device, 1, []vk.Fence{q.fence}, vk.True, vk.MaxUint64)
	return NewError(ret)
}

// Destroy releases the submission fence. Queue handles belong to the device.
func (q *CoreQueue) Destroy() {
	if q.fence != vk.NullFence {
		vk.DestroyFence(q.device, q.fence, nil)
		q.fence = vk.NullFence
	}
}
