package dieselcompute

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// CoreQueryPool is a fixed size pool of GPU timestamp slots used for
// profiling dispatches. Slots must be reset on the command buffer
// (CoreCommandBuffer.ResetQueryPool) before they are rewritten in a recorded
// sequence. The device timestamp period is cached at creation so readback can
// convert raw ticks to seconds.
type CoreQueryPool struct {
	device vk.Device
	pool   vk.QueryPool
	count  uint32
	period float32
}

// NewCoreQueryPool creates a timestamp query pool with count slots.
func NewCoreQueryPool(device *CoreDevice, count uint32) (*CoreQueryPool, error) {
	var core CoreQueryPool
	core.device = device.Handle()
	core.count = count
	core.period = device.TimestampPeriod()

	ret := vk.CreateQueryPool(core.device, &vk.QueryPoolCreateInfo{
		SType:      vk.StructureTypeQueryPoolCreateInfo,
		QueryType:  vk.QueryTypeTimestamp,
		QueryCount: count,
	}, nil, &core.pool)
	if isError(ret) {
		return nil, NewError(ret)
	}

	return &core, nil
}

// QueryPool returns the native query pool handle.
func (q *CoreQueryPool) QueryPool() vk.QueryPool {
	return q.pool
}

// QueryCount returns the number of timestamp slots in the pool.
func (q *CoreQueryPool) QueryCount() uint32 {
	return q.count
}

// ReadTimestamps blocks until all slots are available and returns the raw
// 64-bit tick values in slot order. Only call after the submission that
// wrote the timestamps has been handed to the queue.
func (q *CoreQueryPool) ReadTimestamps() ([]uint64, error) {
	if q.count == 0 {
		return nil, fmt.Errorf("query pool has no slots")
	}
	ticks := make([]uint64, q.count)
	ret := vk.GetQueryPoolResults(q.device, q.pool, 0, q.count,
		uint(q.count)*8, unsafe.Pointer(&ticks[0]), 8,
		vk.QueryResultFlags(vk.QueryResult64Bit|vk.QueryResultWaitBit))
	if isError(ret) {
		return nil, NewError(ret)
	}
	return ticks, nil
}

// ElapsedSeconds converts a start/end tick pair into seconds using the
// device timestamp period.
func (q *CoreQueryPool) ElapsedSeconds(start, end uint64) float64 {
	return float64(end-start) * float64(q.period) * 1e-9
}

func (q *CoreQueryPool) Destroy() {
	if q.pool != vk.NullQueryPool {
		vk.DestroyQueryPool(q.device, q.pool, nil)
		q.pool = vk.NullQueryPool
	}
}
