package dieselcompute

import vk "github.com/vulkan-go/vulkan"

// CoreDevice binds the selected physical device and its logical device handle
// together with the cached property blocks the compute path needs: memory
// types for buffer allocation and the timestamp period for profiling math.
type CoreDevice struct {
	physical_devices  []vk.PhysicalDevice
	selected_device   vk.PhysicalDevice
	properties        *vk.PhysicalDeviceProperties
	memory_properties *vk.PhysicalDeviceMemoryProperties
	handle            vk.Device
	name              string
	queues            *CoreQueue
}

// Handle returns the logical device.
func (d *CoreDevice) Handle() vk.Device {
	return d.handle
}

// PhysicalDevice returns the selected physical device.
func (d *CoreDevice) PhysicalDevice() vk.PhysicalDevice {
	return d.selected_device
}

func (d *CoreDevice) Name() string {
	return d.name
}

func (d *CoreDevice) Queues() *CoreQueue {
	return d.queues
}

// MemoryProperties returns the cached memory property block of the selected
// physical device. Gathered once at device selection, Deref already applied.
func (d *CoreDevice) MemoryProperties() vk.PhysicalDeviceMemoryProperties {
	return *d.memory_properties
}

// TimestampPeriod returns the number of nanoseconds a single timestamp tick
// spans on this device.
func (d *CoreDevice) TimestampPeriod() float32 {
	d.properties.Limits.Deref()
	return d.properties.Limits.TimestampPeriod
}

func (d *CoreDevice) gatherProperties() {
	d.properties = &vk.PhysicalDeviceProperties{}
	d.memory_properties = &vk.PhysicalDeviceMemoryProperties{}
	vk.GetPhysicalDeviceProperties(d.selected_device, d.properties)
	d.properties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(d.selected_device, d.memory_properties)
	d.memory_properties.Deref()
	d.name = vk.ToString(d.properties.DeviceName[:])
}

// Destroy tears down the logical device. The physical device handles are
// owned by the instance and left alone.
func (d *CoreDevice) Destroy() {
	if d.handle != nil {
		vk.DestroyDevice(d.handle, nil)
		d.handle = nil
	}
}
