package dieselcompute

import (
	"fmt"
	"runtime"

	vk "github.com/vulkan-go/vulkan"
)

// CoreComputeInstance is the headless bring-up path for compute work: a
// Vulkan instance, one compute capable logical device, its queue and a
// command pool on the compute family. No surface or swapchain is created.
//
// vk.Init must have succeeded before construction (the caller owns proc
// address bootstrap, typically through GLFW's Vulkan loader).
type CoreComputeInstance struct {
	instance            vk.Instance
	instance_extensions *BaseInstanceExtensions
	validation_layers   *BaseLayerExtensions
	logical_device      *CoreDevice
	pool                *CorePool
	symbols             Symbols
	name                string
}

// NewCoreComputeInstance creates the instance and binds the first physical
// device exposing a compute queue family. With enable_validation set the
// Khronos validation layer is requested when present; missing layers are
// logged and skipped rather than failing bring-up.
func NewCoreComputeInstance(name string, enable_validation bool) (*CoreComputeInstance, error) {
	var core CoreComputeInstance
	core.name = name
	core.symbols = DriverSymbols{}

	wanted_layers := []string{}
	if enable_validation {
		wanted_layers = append(wanted_layers, "VK_LAYER_KHRONOS_validation")
	}
	core.validation_layers = NewBaseLayerExtensions(wanted_layers)
	if has, missing := core.validation_layers.HasWanted(); !has {
		Logger().Warn("validation layers unavailable", "missing", missing)
	}

	core.instance_extensions = NewBaseInstanceExtensions([]string{}, []string{})

	var flags vk.InstanceCreateFlags
	if runtime.GOOS == "darwin" {
		flags = vk.InstanceCreateFlags(0x00000001) // VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(name),
			PEngineName:        safeString("dieselcompute"),
		},
		EnabledExtensionCount:   uint32(len(core.instance_extensions.GetExtensions())),
		PpEnabledExtensionNames: safeStrings(core.instance_extensions.GetExtensions()),
		EnabledLayerCount:       uint32(len(core.validation_layers.GetExtensions())),
		PpEnabledLayerNames:     safeStrings(core.validation_layers.GetExtensions()),
		Flags:                   flags,
	}, nil, &instance)
	if isError(ret) {
		return nil, fmt.Errorf("create instance: %w", NewError(ret))
	}
	core.instance = instance

	if runtime.GOOS == "darwin" {
		vk.InitInstance(instance)
	}

	if err := core.initDevice(); err != nil {
		vk.DestroyInstance(core.instance, nil)
		return nil, err
	}

	return &core, nil
}

func (core *CoreComputeInstance) initDevice() error {
	var gpu_count uint32
	ret := vk.EnumeratePhysicalDevices(core.instance, &gpu_count, nil)
	if isError(ret) {
		return fmt.Errorf("enumerate devices: %w", NewError(ret))
	}
	if gpu_count == 0 {
		return fmt.Errorf("no physical devices present")
	}

	gpus := make([]vk.PhysicalDevice, gpu_count)
	ret = vk.EnumeratePhysicalDevices(core.instance, &gpu_count, gpus)
	if isError(ret) {
		return fmt.Errorf("enumerate devices: %w", NewError(ret))
	}

	core.logical_device = &CoreDevice{}
	core.logical_device.physical_devices = gpus

	// Select the first device with a compute capable queue family.
	var device_queue *CoreQueue
	for index := 0; index < int(gpu_count); index++ {
		queue := NewCoreQueue(gpus[index])
		if queue == nil {
			continue
		}
		if queue.IsDeviceSuitable(uint32(vk.QueueComputeBit)) {
			core.logical_device.selected_device = gpus[index]
			device_queue = queue
			break
		}
	}
	if device_queue == nil {
		return fmt.Errorf("no compute capable device found")
	}

	core.logical_device.gatherProperties()
	Logger().Info("selected compute device", "name", core.logical_device.Name())

	if err := device_queue.BindComputeQueue(); err != nil {
		return err
	}
	queue_infos := device_queue.GetCreateInfos()

	var device vk.Device
	ret = vk.CreateDevice(core.logical_device.selected_device, &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queue_infos)),
		PQueueCreateInfos:    queue_infos,
	}, nil, &device)
	if isError(ret) {
		return fmt.Errorf("create device: %w", NewError(ret))
	}
	core.logical_device.handle = device

	device_queue.CreateQueues(device)
	core.logical_device.queues = device_queue

	pool, err := NewCorePool(device, device_queue.Family(), core.symbols)
	if err != nil {
		core.logical_device.Destroy()
		return fmt.Errorf("create command pool: %w", err)
	}
	core.pool = pool

	return nil
}

// Device returns the bound logical device wrapper.
func (core *CoreComputeInstance) Device() *CoreDevice {
	return core.logical_device
}

// Queue returns the compute submission queue.
func (core *CoreComputeInstance) Queue() *CoreQueue {
	return core.logical_device.queues
}

// Pool returns the command pool on the compute family.
func (core *CoreComputeInstance) Pool() *CorePool {
	return core.pool
}

// Symbols returns the capability table command buffers from this instance
// record through.
func (core *CoreComputeInstance) Symbols() Symbols {
	return core.symbols
}

// Destroy tears down the pool, queue fence, device and instance, in that
// order. Buffers, pipelines and query pools created against the device must
// be destroyed by their owners first.
func (core *CoreComputeInstance) Destroy() {
	if core.pool != nil {
		core.pool.Destroy()
		core.pool = nil
	}
	if core.logical_device != nil {
		if core.logical_device.queues != nil {
			core.logical_device.queues.Destroy()
		}
		core.logical_device.Destroy()
	}
	if core.instance != nil {
		vk.DestroyInstance(core.instance, nil)
		core.instance = nil
	}
}
