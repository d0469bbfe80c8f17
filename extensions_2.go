package dieselcompute

import vk "github.com/vulkan-go/vulkan"

type Extensions interface {
	HasRequired() (bool, []string)
	HasWanted() (bool, []string)
	GetExtensions() []string
}

func missingFrom(actual, want []string) []string {
	missing := []string{}
	for _, entry := range want {
		has := false
		for _, act := range actual {
			if entry == act {
				has = true
				break
			}
		}
		if !has {
			missing = append(missing, entry)
		}
	}
	return missing
}

func mergeUnique(required, wanted []string) []string {
	implement := []string{}
	implement = append(implement, required...)
	for _, want := range wanted {
		has := false
		for _, req := range required {
			if want == req {
				has = true
				break
			}
		}
		if !has {
			implement = append(implement, want)
		}
	}
	return implement
}

//----------------Instance Extensions--------------------//

type BaseInstanceExtensions struct {
	wanted   []string
	required []string
	actual   []string
}

func NewBaseInstanceExtensions(wanted []string, required []string) *BaseInstanceExtensions {
	var base BaseInstanceExtensions
	base.wanted = wanted
	base.required = required
	base.actual, _ = InstanceExtensions()
	return &base
}

func (e *BaseInstanceExtensions) HasRequired() (bool, []string) {
	missing := missingFrom(e.actual, e.required)
	return len(missing) == 0, missing
}

func (e *BaseInstanceExtensions) HasWanted() (bool, []string) {
	missing := missingFrom(e.actual, e.wanted)
	return len(missing) == 0, missing
}

func (e *BaseInstanceExtensions) GetExtensions() []string {
	return mergeUnique(e.required, e.wanted)
}

//----------------Device Extensions--------------------//

type BaseDeviceExtensions struct {
	wanted   []string
	required []string
	actual   []string
}

func NewBaseDeviceExtensions(wanted []string, required []string, gpu vk.PhysicalDevice) *BaseDeviceExtensions {
	var base BaseDeviceExtensions
	base.wanted = wanted
	base.required = required
	base.actual, _ = DeviceExtensions(gpu)
	return &base
}

func (e *BaseDeviceExtensions) HasRequired() (bool, []string) {
	missing := missingFrom(e.actual, e.required)
	return len(missing) == 0, missing
}

func (e *BaseDeviceExtensions) HasWanted() (bool, []string) {
	missing := missingFrom(e.actual, e.wanted)
	return len(missing) == 0, missing
}

func (e *BaseDeviceExtensions) GetExtensions() []string {
	return mergeUnique(e.required, e.wanted)
}

//----------------Layer Extensions--------------------//

type BaseLayerExtensions struct {
	wanted []string
	actual []string
}

func NewBaseLayerExtensions(wanted []string) *BaseLayerExtensions {
	var base BaseLayerExtensions
	base.wanted = wanted
	base.actual, _ = ValidationLayers()
	return &base
}

//No required layer extensions
func (e *BaseLayerExtensions) HasRequired() (bool, []string) {
	return true, []string{}
}

func (e *BaseLayerExtensions) HasWanted() (bool, []string) {
	missing := missingFrom(e.actual, e.wanted)
	return len(missing) == 0, missing
}

func (e *BaseLayerExtensions) GetExtensions() []string {
	implement := []string{}
	for _, want := range e.wanted {
		for _, act := range e.actual {
			if want == act {
				implement = append(implement, want)
				break
			}
		}
	}
	return implement
}
