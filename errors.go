package dieselcompute

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// FailureKind is a stable machine readable classification of a native
// vk.Result failure code. Callers switch on the kind rather than on the raw
// driver code so retry/report policy does not depend on driver specifics.
type FailureKind int

const (
	KindUnknown FailureKind = iota
	KindOutOfHostMemory
	KindOutOfDeviceMemory
	KindDeviceLost
	KindInitializationFailed
	KindInvalidArgument
)

func (k FailureKind) String() string {
	switch k {
	case KindOutOfHostMemory:
		return "out-of-host-memory"
	case KindOutOfDeviceMemory:
		return "out-of-device-memory"
	case KindDeviceLost:
		return "device-lost"
	case KindInitializationFailed:
		return "initialization-failed"
	case KindInvalidArgument:
		return "invalid-argument"
	default:
		return "unknown"
	}
}

// Error is the uniform outcome carried back from every native call that can
// fail. It keeps the originating vk.Result so logs stay debuggable while
// callers branch on Kind.
type Error struct {
	Kind   FailureKind
	Result vk.Result
}

func (e *Error) Error() string {
	return fmt.Sprintf("vulkan error: %s (%s, code %d)",
		vk.Error(e.Result).Error(), e.Kind, int32(e.Result))
}

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError translates a native result code into the uniform outcome type.
// This is the only place driver result codes are interpreted; every lifecycle
// call routes its native return value through here.
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return &Error{Kind: kindOf(ret), Result: ret}
}

func kindOf(ret vk.Result) FailureKind {
	switch ret {
	case vk.ErrorOutOfHostMemory:
		return KindOutOfHostMemory
	case vk.ErrorOutOfDeviceMemory:
		return KindOutOfDeviceMemory
	case vk.ErrorDeviceLost:
		return KindDeviceLost
	case vk.ErrorInitializationFailed, vk.ErrorIncompatibleDriver:
		return KindInitializationFailed
	case vk.ErrorLayerNotPresent, vk.ErrorExtensionNotPresent,
		vk.ErrorFeatureNotPresent, vk.ErrorFormatNotSupported:
		return KindInvalidArgument
	default:
		return KindUnknown
	}
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}
