package dieselcompute

import "unsafe"

// safeString returns a copy of s with the null terminator Vulkan expects.
func safeString(s string) string {
	return s + "\x00"
}

func safeStrings(list []string) []string {
	for i := range list {
		list[i] = safeString(list[i])
	}
	return list
}

// sliceUint32 reinterprets SPIR-V bytes as the uint32 words Vulkan expects.
func sliceUint32(data []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
