package dieselcompute

import (
	"fmt"
	"os"

	vk "github.com/vulkan-go/vulkan"
)

// CoreShader loads precompiled SPIR-V compute shaders and keeps the resulting
// modules keyed by program name until Destroy.
type CoreShader struct {
	device  vk.Device
	modules map[string]vk.ShaderModule
}

func NewCoreShader(device vk.Device) *CoreShader {
	var core CoreShader
	core.device = device
	core.modules = make(map[string]vk.ShaderModule, 4)
	return &core
}

// LoadModule reads a SPIR-V blob from path and creates a shader module for
// it under the given program name.
func (core *CoreShader) LoadModule(name string, path string) (vk.ShaderModule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return vk.NullShaderModule, fmt.Errorf("shader %s: %w", name, err)
	}
	return core.CreateModule(name, code)
}

// CreateModule creates a shader module from an in-memory SPIR-V blob.
// Vulkan expects the code as uint32 words, so the byte length must be a
// multiple of four.
func (core *CoreShader) CreateModule(name string, code []byte) (vk.ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return vk.NullShaderModule, fmt.Errorf("shader %s: SPIR-V length %d is not a word multiple", name, len(code))
	}

	var module vk.ShaderModule
	ret := vk.CreateShaderModule(core.device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if isError(ret) {
		return vk.NullShaderModule, NewError(ret)
	}

	core.modules[name] = module
	return module, nil
}

// Module returns the module registered under name.
func (core *CoreShader) Module(name string) (vk.ShaderModule, bool) {
	module, ok := core.modules[name]
	return module, ok
}

func (core *CoreShader) Destroy() {
	for name, module := range core.modules {
		vk.DestroyShaderModule(core.device, module, nil)
		delete(core.modules, name)
	}
}
