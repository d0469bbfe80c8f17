package test

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/andewx/dieselcompute"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

const BUFFER_SIZE = 1024

// initVulkan bootstraps the driver proc table through GLFW's Vulkan loader.
// Skips the test on machines without a Vulkan capable driver.
func initVulkan(t *testing.T) {
	t.Helper()
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		t.Skipf("glfw unavailable: %v", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		t.Skip("no Vulkan loader present")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		glfw.Terminate()
		t.Skipf("unable to initialize Vulkan: %v", err)
	}
	t.Cleanup(glfw.Terminate)
}

func newInstance(t *testing.T) *dieselcompute.CoreComputeInstance {
	t.Helper()
	initVulkan(t)

	instance, err := dieselcompute.NewCoreComputeInstance("ComputeTest", false)
	if err != nil {
		t.Skipf("no compute device: %v", err)
	}
	t.Cleanup(instance.Destroy)
	return instance
}

func TestCopyRoundTrip(t *testing.T) {
	instance := newInstance(t)

	src, err := dieselcompute.NewCoreStorageBuffer(instance.Device(), "src", BUFFER_SIZE)
	if err != nil {
		t.Fatalf("create src buffer: %v", err)
	}
	defer src.Destroy()
	dst, err := dieselcompute.NewCoreStorageBuffer(instance.Device(), "dst", BUFFER_SIZE)
	if err != nil {
		t.Fatalf("create dst buffer: %v", err)
	}
	defer dst.Destroy()

	pattern := make([]byte, BUFFER_SIZE)
	for i := range pattern {
		pattern[i] = byte(i * 7)
	}
	if err := src.Write(pattern); err != nil {
		t.Fatalf("seed src: %v", err)
	}

	queries, err := dieselcompute.NewCoreQueryPool(instance.Device(), 2)
	if err != nil {
		t.Fatalf("create query pool: %v", err)
	}
	defer queries.Destroy()

	cmd, err := instance.Pool().AllocateCommandBuffer()
	if err != nil {
		t.Fatalf("allocate command buffer: %v", err)
	}

	record := func() {
		if err := cmd.Begin(); err != nil {
			t.Fatalf("begin: %v", err)
		}
		cmd.ResetQueryPool(queries)
		cmd.WriteTimestamp(queries, vk.PipelineStageTopOfPipeBit, 0)
		cmd.CopyBuffer(src, 0, dst, 0, BUFFER_SIZE)
		cmd.WriteTimestamp(queries, vk.PipelineStageBottomOfPipeBit, 1)
		if err := cmd.End(); err != nil {
			t.Fatalf("end: %v", err)
		}
	}

	record()
	if err := instance.Queue().Submit(cmd); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out := make([]byte, BUFFER_SIZE)
	if err := dst.Read(out); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(pattern, out) {
		t.Errorf("destination content differs from source after copy")
	}

	ticks, err := queries.ReadTimestamps()
	if err != nil {
		t.Fatalf("read timestamps: %v", err)
	}
	if ticks[1] < ticks[0] {
		t.Errorf("timestamps not monotonic: start %d end %d", ticks[0], ticks[1])
	}

	// Reset and re-record the identical sequence: the reuse contract says the
	// second pass must behave like the first.
	if err := cmd.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := dst.Write(make([]byte, BUFFER_SIZE)); err != nil {
		t.Fatalf("clear dst: %v", err)
	}
	record()
	if err := instance.Queue().Submit(cmd); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if err := dst.Read(out); err != nil {
		t.Fatalf("second read back: %v", err)
	}
	if !bytes.Equal(pattern, out) {
		t.Errorf("re-recorded copy produced different contents")
	}
}

func TestBenchLoopOnDevice(t *testing.T) {
	instance := newInstance(t)

	src, err := dieselcompute.NewCoreStorageBuffer(instance.Device(), "src", BUFFER_SIZE)
	if err != nil {
		t.Fatalf("create src buffer: %v", err)
	}
	defer src.Destroy()
	dst, err := dieselcompute.NewCoreStorageBuffer(instance.Device(), "dst", BUFFER_SIZE)
	if err != nil {
		t.Fatalf("create dst buffer: %v", err)
	}
	defer dst.Destroy()

	queries, err := dieselcompute.NewCoreQueryPool(instance.Device(), 2)
	if err != nil {
		t.Fatalf("create query pool: %v", err)
	}
	defer queries.Destroy()

	cmd, err := instance.Pool().AllocateCommandBuffer()
	if err != nil {
		t.Fatalf("allocate command buffer: %v", err)
	}

	usage := dieselcompute.NewUsage("copy_latency")
	usage.Warmup = 1
	usage.Iterations = 4
	usage.BufferSize = BUFFER_SIZE

	loop := dieselcompute.NewBenchLoop(cmd, instance.Queue(), queries, usage)
	result, err := loop.Run(func(cmd *dieselcompute.CoreCommandBuffer) {
		cmd.CopyBuffer(src, 0, dst, 0, BUFFER_SIZE)
	})
	if err != nil {
		t.Fatalf("bench loop: %v", err)
	}

	if result.Iterations != usage.Iterations {
		t.Errorf("measured %d iterations, want %d", result.Iterations, usage.Iterations)
	}
	if result.Min > result.Max {
		t.Errorf("latency bounds inverted: min %v max %v", result.Min, result.Max)
	}
}
