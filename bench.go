package dieselcompute

import (
	"fmt"
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// BenchResult aggregates the measured iteration latencies of one loop run.
type BenchResult struct {
	Name       string
	Iterations int
	Min        time.Duration
	Max        time.Duration
	Mean       time.Duration
}

// BenchLoop drives one command buffer through the benchmarking cycle:
// Reset, Begin, record the workload, End, submit, wait, read timestamps.
// The same command buffer and resources are reused every iteration; the
// Reset contract keeps driver side pools warm so iteration cost reflects the
// recorded work, not reallocation.
//
// With a query pool attached, latency is the GPU elapsed time between a
// timestamp written at top-of-pipe before the workload and one at
// bottom-of-pipe after it (slots 0 and 1). Without one, wall clock time
// around submission is used.
type BenchLoop struct {
	cmd     *CoreCommandBuffer
	queue   Submitter
	queries *CoreQueryPool
	usage   *Usage
}

// NewBenchLoop assembles a loop. queries may be nil to fall back to wall
// clock timing. usage may be nil for the default loop shape.
func NewBenchLoop(cmd *CoreCommandBuffer, queue Submitter, queries *CoreQueryPool, usage *Usage) *BenchLoop {
	if usage == nil {
		usage = NewUsage("bench")
	}
	return &BenchLoop{
		cmd:     cmd,
		queue:   queue,
		queries: queries,
		usage:   usage,
	}
}

// Run executes warmup plus measured iterations, invoking record to append
// the workload between the timestamp writes of each recorded sequence.
// Identical re-recording per iteration is the caller's contract; the loop
// itself only guarantees the lifecycle order around it.
func (b *BenchLoop) Run(record func(cmd *CoreCommandBuffer)) (*BenchResult, error) {
	if err := b.usage.Validate(); err != nil {
		return nil, err
	}

	result := &BenchResult{Name: b.usage.Name}
	var total time.Duration

	iterations := b.usage.Warmup + b.usage.Iterations
	for i := 0; i < iterations; i++ {
		if err := b.cmd.Reset(); err != nil {
			return nil, fmt.Errorf("iteration %d reset: %w", i, err)
		}
		if err := b.cmd.Begin(); err != nil {
			return nil, fmt.Errorf("iteration %d begin: %w", i, err)
		}

		if b.queries != nil {
			b.cmd.ResetQueryPool(b.queries)
			b.cmd.WriteTimestamp(b.queries, vk.PipelineStageTopOfPipeBit, 0)
		}
		record(b.cmd)
		if b.queries != nil {
			b.cmd.WriteTimestamp(b.queries, vk.PipelineStageBottomOfPipeBit, 1)
		}

		if err := b.cmd.End(); err != nil {
			return nil, fmt.Errorf("iteration %d end: %w", i, err)
		}

		start := time.Now()
		if err := b.queue.Submit(b.cmd); err != nil {
			return nil, fmt.Errorf("iteration %d submit: %w", i, err)
		}
		elapsed := time.Since(start)

		if b.queries != nil {
			ticks, err := b.queries.ReadTimestamps()
			if err != nil {
				return nil, fmt.Errorf("iteration %d timestamps: %w", i, err)
			}
			elapsed = time.Duration(b.queries.ElapsedSeconds(ticks[0], ticks[1]) * float64(time.Second))
		}

		if i < b.usage.Warmup {
			continue
		}

		Logger().Debug("bench iteration", "name", b.usage.Name, "iteration", i-b.usage.Warmup, "latency", elapsed)

		if result.Iterations == 0 || elapsed < result.Min {
			result.Min = elapsed
		}
		if elapsed > result.Max {
			result.Max = elapsed
		}
		total += elapsed
		result.Iterations++
	}

	result.Mean = total / time.Duration(result.Iterations)
	Logger().Info("bench complete", "name", b.usage.Name,
		"iterations", result.Iterations, "min", result.Min, "max", result.Max, "mean", result.Mean)
	return result, nil
}
