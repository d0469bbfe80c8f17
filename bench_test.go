package dieselcompute

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubSubmitter struct {
	submissions int
	err         error
}

func (s *stubSubmitter) Submit(cmd *CoreCommandBuffer) error {
	s.submissions++
	return s.err
}

func TestBenchLoopLifecyclePerIteration(t *testing.T) {
	cmd, stub := newStubCommandBuffer()
	queue := &stubSubmitter{}
	usage := &Usage{Name: "copy", Warmup: 1, Iterations: 2}

	recorded := 0
	result, err := NewBenchLoop(cmd, queue, nil, usage).Run(func(cmd *CoreCommandBuffer) {
		recorded++
		cmd.Dispatch(4, 1, 1)
	})
	require.NoError(t, err)

	require.Equal(t, 3, queue.submissions)
	require.Equal(t, 3, recorded)
	require.Equal(t, 2, result.Iterations)

	// Each iteration is the same lifecycle sandwich around the workload.
	iteration := []string{"reset flags=0", "begin", "dispatch 4 1 1", "end"}
	want := []string{}
	for i := 0; i < 3; i++ {
		want = append(want, iteration...)
	}
	require.Equal(t, want, stub.calls)
}

func TestBenchLoopTimestampSlots(t *testing.T) {
	cmd, stub := newStubCommandBuffer()
	queue := &stubSubmitter{}
	usage := &Usage{Name: "stamped", Warmup: 0, Iterations: 1}
	queries := &CoreQueryPool{count: 2, period: 1}

	// ReadTimestamps requires a live pool; run with the pool attached for
	// recording only by stubbing submission failure after End.
	queue.err = errors.New("stop before readback")
	_, err := NewBenchLoop(cmd, queue, queries, usage).Run(func(cmd *CoreCommandBuffer) {
		cmd.Dispatch(1, 1, 1)
	})
	require.Error(t, err)

	require.Equal(t, []string{
		"reset flags=0",
		"begin",
		"reset_query_pool 0 2",
		"write_timestamp 0",
		"dispatch 1 1 1",
		"write_timestamp 1",
		"end",
	}, stub.calls)
}

func TestBenchLoopSubmitErrorPropagates(t *testing.T) {
	cmd, _ := newStubCommandBuffer()
	queue := &stubSubmitter{err: errors.New("queue gone")}

	_, err := NewBenchLoop(cmd, queue, nil, nil).Run(func(cmd *CoreCommandBuffer) {})
	require.ErrorContains(t, err, "queue gone")
	require.Equal(t, 1, queue.submissions)
}

func TestBenchLoopRejectsInvalidUsage(t *testing.T) {
	cmd, _ := newStubCommandBuffer()
	usage := &Usage{Name: "bad", Iterations: 0}

	_, err := NewBenchLoop(cmd, &stubSubmitter{}, nil, usage).Run(func(cmd *CoreCommandBuffer) {})
	require.Error(t, err)
}

func TestBenchLoopResultBounds(t *testing.T) {
	cmd, _ := newStubCommandBuffer()
	usage := &Usage{Name: "bounds", Warmup: 0, Iterations: 4}

	result, err := NewBenchLoop(cmd, &stubSubmitter{}, nil, usage).Run(func(cmd *CoreCommandBuffer) {})
	require.NoError(t, err)
	require.Equal(t, 4, result.Iterations)
	require.LessOrEqual(t, result.Min, result.Mean)
	require.LessOrEqual(t, result.Mean, result.Max)
}
