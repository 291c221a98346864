package driver

import (
	"context"
	"time"

	"github.com/ssargent/ixtree/pkg/btree"
	"github.com/ssargent/ixtree/pkg/metrics"
)

// RunInstrumented is Run with every ReadBlock/Allocate suspension and
// the overall operation timing reported to rec. label identifies the
// operation for the duration and nodes-visited histograms (e.g.
// "find", "insert"). When step's terminal result is a btree.InsertResult,
// every split it carries is also reported by kind.
func RunInstrumented[T any](ctx context.Context, store BlockStore, step btree.Step[T], rec *metrics.Recorder, label string) (T, error) {
	start := time.Now()
	result, nodesVisited, err := runTracked(ctx, store, step, rec)
	rec.RecordOperation(label, err == nil, time.Since(start))
	if err == nil {
		rec.RecordNodesVisited(label, nodesVisited)
		if ir, ok := any(result).(btree.InsertResult); ok {
			for _, kind := range ir.SplitKinds {
				rec.RecordSplit(kind)
			}
		}
	}
	return result, err
}

func runTracked[T any](ctx context.Context, store BlockStore, step btree.Step[T], rec *metrics.Recorder) (T, int, error) {
	nodesVisited := 0
	for {
		switch step.Kind() {
		case btree.KindDone:
			return step.Result(), nodesVisited, nil
		case btree.KindReadBlock:
			req := step.ReadRequest()
			data, err := store.ReadAt(ctx, req.Offset, req.Length)
			if err != nil {
				var zero T
				return zero, nodesVisited, err
			}
			rec.RecordRead(len(data))
			nodesVisited++
			step = step.ResumeRead(data)
		case btree.KindAllocate:
			length := step.AllocLength()
			offset, err := store.Allocate(ctx, length)
			if err != nil {
				var zero T
				return zero, nodesVisited, err
			}
			rec.RecordAllocate(length)
			step = step.ResumeAlloc(offset)
		default:
			result, err := Run(ctx, store, step)
			return result, nodesVisited, err
		}
	}
}
