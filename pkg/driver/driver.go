// Package driver provides reference BlockStore implementations that
// pump a btree.Step computation to completion: an in-memory store for
// tests, an fsynced file store for a real on-disk tree, and a
// pebble-backed store for embedding a tree inside an existing pebble
// deployment. None of this is required by the core — any BlockStore
// implementation can drive pkg/btree.
package driver

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/ixtree/pkg/btree"
)

// BlockStore is the collaborator a caller supplies to Run: it knows how
// to satisfy a ReadBlock suspension, how to satisfy an Allocate
// suspension, and how to durably apply the writes a mutating operation
// returns in its terminal Done payload.
type BlockStore interface {
	ReadAt(ctx context.Context, offset int64, length int) ([]byte, error)
	Allocate(ctx context.Context, length int) (int64, error)
	Apply(ctx context.Context, writes []btree.WriteOp) error
}

// Run drives step to completion against store, answering every
// ReadBlock and Allocate suspension in turn. It does not know what T
// is or whether it carries pending writes — callers that get back an
// InsertResult (or any result embedding writes) are expected to Apply
// those themselves; Run only pumps the protocol, it never inspects the
// terminal value.
func Run[T any](ctx context.Context, store BlockStore, step btree.Step[T]) (T, error) {
	for {
		switch step.Kind() {
		case btree.KindDone:
			return step.Result(), nil
		case btree.KindReadBlock:
			req := step.ReadRequest()
			data, err := store.ReadAt(ctx, req.Offset, req.Length)
			if err != nil {
				var zero T
				return zero, errors.Wrapf(err, "driver: read block at offset %d length %d", req.Offset, req.Length)
			}
			step = step.ResumeRead(data)
		case btree.KindAllocate:
			length := step.AllocLength()
			offset, err := store.Allocate(ctx, length)
			if err != nil {
				var zero T
				return zero, errors.Wrapf(err, "driver: allocate %d bytes", length)
			}
			step = step.ResumeAlloc(offset)
		default:
			var zero T
			return zero, errors.AssertionFailedf("driver: unreachable step kind %v", step.Kind())
		}
	}
}

// ApplyWriter is satisfied by any terminal result that carries pending
// writes, letting callers Apply a result in one line:
// driver.ApplyResult(ctx, store, result).
type ApplyWriter interface {
	PendingWrites() []btree.WriteOp
}

// ApplyResult applies the writes a mutating result carries, if any.
func ApplyResult(ctx context.Context, store BlockStore, result ApplyWriter) error {
	writes := result.PendingWrites()
	if len(writes) == 0 {
		return nil
	}
	return store.Apply(ctx, writes)
}
