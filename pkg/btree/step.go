package btree

import "github.com/cockroachdb/errors"

// StepKind discriminates the three cases of the suspendable computation
// every btree operation returns: spec.md §4.4's Done | ReadBlock |
// Allocate sum type.
type StepKind int

const (
	// KindDone means the operation has finished; Result holds its value.
	KindDone StepKind = iota
	// KindReadBlock means the caller must supply the bytes at
	// ReadRequest() and resume with ResumeRead.
	KindReadBlock
	// KindAllocate means the caller must reserve AllocLength() fresh
	// bytes and resume with ResumeAlloc, supplying the chosen offset.
	KindAllocate
)

// Block identifies a byte range a ReadBlock step needs.
type Block struct {
	Offset int64
	Length int
}

// WriteOp is a single durable write the caller must apply. Mutating
// operations batch these inside their terminal Done payload rather than
// performing any I/O themselves (spec.md §4.4: "Write operations are
// not in the protocol").
type WriteOp struct {
	Offset int64
	Data   []byte
}

// Step is the tagged variant the design notes in spec.md §9 describe as
// a language-neutral free monad: a boxed, one-shot continuation paired
// with the data needed to resume it. Continuations must be invoked in
// exactly the order they are produced and never replayed.
type Step[T any] struct {
	kind StepKind

	done T

	block  Block
	onRead func([]byte) Step[T]

	allocLen int
	onAlloc  func(int64) Step[T]
}

// Done builds a terminal step carrying the operation's result.
func Done[T any](v T) Step[T] {
	return Step[T]{kind: KindDone, done: v}
}

// ReadBlock builds a step that suspends until the caller supplies the
// bytes at [offset, offset+length).
func ReadBlock[T any](offset int64, length int, k func([]byte) Step[T]) Step[T] {
	return Step[T]{kind: KindReadBlock, block: Block{Offset: offset, Length: length}, onRead: k}
}

// Allocate builds a step that suspends until the caller supplies the
// offset of a freshly reserved, contiguous region of the given length.
func Allocate[T any](length int, k func(int64) Step[T]) Step[T] {
	return Step[T]{kind: KindAllocate, allocLen: length, onAlloc: k}
}

// Kind reports which of the three cases s currently is.
func (s Step[T]) Kind() StepKind { return s.kind }

// Result returns the terminal value. Calling it on a non-Done step is a
// caller-contract violation (spec.md §7).
func (s Step[T]) Result() T {
	if s.kind != KindDone {
		panic(errors.AssertionFailedf("btree: Result called on a %v step", s.kind))
	}
	return s.done
}

// ReadRequest returns the block a ReadBlock step needs.
func (s Step[T]) ReadRequest() Block {
	if s.kind != KindReadBlock {
		panic(errors.AssertionFailedf("btree: ReadRequest called on a %v step", s.kind))
	}
	return s.block
}

// ResumeRead feeds the requested bytes back in and returns the next step.
func (s Step[T]) ResumeRead(data []byte) Step[T] {
	if s.kind != KindReadBlock {
		panic(errors.AssertionFailedf("btree: ResumeRead called on a %v step", s.kind))
	}
	if len(data) != s.block.Length {
		panic(errors.AssertionFailedf("btree: ResumeRead got %d bytes, want %d", len(data), s.block.Length))
	}
	return s.onRead(data)
}

// AllocLength returns the number of bytes an Allocate step needs reserved.
func (s Step[T]) AllocLength() int {
	if s.kind != KindAllocate {
		panic(errors.AssertionFailedf("btree: AllocLength called on a %v step", s.kind))
	}
	return s.allocLen
}

// ResumeAlloc feeds the chosen offset back in and returns the next step.
func (s Step[T]) ResumeAlloc(offset int64) Step[T] {
	if s.kind != KindAllocate {
		panic(errors.AssertionFailedf("btree: ResumeAlloc called on a %v step", s.kind))
	}
	return s.onAlloc(offset)
}

// andThen sequences two suspendable computations: it runs s to
// completion and feeds its result into k, transparently forwarding
// every ReadBlock/Allocate suspension s raises along the way. This is
// the "bind" spec.md §9 alludes to when it says the loop-based rewrite
// and the tagged-variant rewrite are equivalent.
func andThen[T, U any](s Step[T], k func(T) Step[U]) Step[U] {
	switch s.kind {
	case KindDone:
		return k(s.done)
	case KindReadBlock:
		return ReadBlock(s.block.Offset, s.block.Length, func(data []byte) Step[U] {
			return andThen(s.onRead(data), k)
		})
	case KindAllocate:
		return Allocate(s.allocLen, func(offset int64) Step[U] {
			return andThen(s.onAlloc(offset), k)
		})
	default:
		panic(errors.AssertionFailedf("btree: unreachable step kind %v", s.kind))
	}
}
