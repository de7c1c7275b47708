package dng

import (
	"errors"
	"fmt"
)

// ErrAllocationTooLarge is returned by allocators asked for more than they allow.
var ErrAllocationTooLarge = errors.New("allocation too large")

// Block is a memory block handed out by an Allocator.
type Block interface {
	Buffer() []byte
}

// Allocator hands out pixel memory. Implementations must be safe for whatever
// concurrency the caller imposes; the adapters call it synchronously.
type Allocator interface {
	Allocate(size int) (Block, error)
}

type heapBlock []byte

func (b heapBlock) Buffer() []byte { return b }

// HeapAllocator allocates from the Go heap, optionally capped at Limit bytes
// per block.
type HeapAllocator struct {
	Limit int
}

// DefaultAllocator has no per-block limit.
var DefaultAllocator Allocator = HeapAllocator{}

// Allocate returns a zeroed block of size bytes. Blocks are backed by
// []uint16 storage so 16-bit pixel views are always aligned.
func (a HeapAllocator) Allocate(size int) (Block, error) {
	if size < 0 {
		return nil, fmt.Errorf("allocate %d bytes: negative size", size)
	}
	if a.Limit > 0 && size > a.Limit {
		return nil, fmt.Errorf("allocate %d bytes (limit %d): %w", size, a.Limit, ErrAllocationTooLarge)
	}

	words := make([]uint16, (size+1)/2)
	return heapBlock(uint16Bytes(words)[:size]), nil
}
