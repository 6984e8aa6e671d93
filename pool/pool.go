// Package pool provides a fixed-size free list for recycling heap blocks.
//
// It exists so that structures which allocate and release many small nodes at
// a high rate (tree subdivision and collapse, chained element groups) do not
// pay for a fresh heap allocation on every cycle. Like the structures it
// backs, a Pool is not safe for concurrent use.
package pool

// Pool retains up to a fixed number of released blocks for reuse. Blocks keep
// a stable address from Get until Put, so callers may hold pointers to them.
type Pool[T any] struct {
	freelist []*T
	newFn    func() *T
	live     int
}

// New returns a pool that keeps at most size released blocks and mints fresh
// ones with newFn when the free list is empty.
func New[T any](size int, newFn func() *T) *Pool[T] {
	return &Pool[T]{freelist: make([]*T, 0, size), newFn: newFn}
}

// Get returns a recycled block when one is available and a fresh one
// otherwise. The caller is responsible for the block's state; recycled blocks
// come back exactly as they were Put.
func (p *Pool[T]) Get() *T {
	p.live++
	index := len(p.freelist) - 1
	if index < 0 {
		return p.newFn()
	}
	block := p.freelist[index]
	p.freelist[index] = nil
	p.freelist = p.freelist[:index]
	return block
}

// Put releases a block back to the pool. It returns true when the block was
// retained for reuse and false when the free list was full and the block was
// surrendered to the garbage collector.
func (p *Pool[T]) Put(block *T) (out bool) {
	p.live--
	if len(p.freelist) < cap(p.freelist) {
		p.freelist = append(p.freelist, block)
		out = true
	}
	return
}

// Live returns the number of blocks currently handed out, counting both
// recycled and freshly minted ones.
func (p *Pool[T]) Live() int {
	return p.live
}
