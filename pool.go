package tilealias

import (
	"runtime"
	"sync"
	"weak"
)

// Pool deduplicates alias textures by (tileset, renderer).
//
// The pool holds entries weakly: an Alias lives as long as some caller
// references it. When the last reference is garbage collected, its texture
// is destroyed and its tileset subscription cancelled on the next call to
// Collect, Acquire or Close. Renderer calls therefore always happen on a
// goroutine that called into the pool or mutated a tileset, never on the
// runtime's cleanup goroutine.
//
// Pool is safe for concurrent use.
type Pool struct {
	opts poolOptions

	mu       sync.Mutex
	entries  map[Key]poolEntry
	live     map[*aliasResources]struct{}
	closed   bool
	hits     uint64
	misses   uint64
	released uint64

	// queue receives resources of collected aliases from cleanups.
	queueMu     sync.Mutex
	queue       []*aliasResources
	queueClosed bool
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	// Hits counts Acquire calls that returned an existing alias.
	Hits uint64

	// Misses counts Acquire calls that created an alias.
	Misses uint64

	// Live is the number of aliases whose resources are not yet released.
	Live int

	// Released counts aliases whose resources were released by Remove,
	// Collect or Close.
	Released uint64
}

// NewPool creates an empty pool.
func NewPool(opts ...PoolOption) *Pool {
	o := defaultPoolOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pool{
		opts:    o,
		entries: make(map[Key]poolEntry),
		live:    make(map[*aliasResources]struct{}),
	}
}

// Acquire returns the alias for (ts, r), creating and uploading it on first
// request. Every call with the same pair returns the same *Alias while any
// caller still holds it.
//
// Acquire fails with ErrInvalidArgument when ts or r is nil or not a
// reference type, with ErrPoolClosed after Close, and with the construction
// error (ErrResourceAllocation, ErrEmptyTileset) when the initial upload
// fails. A failed Acquire leaves the pool unchanged.
func (p *Pool) Acquire(ts TileSource, r Renderer) (*Alias, error) {
	key, err := newKey(ts, r)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	p.collectLocked()

	if a := p.lookupLocked(key); a != nil {
		p.hits++
		return a, nil
	}

	a, err := newAlias(key, p.opts)
	if err != nil {
		return nil, err
	}
	p.entries[key] = poolEntry{wp: weak.Make(a), res: a.res}
	p.live[a.res] = struct{}{}
	runtime.AddCleanup(a, p.enqueue, a.res)
	p.misses++

	Logger().Info("tilealias: alias created",
		"alias", a.res.id,
		"key", key,
		"width", a.res.width,
		"height", a.res.height)
	return a, nil
}

// Lookup returns the live alias for (ts, r) without creating one.
func (p *Pool) Lookup(ts TileSource, r Renderer) (*Alias, bool) {
	key, err := newKey(ts, r)
	if err != nil {
		return nil, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	a := p.lookupLocked(key)
	return a, a != nil
}

// Remove closes the alias for (ts, r): its subscription is cancelled, its
// texture destroyed, and its Texture method returns nil from then on.
// Remove reports whether a live alias was found.
func (p *Pool) Remove(ts TileSource, r Renderer) bool {
	key, err := newKey(ts, r)
	if err != nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	a := p.lookupLocked(key)
	if a == nil {
		return false
	}
	delete(p.entries, key)
	p.releaseLocked(a.res)
	Logger().Info("tilealias: alias removed", "alias", a.res.id, "key", key)
	return true
}

// Collect releases the resources of aliases that are no longer referenced
// and returns how many were released.
func (p *Pool) Collect() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collectLocked()
}

// Len returns the number of live aliases.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for key := range p.entries {
		if p.lookupLocked(key) != nil {
			n++
		}
	}
	return n
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Hits:     p.hits,
		Misses:   p.misses,
		Live:     len(p.live),
		Released: p.released,
	}
}

// Close releases every alias of the pool, referenced or not. Aliases still
// held by callers report Closed and return a nil Texture. Acquire fails with
// ErrPoolClosed afterwards. Close is idempotent.
func (p *Pool) Close() {
	p.queueMu.Lock()
	p.queueClosed = true
	p.queue = nil
	p.queueMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	n := len(p.live)
	for res := range p.live {
		p.releaseLocked(res)
	}
	clear(p.entries)
	Logger().Info("tilealias: pool closed", "released", n)
}

// poolEntry keeps the resources of an alias next to its weak pointer, so a
// dead entry can be released before its cleanup has run.
type poolEntry struct {
	wp  weak.Pointer[Alias]
	res *aliasResources
}

// lookupLocked returns the live alias for key. A dead or closed entry is
// dropped and its resources released.
func (p *Pool) lookupLocked(key Key) *Alias {
	a, _ := p.checkLocked(key)
	return a
}

// checkLocked is lookupLocked that also reports whether a dead entry was
// released.
func (p *Pool) checkLocked(key Key) (*Alias, bool) {
	e, ok := p.entries[key]
	if !ok {
		return nil, false
	}
	a := e.wp.Value()
	if a != nil && !a.Closed() {
		return a, false
	}
	delete(p.entries, key)
	if !p.releaseLocked(e.res) {
		return nil, false
	}
	Logger().Info("tilealias: alias collected", "alias", e.res.id, "key", key)
	return nil, true
}

// collectLocked drops dead entries and drains the cleanup queue. Resources
// already released through an entry are skipped in the queue.
func (p *Pool) collectLocked() int {
	n := 0
	for key := range p.entries {
		if _, released := p.checkLocked(key); released {
			n++
		}
	}

	p.queueMu.Lock()
	queue := p.queue
	p.queue = nil
	p.queueMu.Unlock()

	for _, res := range queue {
		if e, ok := p.entries[res.key]; ok && e.res == res {
			delete(p.entries, res.key)
		}
		if p.releaseLocked(res) {
			n++
			Logger().Info("tilealias: alias collected", "alias", res.id, "key", res.key)
		}
	}
	return n
}

// releaseLocked closes res and reports whether it was still live.
func (p *Pool) releaseLocked(res *aliasResources) bool {
	if _, ok := p.live[res]; !ok {
		return false
	}
	delete(p.live, res)
	res.close()
	p.released++
	return true
}

// enqueue runs on the runtime cleanup goroutine after an Alias becomes
// unreachable. It only records res; the renderer is not called here.
func (p *Pool) enqueue(res *aliasResources) {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()
	if p.queueClosed {
		return
	}
	p.queue = append(p.queue, res)
}
