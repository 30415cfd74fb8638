// Package keypool manages the pool of generative-API credentials shared by
// every capability adapter. Quota exhaustion on one key advances a cursor so
// the next call runs on a fresh key; the pool itself is append-only, so the
// cursor is the only mutable field and a plain atomic is enough.
package keypool

import (
	"log"
	"sync/atomic"
)

// Pool hands out the current credential and rotates forward on demand.
// The zero value is usable and behaves as an empty pool.
type Pool struct {
	keys    []string
	primary string
	cursor  atomic.Uint64
}

// New builds a pool from an ordered key list and an optional primary
// override. Blank keys are dropped; an all-blank pool is valid and yields
// empty credentials (adapters turn those into auth failures, not panics).
func New(keys []string, primary string) *Pool {
	p := &Pool{primary: primary}
	for _, k := range keys {
		if k != "" {
			p.keys = append(p.keys, k)
		}
	}
	return p
}

// Current returns the override if set, otherwise the key under the cursor.
// An empty pool without an override returns "".
func (p *Pool) Current() string {
	if p.primary != "" {
		return p.primary
	}
	if len(p.keys) == 0 {
		return ""
	}
	idx := p.cursor.Load() % uint64(len(p.keys))
	return p.keys[idx]
}

// Rotate advances the cursor so subsequent Current calls return the next
// key. No-op on an empty pool. Safe to call from any goroutine.
func (p *Pool) Rotate() {
	if len(p.keys) == 0 {
		return
	}
	next := p.cursor.Add(1)
	log.Printf("Rotated to API key %d/%d", next%uint64(len(p.keys))+1, len(p.keys))
}

// Size reports the number of rotatable keys (the override not included).
func (p *Pool) Size() int { return len(p.keys) }
