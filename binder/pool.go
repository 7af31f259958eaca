package binder

import (
	"sync"
	"sync/atomic"

	"github.com/teranos/attrbind/bound"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// Arguments is the transient argument binding of one attribute
// application. Constructor arguments (unnamed and name: arguments) are in
// Positional, in source order, with Names and Syntax aligned by index.
// Field and property assignments (Name = value) are in Named.
//
// An Arguments value is only valid for the duration of one Bind call.
type Arguments struct {
	Site       *syntax.Attribute
	Positional []bound.Expr
	Names      []string // "" for an unnamed argument
	Syntax     []*syntax.Argument
	Named      []NamedArgument

	ctorNames  map[string]struct{}
	namedNames map[string]struct{}
}

// NamedArgument is one Name = value assignment. Target is nil when the
// name does not exist on the attribute class.
type NamedArgument struct {
	Name   string
	Target symbols.Member
	Value  bound.Expr
	Syntax *syntax.Argument
}

// HasNames reports whether any constructor argument was passed by name
func (a *Arguments) HasNames() bool {
	for _, n := range a.Names {
		if n != "" {
			return true
		}
	}
	return false
}

// Count is the number of constructor arguments
func (a *Arguments) Count() int { return len(a.Positional) }

func (a *Arguments) reset() {
	a.Site = nil
	clear(a.Positional)
	a.Positional = a.Positional[:0]
	a.Names = a.Names[:0]
	clear(a.Syntax)
	a.Syntax = a.Syntax[:0]
	clear(a.Named)
	a.Named = a.Named[:0]
	clear(a.ctorNames)
	clear(a.namedNames)
}

// argumentPool hands out Arguments buffers. Every acquire is matched by
// exactly one release through argumentScope.
type argumentPool struct {
	pool     sync.Pool
	acquired atomic.Int64
	released atomic.Int64
}

func newArgumentPool() *argumentPool {
	return &argumentPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Arguments{
					ctorNames:  make(map[string]struct{}),
					namedNames: make(map[string]struct{}),
				}
			},
		},
	}
}

// argumentScope owns one checked-out buffer until release
type argumentScope struct {
	args *Arguments
	pool *argumentPool
	done atomic.Bool
}

func (p *argumentPool) acquire(site *syntax.Attribute) *argumentScope {
	args := p.pool.Get().(*Arguments)
	args.Site = site
	p.acquired.Add(1)
	return &argumentScope{args: args, pool: p}
}

// release returns the buffer to the pool. Calls after the first are no-ops.
func (s *argumentScope) release() {
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	s.args.reset()
	s.pool.pool.Put(s.args)
	s.pool.released.Add(1)
	s.args = nil
}

// PoolStats reports how many argument buffers were checked out and
// returned. Outside of a Bind call the two are equal.
type PoolStats struct {
	Acquired int64
	Released int64
}

func (p *argumentPool) stats() PoolStats {
	return PoolStats{Acquired: p.acquired.Load(), Released: p.released.Load()}
}
