// Package model implements the adaptive PPM frequency model: a
// per-order table of contexts, each mapping symbols to counts with an
// always-present escape (ESC) entry, plus the escape-and-exclusion
// cascade that the PPM driver walks on every symbol.
package model

import (
	"encoding/binary"
	"fmt"
)

// Symbol is an alphabet member. Normal symbols occupy [0, N); N is
// EOF; N+1 is ESC.
type Symbol int32

// Fraction is an integer (left, right, total) triple describing a
// symbol's sub-interval within [0, total), matching
// internal/arith.Fraction without this package depending on arith.
type Fraction struct {
	Left, Right, Total uint64
}

// Model is the adaptive (order -> context -> ContextEntry) table.
// Order -1 (the context-free fallback) is handled specially and never
// allocates a ContextEntry: it is always a uniform distribution over
// [0, N+1). Seeded counts (see Seed) go into the order-0 context, not
// into order -1.
type Model struct {
	k       int
	n       int32
	eof     Symbol
	esc     Symbol
	orders  []map[string]*contextEntry // orders[o] holds order-o contexts, o in [0,k]
	seeded  bool
	seedMap map[Symbol]uint64 // not populated: Seed writes straight into the order-0 context entry
}

// New creates an empty model for a codec with max order k and n
// normal symbols (excluding EOF/ESC).
func New(k int, n int32) (*Model, error) {
	if k < 0 {
		return nil, fmt.Errorf("model: K=%d must be >= 0", k)
	}
	if n < 1 {
		return nil, fmt.Errorf("model: N=%d must be >= 1", n)
	}
	m := &Model{
		k:      k,
		n:      n,
		eof:    Symbol(n),
		esc:    Symbol(n + 1),
		orders: make([]map[string]*contextEntry, k+1),
	}
	for o := range m.orders {
		m.orders[o] = make(map[string]*contextEntry)
	}
	return m, nil
}

// EOF returns the distinguished end-of-stream symbol.
func (m *Model) EOF() Symbol { return m.eof }

// ESC returns the distinguished escape symbol.
func (m *Model) ESC() Symbol { return m.esc }

// contextEntry maps symbol -> count, preserving insertion order: ESC
// is always present and, for a freshly materialized context, inserted
// first. Iteration order is part of the wire contract because it
// determines how each symbol's sub-interval is placed inside [0,1).
type contextEntry struct {
	symbols []Symbol
	counts  []uint32
	index   map[Symbol]int
}

func newContextEntry(esc Symbol) *contextEntry {
	c := &contextEntry{
		symbols: make([]Symbol, 0, 4),
		counts:  make([]uint32, 0, 4),
		index:   make(map[Symbol]int, 4),
	}
	c.append(esc, 1)
	return c
}

func (c *contextEntry) append(sym Symbol, count uint32) {
	c.index[sym] = len(c.symbols)
	c.symbols = append(c.symbols, sym)
	c.counts = append(c.counts, count)
}

func (c *contextEntry) increment(sym Symbol) {
	if i, ok := c.index[sym]; ok {
		c.counts[i]++
		return
	}
	c.append(sym, 1)
}

// contextKey encodes a context (a slice of recent symbols, oldest
// first) as a map key. Order 0's context is always the empty string.
func contextKey(ctx []Symbol) string {
	if len(ctx) == 0 {
		return ""
	}
	buf := make([]byte, 4*len(ctx))
	for i, s := range ctx {
		binary.BigEndian.PutUint32(buf[i*4:], uint32(s))
	}
	return string(buf)
}

func (m *Model) contextFor(order int, ctx []Symbol) *contextEntry {
	key := contextKey(ctx)
	entry, ok := m.orders[order][key]
	if !ok {
		entry = newContextEntry(m.esc)
		m.orders[order][key] = entry
	}
	return entry
}

// SubContext returns the last o symbols of history, the "order-o"
// context. history is the encoder/decoder's sliding window, oldest
// symbol first. Order 0 and the order -1 fallback have the empty
// context (nil).
func SubContext(history []Symbol, o int) []Symbol {
	if o <= 0 {
		return nil
	}
	if o > len(history) {
		panic(fmt.Sprintf("model: SubContext order %d out of range for history length %d", o, len(history)))
	}
	return history[len(history)-o:]
}

// Exclude is the per-call exclusion set accumulated as higher orders
// fail. A fresh one is created per encode/decode call.
type Exclude map[Symbol]struct{}

// NewExclude returns an empty exclusion set.
func NewExclude() Exclude {
	return make(Exclude)
}

func (e Exclude) has(s Symbol) bool {
	_, ok := e[s]
	return ok
}

func (e Exclude) add(s Symbol) {
	e[s] = struct{}{}
}

// Clone returns an independent copy, used by the driver to try a
// symbol lookup at a given order without polluting the exclude set
// that will be reused if that lookup fails and the driver must encode
// an escape instead (see Encoder.Encode / Decoder.Decode).
func (e Exclude) Clone() Exclude {
	c := make(Exclude, len(e))
	for s := range e {
		c[s] = struct{}{}
	}
	return c
}

// Interval computes sym's sub-interval at (order, ctx) under PPM
// exclusion. ok is false if sym was not found (or only found in
// excluded state); exclude is updated in place with every non-excluded
// non-ESC symbol walked along the way, per spec.
func (m *Model) Interval(order int, ctx []Symbol, sym Symbol, exclude Exclude) (frac Fraction, ok bool) {
	if order < 0 {
		return m.orderMinus1Interval(sym), true
	}
	entry := m.contextFor(order, ctx)

	var acc, left, right uint64
	found := false
	for i, s := range entry.symbols {
		f := uint64(entry.counts[i])
		if s != m.esc && exclude.has(s) {
			continue // already escaped at a higher order: contributes nothing
		}
		if s != m.esc {
			exclude.add(s)
		}
		if s == sym {
			left = acc
			acc += f
			right = acc
			found = true
		} else {
			acc += f
		}
	}

	if !found {
		return Fraction{}, false
	}
	return Fraction{Left: left, Right: right, Total: acc}, true
}

// Query is the decode-side inverse of Interval: given a scaled point
// in [0, total) it returns the symbol whose sub-interval contains it,
// walking contexts under the identical exclusion rule.
//
// The full entry is always scanned to completion (not just up to the
// matching symbol) because Total must equal the same denominator
// Interval would have produced for the encoder's matching call: the
// sum of every non-excluded symbol's count, including symbols that
// sort after the match.
func (m *Model) Query(order int, ctx []Symbol, point uint64, exclude Exclude) (sym Symbol, frac Fraction, ok bool) {
	if order < 0 {
		return m.orderMinus1Query(point)
	}
	entry := m.contextFor(order, ctx)

	var acc uint64
	var left, right uint64
	matched := Symbol(0)
	found := false
	for i, s := range entry.symbols {
		if s != m.esc && exclude.has(s) {
			continue
		}
		if s != m.esc {
			exclude.add(s)
		}
		f := uint64(entry.counts[i])
		next := acc + f
		if !found && point < next {
			matched, left, right, found = s, acc, next, true
		}
		acc = next
	}

	if !found {
		return 0, Fraction{}, false
	}
	return matched, Fraction{Left: left, Right: right, Total: acc}, true
}

// Total computes the denominator a decoder must scale its code window
// by before calling Query at (order, ctx): the sum of every symbol's
// count that Query would accumulate over under the same exclusion
// rule. exclude is mutated exactly like Interval/Query would mutate
// it; callers that still need the pre-call exclude state afterward
// (i.e. everyone, since Query itself needs to start from that same
// state) must pass a disposable clone here.
func (m *Model) Total(order int, ctx []Symbol, exclude Exclude) uint64 {
	if order < 0 {
		return uint64(m.n) + 1
	}
	entry := m.contextFor(order, ctx)

	var acc uint64
	for i, s := range entry.symbols {
		if s != m.esc && exclude.has(s) {
			continue
		}
		if s != m.esc {
			exclude.add(s)
		}
		acc += uint64(entry.counts[i])
	}
	return acc
}

// Record increments ctx's count for sym, creating the context (seeded
// with {ESC: 1}) if this is its first visit.
func (m *Model) Record(order int, ctx []Symbol, sym Symbol) {
	if order < 0 {
		return // order -1 is never updated; it is a fixed fallback.
	}
	m.contextFor(order, ctx).increment(sym)
}

// Seed preloads order-0 counts, giving the coder a warm start (e.g.
// from a static counts file). It must be called before any Interval,
// Query or Record call at order 0.
func (m *Model) Seed(sym Symbol, count uint32) {
	if count == 0 {
		return
	}
	entry := m.contextFor(0, nil)
	entry.overwrite(sym, count)
	m.seeded = true
}

func (c *contextEntry) overwrite(sym Symbol, count uint32) {
	if i, ok := c.index[sym]; ok {
		c.counts[i] = count
		return
	}
	c.append(sym, count)
}

// orderMinus1Interval implements the order -1 fallback: a uniform
// distribution over [0, N+1) (EOF included, ESC excluded). It never
// fails.
func (m *Model) orderMinus1Interval(sym Symbol) Fraction {
	total := uint64(m.n) + 1
	return Fraction{Left: uint64(sym), Right: uint64(sym) + 1, Total: total}
}

func (m *Model) orderMinus1Query(point uint64) (Symbol, Fraction, bool) {
	total := uint64(m.n) + 1
	sym := Symbol(point)
	if uint64(sym) >= total {
		sym = Symbol(total - 1)
	}
	return sym, Fraction{Left: uint64(sym), Right: uint64(sym) + 1, Total: total}, true
}
