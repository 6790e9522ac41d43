package combinatorics

import (
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// bitset is a fixed-width membership mask over item indices.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) with(i int) bitset {
	out := append(bitset(nil), b...)
	out[i/64] |= 1 << (uint(i) % 64)
	return out
}

func (b bitset) containsAll(o bitset) bool {
	for i, w := range o {
		if b[i]&w != w {
			return false
		}
	}
	return true
}

type expansion struct {
	set  bitset
	tail int
}

// OrderedPowerSet lazily enumerates the non-empty subsets of a set by
// ascending cardinality. Subsets of equal size follow the input order.
//
// Supersets of any set passed to ExcludeSupersetsOf are never produced, even
// when the exclusion happens mid-enumeration. Pruned subsets are not expanded
// further, which is what keeps enumeration tractable when most combinations
// conflict.
type OrderedPowerSet[T sets.Keyed] struct {
	items    []T
	index    map[string]int
	excluded []bitset

	queue   []expansion
	current expansion
	next    int
	started bool
}

// NewOrderedPowerSet returns an iterator over the subsets of items. Duplicate
// items (equal keys) are collapsed.
func NewOrderedPowerSet[T sets.Keyed](items []T) *OrderedPowerSet[T] {
	distinct := sets.New(items...).Items()
	index := make(map[string]int, len(distinct))
	for i, it := range distinct {
		index[it.Key()] = i
	}
	return &OrderedPowerSet[T]{items: distinct, index: index}
}

// ExcludeSupersetsOf suppresses every future subset containing all of set.
// Sets holding values outside the universe can never be contained and are
// ignored.
func (ps *OrderedPowerSet[T]) ExcludeSupersetsOf(set []T) {
	mask := newBitset(len(ps.items))
	for _, v := range set {
		i, ok := ps.index[v.Key()]
		if !ok {
			return
		}
		mask = mask.with(i)
	}
	ps.excluded = append(ps.excluded, mask)
}

func (ps *OrderedPowerSet[T]) isExcluded(b bitset) bool {
	for _, x := range ps.excluded {
		if b.containsAll(x) {
			return true
		}
	}
	return false
}

// Next returns the next subset in input order. The second result is false
// once every subset has been produced or pruned.
func (ps *OrderedPowerSet[T]) Next() ([]T, bool) {
	if !ps.started {
		ps.started = true
		ps.current = expansion{set: newBitset(len(ps.items))}
		ps.next = 0
	}
	for {
		for ps.next < len(ps.items) {
			i := ps.next
			ps.next++
			candidate := ps.current.set.with(i)
			if ps.isExcluded(candidate) {
				continue
			}
			ps.queue = append(ps.queue, expansion{set: candidate, tail: ps.next})
			return ps.members(candidate), true
		}
		if len(ps.queue) == 0 {
			return nil, false
		}
		ps.current, ps.queue = ps.queue[0], ps.queue[1:]
		ps.next = ps.current.tail
	}
}

func (ps *OrderedPowerSet[T]) members(b bitset) []T {
	var out []T
	for i, it := range ps.items {
		if b[i/64]&(1<<(uint(i)%64)) != 0 {
			out = append(out, it)
		}
	}
	return out
}
