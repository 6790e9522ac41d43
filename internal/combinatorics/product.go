package combinatorics

import (
	"github.com/Iron-Ham/cobalt/internal/errors"
)

// ProductSet is the cartesian product of a list of non-empty sets.
// A product over zero sets yields no combinations.
type ProductSet[T any] struct {
	sets [][]T
}

// NewProductSet fails when any of the input sets is empty. The inputs are
// copied, so later changes by the caller are not observed.
func NewProductSet[T any](sets [][]T) (ProductSet[T], error) {
	cp := make([][]T, len(sets))
	for i, s := range sets {
		if len(s) == 0 {
			return ProductSet[T]{}, errors.Invalidf("expecting a set of non-empty sets (set %d is empty)", i)
		}
		cp[i] = append([]T(nil), s...)
	}
	return ProductSet[T]{sets: cp}, nil
}

// EmptyProduct returns the product with nothing to combine.
func EmptyProduct[T any]() ProductSet[T] {
	return ProductSet[T]{}
}

// IsEmpty reports whether the product yields no combinations.
func (p ProductSet[T]) IsEmpty() bool { return len(p.sets) == 0 }

// Size returns the number of combinations.
func (p ProductSet[T]) Size() int {
	if len(p.sets) == 0 {
		return 0
	}
	n := 1
	for _, s := range p.sets {
		n *= len(s)
	}
	return n
}

// Iterator returns a fresh cursor over the combinations.
func (p ProductSet[T]) Iterator() *ProductIterator[T] {
	return &ProductIterator[T]{
		sets:    p.sets,
		indices: make([]int, len(p.sets)),
		done:    len(p.sets) == 0,
	}
}

// ProductIterator walks a product set with a mixed-radix counter. The first
// set varies fastest.
type ProductIterator[T any] struct {
	sets    [][]T
	indices []int
	done    bool
}

// HasNext reports whether Next would return a combination.
func (it *ProductIterator[T]) HasNext() bool { return !it.done }

// Next returns the current combination, one element per set in input order,
// and advances the counter. The second result is false once the product is
// exhausted.
func (it *ProductIterator[T]) Next() ([]T, bool) {
	if it.done {
		return nil, false
	}
	out := make([]T, len(it.sets))
	for i, s := range it.sets {
		out[i] = s[it.indices[i]]
	}
	it.done = true
	for i, s := range it.sets {
		it.indices[i]++
		if it.indices[i] < len(s) {
			it.done = false
			break
		}
		it.indices[i] = 0
	}
	return out, true
}

// All collects every remaining combination.
func (it *ProductIterator[T]) All() [][]T {
	var out [][]T
	for {
		c, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}
