// Package repeaterlist implements an order-statistics container over
// groups of repeated items: a sequence where consecutive logical slots
// belong to the same group (e.g. the "stub list" used by degree-preserving
// network rewiring, spec §4.G.1/§9), supporting O(log n) indexed access,
// single-unit erase with a restore token, and whole-group erase.
//
// This mirrors a balanced binary search tree keyed on cumulative counts;
// it is implemented with a Fenwick (binary-indexed) tree over per-group
// active counts, which gives the same O(log n) prefix-sum / point-update
// bounds with a flatter, allocation-light structure.
package repeaterlist

// group holds one (item, count) entry: item repeats count times logically.
type group[T any] struct {
	item   T
	active int
}

// List is a RepeaterList over items of type T.
type List[T any] struct {
	groups []group[T]
	bit    []int // Fenwick tree, 1-indexed, over groups[i].active
	total  int
}

// Pair is one (item, count) input entry.
type Pair[T any] struct {
	Item  T
	Count int
}

// New builds a List from pairs, in the given order.
func New[T any](pairs []Pair[T]) *List[T] {
	l := &List[T]{
		groups: make([]group[T], len(pairs)),
		bit:    make([]int, len(pairs)+1),
	}
	for i, p := range pairs {
		l.groups[i] = group[T]{item: p.Item, active: p.Count}
		l.total += p.Count
	}
	for i := range l.groups {
		l.bitAdd(i, l.groups[i].active)
	}
	return l
}

func (l *List[T]) bitAdd(i, delta int) {
	for i++; i <= len(l.groups); i += i & (-i) {
		l.bit[i] += delta
	}
}

func (l *List[T]) bitPrefix(i int) int {
	sum := 0
	for ; i > 0; i -= i & (-i) {
		sum += l.bit[i]
	}
	return sum
}

// Size returns the number of currently active slots across all groups.
func (l *List[T]) Size() int { return l.total }

// NumGroups returns the number of groups, including fully-erased ones
// (their slot range is simply empty).
func (l *List[T]) NumGroups() int { return len(l.groups) }

// groupOf returns the group index owning logical (0-indexed) slot pos,
// via binary-indexed-tree order-statistics search.
func (l *List[T]) groupOf(pos int) int {
	idx := 0
	remaining := pos + 1
	logN := 1
	for logN<<1 <= len(l.groups) {
		logN <<= 1
	}
	for step := logN; step > 0; step >>= 1 {
		next := idx + step
		if next <= len(l.groups) && l.bit[next] < remaining {
			idx = next
			remaining -= l.bit[next]
		}
	}
	return idx // idx is the 0-indexed group whose active range contains pos
}

// At returns the item occupying logical slot pos (0-indexed among
// currently active slots, in group order).
func (l *List[T]) At(pos int) T {
	g := l.groupOf(pos)
	return l.groups[g].item
}

// GroupStart returns the first logical slot index of the group containing
// pos.
func (l *List[T]) GroupStart(pos int) int {
	g := l.groupOf(pos)
	if g == 0 {
		return 0
	}
	return l.bitPrefix(g)
}

// GroupEnd returns the last logical slot index of the group containing
// pos.
func (l *List[T]) GroupEnd(pos int) int {
	g := l.groupOf(pos)
	return l.bitPrefix(g+1) - 1
}

// Erase removes one unit from the group occupying pos and returns a
// restore token (the group index) for RestoreItemOfGroup.
func (l *List[T]) Erase(pos int) int {
	g := l.groupOf(pos)
	l.bitAdd(g, -1)
	l.groups[g].active--
	l.total--
	return g
}

// RestoreItemOfGroup adds one unit back to the group identified by id (as
// returned from Erase), undoing a prior Erase call.
func (l *List[T]) RestoreItemOfGroup(id int) {
	l.bitAdd(id, 1)
	l.groups[id].active++
	l.total++
}

// EraseGroup removes every remaining unit of the group occupying pos and
// returns the number of units removed.
func (l *List[T]) EraseGroup(pos int) int {
	g := l.groupOf(pos)
	removed := l.groups[g].active
	if removed == 0 {
		return 0
	}
	l.bitAdd(g, -removed)
	l.groups[g].active = 0
	l.total -= removed
	return removed
}
