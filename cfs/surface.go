package cfs

import (
	"slices"
	"sort"
)

// entry is one logical slot: pos is the payload start (the span field sits
// at pos-4), used is the chain length or 0 when free.
type entry struct {
	pos  int64
	used int
}

// surface is the ordered slot table. Entries are sorted by pos and tile the
// cluster area.
type surface struct {
	entries []entry
}

func newSurface(capacity int) *surface {
	return &surface{entries: make([]entry, 0, capacity)}
}

func (t *surface) len() int { return len(t.entries) }

func (t *surface) at(i int) entry { return t.entries[i] }

func (t *surface) set(i int, e entry) { t.entries[i] = e }

func (t *surface) push(e entry) { t.entries = append(t.entries, e) }

func (t *surface) insert(i int, es ...entry) {
	t.entries = slices.Insert(t.entries, i, es...)
}

// remove deletes entries [i, j).
func (t *surface) remove(i, j int) {
	t.entries = slices.Delete(t.entries, i, j)
}

// indexOf returns the logical index of the slot whose payload starts at pos.
func (t *surface) indexOf(pos int64) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].pos >= pos
	})
	if i < len(t.entries) && t.entries[i].pos == pos {
		return i, true
	}
	return -1, false
}

// findFree returns the start of the first run of at least count free slots.
// When the table ends inside a shorter free run, the start of that trailing
// run is returned so the caller can grow past the end. It returns -1 only
// when no run qualifies.
func (t *surface) findFree(count int) int {
	count = max(count, 1)
	run, start := 0, 0
	last := len(t.entries) - 1
	for i, e := range t.entries {
		if e.used != 0 {
			run = 0
			continue
		}
		if run == 0 {
			start = i
		}
		run++
		if run >= count {
			return i - (count - 1)
		}
		if i == last {
			return start
		}
	}
	return -1
}

// usedClusters is the number of physical clusters owned by chains.
func (t *surface) usedClusters() int64 {
	var n int64
	for _, e := range t.entries {
		n += int64(e.used)
	}
	return n
}
