// Package tally provides an insertion-ordered name counter. Ordering matters:
// reconciliation is greedy over input order and winner ties go to the name
// seen first.
package tally

import "sort"

// Entry is one name and its count.
type Entry struct {
	Name  string
	Count int
}

// Counter maps names to counts, remembering first-insertion order.
// The zero value is not usable; call New.
type Counter struct {
	order []string
	index map[string]int
}

// New returns an empty Counter.
func New() *Counter {
	return &Counter{index: make(map[string]int)}
}

// FromEntries builds a Counter from entries in order. Repeated names add up.
func FromEntries(entries ...Entry) *Counter {
	c := New()
	for _, e := range entries {
		c.Add(e.Name, e.Count)
	}
	return c
}

// Add increments name by n, appending it if unseen.
func (c *Counter) Add(name string, n int) {
	if _, ok := c.index[name]; !ok {
		c.order = append(c.order, name)
	}
	c.index[name] += n
}

// Inc increments name by one.
func (c *Counter) Inc(name string) { c.Add(name, 1) }

// Get returns the count for name.
func (c *Counter) Get(name string) (int, bool) {
	n, ok := c.index[name]
	return n, ok
}

// Remove deletes name and returns its count.
func (c *Counter) Remove(name string) int {
	n, ok := c.index[name]
	if !ok {
		return 0
	}
	delete(c.index, name)
	for i, k := range c.order {
		if k == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return n
}

// Len returns the number of distinct names.
func (c *Counter) Len() int { return len(c.order) }

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.index {
		total += n
	}
	return total
}

// Keys returns names in insertion order.
func (c *Counter) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Entries returns name/count pairs in insertion order.
func (c *Counter) Entries() []Entry {
	entries := make([]Entry, len(c.order))
	for i, k := range c.order {
		entries[i] = Entry{Name: k, Count: c.index[k]}
	}
	return entries
}

// Top returns up to k entries by descending count; ties keep insertion
// order. k <= 0 returns every entry.
func (c *Counter) Top(k int) []Entry {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if k > 0 && k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// Max returns the highest-count entry, first seen on ties.
func (c *Counter) Max() (Entry, bool) {
	if len(c.order) == 0 {
		return Entry{}, false
	}
	best := Entry{Name: c.order[0], Count: c.index[c.order[0]]}
	for _, k := range c.order[1:] {
		if n := c.index[k]; n > best.Count {
			best = Entry{Name: k, Count: n}
		}
	}
	return best, true
}

// Merge adds every entry of other into c, in other's order.
func (c *Counter) Merge(other *Counter) {
	if other == nil {
		return
	}
	for _, k := range other.order {
		c.Add(k, other.index[k])
	}
}

// Clone returns an independent copy.
func (c *Counter) Clone() *Counter {
	out := New()
	out.Merge(c)
	return out
}
