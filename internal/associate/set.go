package associate

import "sort"

// StringSet is an unordered set of strings.
type StringSet map[string]struct{}

// NewStringSet returns a set holding items.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts item.
func (s StringSet) Add(item string) { s[item] = struct{}{} }

// Has reports membership.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Union adds every member of o.
func (s StringSet) Union(o StringSet) {
	for k := range o {
		s.Add(k)
	}
}

// Sorted returns the members in ascending order, or nil when empty.
func (s StringSet) Sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
