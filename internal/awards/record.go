package awards

import (
	"sort"
	"strings"

	"github.com/abelbrown/ggmine/internal/tally"
)

// Record is the accumulated detection state of one inferred award name.
type Record struct {
	Name      string         // surface form first seen
	Count     int            // matching posts
	FirstSeen int64          // epoch ms
	LastSeen  int64          // epoch ms
	Winners   *tally.Counter // winner candidate -> mentions
}

func newRecord(name string, ts int64) *Record {
	return &Record{Name: name, FirstSeen: ts, LastSeen: ts, Winners: tally.New()}
}

// observe counts one more matching post at ts and widens the window.
func (r *Record) observe(ts int64) {
	r.Count++
	if ts < r.FirstSeen {
		r.FirstSeen = ts
	}
	if ts > r.LastSeen {
		r.LastSeen = ts
	}
}

// Winner returns the candidate with the most mentions, first seen on ties.
func (r *Record) Winner() (string, bool) {
	if r.Winners == nil {
		return "", false
	}
	best, ok := r.Winners.Max()
	return best.Name, ok
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	out := *r
	if r.Winners != nil {
		out.Winners = r.Winners.Clone()
	}
	return &out
}

// Key normalizes an award name for aggregation: lowercase, single spaces.
func Key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Sorted returns records ordered by first appearance, then key.
func Sorted(records map[string]*Record) []*Record {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := records[keys[i]], records[keys[j]]
		if a.FirstSeen != b.FirstSeen {
			return a.FirstSeen < b.FirstSeen
		}
		return keys[i] < keys[j]
	})

	out := make([]*Record, len(keys))
	for i, k := range keys {
		out[i] = records[k]
	}
	return out
}
