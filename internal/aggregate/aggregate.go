// Package aggregate merges per-cluster results into one answer set and
// writes it out.
package aggregate

import (
	"github.com/abelbrown/ggmine/internal/associate"
	"github.com/abelbrown/ggmine/internal/awards"
	"github.com/abelbrown/ggmine/internal/hosts"
	"github.com/abelbrown/ggmine/internal/reconcile"
)

// Partial is what one cluster worker produces.
type Partial struct {
	Awards     map[string]*awards.Record     // award key -> record
	Nominees   map[string]associate.StringSet // award key -> nominees
	Presenters map[string]associate.StringSet // presenter -> award keys
}

// NewPartial returns an empty Partial.
func NewPartial() Partial {
	return Partial{
		Awards:     map[string]*awards.Record{},
		Nominees:   map[string]associate.StringSet{},
		Presenters: map[string]associate.StringSet{},
	}
}

// Merge unions partials key by key, in argument order. Record scalars
// (name, count, window) take the last partial's value; winner counts are
// summed and sets are unioned. Inputs are not modified.
func Merge(partials ...Partial) Partial {
	out := NewPartial()
	for _, p := range partials {
		for key, rec := range p.Awards {
			prev, ok := out.Awards[key]
			next := rec.Clone()
			if ok && prev.Winners != nil {
				winners := prev.Winners.Clone()
				if next.Winners != nil {
					winners.Merge(next.Winners)
				}
				next.Winners = winners
			}
			out.Awards[key] = next
		}
		unionInto(out.Nominees, p.Nominees)
		unionInto(out.Presenters, p.Presenters)
	}
	return out
}

func unionInto(dst, src map[string]associate.StringSet) {
	for k, set := range src {
		if dst[k] == nil {
			dst[k] = associate.StringSet{}
		}
		dst[k].Union(set)
	}
}

// Award is one finished award entry.
type Award struct {
	Name       string
	Presenters []string
	Nominees   []string
	Winner     string // empty when no candidate was seen
}

// Final is the complete answer set.
type Final struct {
	Hosts  []string
	Awards []Award
}

// Options tunes Finalize.
type Options struct {
	TopK      int // hosts reported; <= 0 means hosts.DefaultTopK
	Threshold int // winner reconciliation threshold
}

// Finalize orders awards by first appearance and picks each winner by
// mention count after reconciling the merged candidates.
func Finalize(merged Partial, hostNames []string, opts Options) Final {
	topK := opts.TopK
	if topK <= 0 {
		topK = hosts.DefaultTopK
	}
	if len(hostNames) > topK {
		hostNames = hostNames[:topK]
	}

	presentersOf := invert(merged.Presenters)

	final := Final{Hosts: hostNames}
	for _, rec := range awards.Sorted(merged.Awards) {
		key := awards.Key(rec.Name)
		a := Award{
			Name:       rec.Name,
			Presenters: presentersOf[key].Sorted(),
			Nominees:   merged.Nominees[key].Sorted(),
		}
		if rec.Winners != nil {
			if best, ok := reconcile.Reconcile(rec.Winners, opts.Threshold).Max(); ok {
				a.Winner = best.Name
			}
		}
		final.Awards = append(final.Awards, a)
	}
	return final
}

// invert turns presenter -> awards into award -> presenters.
func invert(presenters map[string]associate.StringSet) map[string]associate.StringSet {
	out := map[string]associate.StringSet{}
	for presenter, keys := range presenters {
		for key := range keys {
			if out[key] == nil {
				out[key] = associate.StringSet{}
			}
			out[key].Add(presenter)
		}
	}
	return out
}
