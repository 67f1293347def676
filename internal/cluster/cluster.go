// Package cluster groups time-sorted posts into buckets that bound the
// search space of each award.
//
// Two strategies are offered: fixed half-hour buckets (HalfHour) and 1-D
// k-means over timestamps (KMeans). Both expect posts sorted ascending by
// timestamp and keep the relative order of posts inside a cluster.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abelbrown/ggmine/internal/post"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidParameter reports caller misuse, such as asking for more
// clusters than there are posts.
var ErrInvalidParameter = errors.New("invalid parameter")

// maxIterations caps Lloyd iterations; 1-D inputs converge far sooner.
const maxIterations = 300

// Cluster is a set of posts sharing a time bucket or centroid label.
type Cluster struct {
	Key   string
	Start time.Time // bucket boundary (HalfHour) or earliest member (KMeans)
	Posts []post.Post
}

// Label returns the bucket start as wall-clock "15:04".
func (c Cluster) Label() string {
	return c.Start.Format("15:04")
}

// MinTimestamp returns the earliest member timestamp, or MaxInt64 if empty.
func (c Cluster) MinTimestamp() int64 {
	min := int64(math.MaxInt64)
	for _, p := range c.Posts {
		if p.Timestamp < min {
			min = p.Timestamp
		}
	}
	return min
}

// HalfHour buckets each post at the nearest preceding :00 or :30 mark in
// loc. Clusters come back in chronological order.
func HalfHour(posts []post.Post, loc *time.Location) []Cluster {
	if loc == nil {
		loc = time.UTC
	}

	byKey := make(map[int64]*Cluster)
	var keys []int64
	for _, p := range posts {
		start := halfHourFloor(p.Time().In(loc))
		k := start.Unix()
		c, ok := byKey[k]
		if !ok {
			c = &Cluster{Key: start.Format(time.RFC3339), Start: start}
			byKey[k] = c
			keys = append(keys, k)
		}
		c.Posts = append(c.Posts, p)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]Cluster, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}

func halfHourFloor(t time.Time) time.Time {
	minute := 0
	if t.Minute() >= 30 {
		minute = 30
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}

// KMeans partitions posts into k groups over the timestamp feature. Cluster
// order follows centroid labels and carries no chronological meaning; use
// Chronological when order matters. Empty groups are omitted.
func KMeans(posts []post.Post, k int) ([]Cluster, error) {
	if k <= 0 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d: %w", k, ErrInvalidParameter)
	}
	if k > len(posts) {
		return nil, fmt.Errorf("kmeans: k=%d exceeds %d posts: %w", k, len(posts), ErrInvalidParameter)
	}

	x := make([]float64, len(posts))
	for i, p := range posts {
		x[i] = float64(p.Timestamp)
	}
	labels := lloyd(x, k)

	groups := make([][]post.Post, k)
	for i, p := range posts {
		groups[labels[i]] = append(groups[labels[i]], p)
	}

	var out []Cluster
	for label, members := range groups {
		if len(members) == 0 {
			continue
		}
		c := Cluster{Key: fmt.Sprintf("k%d", label), Posts: members}
		c.Start = time.UnixMilli(c.MinTimestamp()).UTC()
		out = append(out, c)
	}
	return out, nil
}

// lloyd runs deterministic k-means on x. Centroids start at evenly spaced
// quantiles so identical input always yields identical labels.
func lloyd(x []float64, k int) []int {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	centroids := make([]float64, k)
	for i := range centroids {
		p := (float64(i) + 0.5) / float64(k)
		centroids[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	labels := make([]int, len(x))
	for i := range labels {
		labels[i] = -1
	}

	members := make([][]float64, k)
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range x {
			best := nearest(centroids, v)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		for c := range members {
			members[c] = members[c][:0]
		}
		for i, v := range x {
			members[labels[i]] = append(members[labels[i]], v)
		}
		for c, vals := range members {
			// An emptied cluster keeps its previous centroid.
			if len(vals) > 0 {
				centroids[c] = stat.Mean(vals, nil)
			}
		}
	}
	return labels
}

// nearest returns the index of the closest centroid, lowest index on ties.
func nearest(centroids []float64, v float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centroids {
		if d := math.Abs(v - c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Chronological returns clusters sorted by their earliest member.
func Chronological(clusters []Cluster) []Cluster {
	out := make([]Cluster, len(clusters))
	copy(out, clusters)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinTimestamp() < out[j].MinTimestamp()
	})
	return out
}
