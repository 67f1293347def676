// Package pipeline wires the stages together: clustering, per-cluster
// award detection and association on the work pool, then aggregation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/ggmine/internal/aggregate"
	"github.com/abelbrown/ggmine/internal/associate"
	"github.com/abelbrown/ggmine/internal/awards"
	"github.com/abelbrown/ggmine/internal/cluster"
	"github.com/abelbrown/ggmine/internal/config"
	"github.com/abelbrown/ggmine/internal/hosts"
	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/abelbrown/ggmine/internal/nlp"
	"github.com/abelbrown/ggmine/internal/otel"
	"github.com/abelbrown/ggmine/internal/post"
	"github.com/abelbrown/ggmine/internal/work"
)

// Clusters buckets posts according to cfg. posts must be sorted.
func Clusters(cfg config.ClusterConfig, posts []post.Post) ([]cluster.Cluster, error) {
	switch cfg.Strategy {
	case config.StrategyKMeans:
		cs, err := cluster.KMeans(posts, cfg.K)
		if err != nil {
			return nil, err
		}
		return cluster.Chronological(cs), nil
	case config.StrategyHalfHour, "":
		return cluster.HalfHour(posts, cfg.Location()), nil
	}
	return nil, fmt.Errorf("unknown cluster strategy %q", cfg.Strategy)
}

// Run mines posts, which must be sorted by timestamp. The annotator is
// shared by every worker and must be safe for concurrent use; each worker
// wraps it in its own nlp.Cached. events may be nil.
func Run(ctx context.Context, cfg *config.Config, posts []post.Post, annotator nlp.Annotator, events *otel.Logger) (aggregate.Final, error) {
	if !post.IsSorted(posts) {
		return aggregate.Final{}, fmt.Errorf("posts are not sorted by timestamp")
	}
	start := time.Now()

	clusters, err := Clusters(cfg.Cluster, posts)
	if err != nil {
		return aggregate.Final{}, fmt.Errorf("cluster posts: %w", err)
	}
	logging.Info("Posts clustered", "posts", len(posts), "clusters", len(clusters), "strategy", cfg.Cluster.Strategy)

	opts := awards.Options{
		MinSpanTokens:  cfg.Awards.MinSpanTokens,
		MinOccurrences: cfg.Awards.MinOccurrences,
		Threshold:      cfg.Reconcile.Threshold,
	}

	hints := awards.FromHashtags(posts)
	if len(hints) > 0 {
		logging.Info("Hashtag award hints", "hints", hints)
	}

	pool := work.NewPool(cfg.Workers)
	for _, c := range clusters {
		if err := ctx.Err(); err != nil {
			pool.Wait()
			return aggregate.Final{}, err
		}
		pool.SubmitWithData(work.TypeCluster, "cluster "+c.Label(), c.Key, func() (string, any, error) {
			began := time.Now()
			part := processCluster(c, posts, annotator, opts, hints)
			events.Emit(otel.Event{
				Level:   otel.LevelInfo,
				Kind:    otel.KindClusterComplete,
				Cluster: c.Label(),
				Posts:   len(c.Posts),
				Awards:  len(part.Awards),
				Dur:     time.Since(began),
			})
			return fmt.Sprintf("%d awards", len(part.Awards)), part, nil
		})
	}

	var partials []aggregate.Partial
	for _, item := range pool.Wait() {
		if item.Status != work.StatusComplete {
			logging.Warn("Cluster skipped", "cluster", item.Source, "error", item.Error)
			events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindClusterError, Cluster: item.Source, Err: fmt.Sprint(item.Error)})
			continue
		}
		partials = append(partials, item.Data.(aggregate.Partial))
	}
	merged := aggregate.Merge(partials...)

	hostNames := hosts.Find(nlp.NewExtractor(nlp.NewCached(annotator)), posts, cfg.Reconcile.Threshold, cfg.Hosts.TopK)
	final := aggregate.Finalize(merged, hostNames, aggregate.Options{
		TopK:      cfg.Hosts.TopK,
		Threshold: cfg.Reconcile.Threshold,
	})

	stats := pool.Stats()
	events.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindPipelineComplete,
		Posts:  len(posts),
		Awards: len(final.Awards),
		Dur:    time.Since(start),
	})
	logging.Info("Pipeline complete",
		"awards", len(final.Awards),
		"hosts", len(final.Hosts),
		"clusters_failed", stats.TotalFailed,
		"took", time.Since(start).Round(time.Millisecond))
	return final, nil
}

// processCluster detects the cluster's awards, then associates them over
// the whole sorted post sequence within each award's time window. hints are
// hashtag-derived award names.
func processCluster(c cluster.Cluster, all []post.Post, annotator nlp.Annotator, opts awards.Options, hints []string) aggregate.Partial {
	cached := nlp.NewCached(annotator)
	records := awards.NewDetector(cached, opts).Detect(c.Posts)
	res := associate.NewEngine(cached).WithHints(hints...).Associate(all, records)

	logging.Debug("Cluster processed", "cluster", c.Label(), "posts", len(c.Posts), "awards", len(records))
	return aggregate.Partial{
		Awards:     records,
		Nominees:   res.Nominees,
		Presenters: res.Presenters,
	}
}
