// Command ggmine mines an awards-night post dataset for hosts, awards,
// presenters, nominees and winners.
//
// Usage:
//
//	ggmine <dataset.json>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/abelbrown/ggmine/internal/aggregate"
	"github.com/abelbrown/ggmine/internal/config"
	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/abelbrown/ggmine/internal/nlp"
	"github.com/abelbrown/ggmine/internal/otel"
	"github.com/abelbrown/ggmine/internal/pipeline"
	"github.com/abelbrown/ggmine/internal/post"
	"github.com/abelbrown/ggmine/internal/preprocess"
	"github.com/abelbrown/ggmine/internal/store"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ggmine <dataset.json>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ggmine: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(config.LogDir()); err != nil {
		fmt.Fprintf(os.Stderr, "ggmine: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	var events *otel.Logger
	if cfg.Output.Events {
		if events, err = otel.Open(config.LogDir()); err != nil {
			logging.Warn("Event log disabled", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	events.Info(otel.KindRunStart, os.Args[1])
	if err := run(ctx, cfg, os.Args[1], events); err != nil {
		events.Error(otel.KindRunError, err)
		events.Close()
		logging.Fatal("ggmine failed", "error", err)
	}
	events.Info(otel.KindRunComplete, "")
	events.Close()
}

func run(ctx context.Context, cfg *config.Config, dataset string, events *otel.Logger) error {
	posts, err := loadPosts(ctx, cfg, dataset, events)
	if err != nil {
		return err
	}

	annotator, err := nlp.NewProseAnnotator()
	if err != nil {
		return fmt.Errorf("load annotation model: %w", err)
	}

	final, err := pipeline.Run(ctx, cfg, posts, annotator, events)
	if err != nil {
		return err
	}

	if cfg.Output.Path != "" {
		if err := aggregate.WriteFile(cfg.Output.Path, final); err != nil {
			return err
		}
		logging.Info("Results written", "path", cfg.Output.Path)
	}
	if cfg.Output.Summary {
		if err := aggregate.RenderSummary(os.Stdout, final, aggregate.DefaultStyles()); err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
	}
	return nil
}

// loadPosts returns preprocessed posts sorted by time, from the cache when
// one exists.
func loadPosts(ctx context.Context, cfg *config.Config, dataset string, events *otel.Logger) ([]post.Post, error) {
	cachePath := cfg.CachePath()
	if cfg.Cache.Enabled && store.Exists(cachePath) {
		st, err := store.Open(cachePath)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		posts, err := st.Load()
		if err != nil {
			return nil, err
		}
		logging.Info("Loaded posts from cache", "path", cachePath, "posts", len(posts))
		events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindCacheHit, Posts: len(posts), Msg: cachePath})
		post.SortByTime(posts)
		return posts, nil
	}

	events.Info(otel.KindCacheMiss, cachePath)
	raw, err := post.Load(dataset)
	if err != nil {
		return nil, err
	}
	logging.Info("Dataset loaded", "path", dataset, "posts", len(raw))

	began := time.Now()
	posts, err := preprocess.Run(ctx, raw, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	post.SortByTime(posts)
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindPreprocessComplete, Posts: len(posts), Dur: time.Since(began)})

	if cfg.Cache.Enabled {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		st, err := store.Open(cachePath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		if err := st.Save(posts); err != nil {
			return nil, err
		}
	}
	return posts, nil
}
