package preprocess

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/abelbrown/ggmine/internal/post"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Post cleans one post. It returns false when the post should be dropped:
// not English, or nothing left after cleaning. Hashtags from the payload
// are kept; otherwise they are read from the raw text.
func Post(p post.Post) (post.Post, bool) {
	if !English(p.Text) {
		return post.Post{}, false
	}
	out := p
	if len(out.Hashtags) == 0 {
		out.Hashtags = Hashtags(p.Text)
	}
	out.Text = Clean(p.Text)
	if out.Text == "" {
		return post.Post{}, false
	}
	return out, true
}

// Run cleans posts in parallel with at most workers goroutines (<= 0 means
// NumCPU). The result keeps input order with dropped posts removed.
func Run(ctx context.Context, posts []post.Post, workers int) ([]post.Post, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]post.Post, len(posts))
	kept := make([]bool, len(posts))
	var done atomic.Int64
	progress := rate.Sometimes{Interval: 2 * time.Second}
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range posts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], kept[i] = Post(posts[i])
			n := done.Add(1)
			progress.Do(func() {
				logging.Info("Preprocessing", "done", n, "total", len(posts))
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for i, ok := range kept {
		if ok {
			out = append(out, results[i])
		}
	}
	logging.Info("Preprocessing complete",
		"kept", len(out), "dropped", len(posts)-len(out), "took", time.Since(start).Round(time.Millisecond))
	return out, nil
}
