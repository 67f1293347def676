package pipeline

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/ggmine/internal/aggregate"
	"github.com/abelbrown/ggmine/internal/cluster"
	"github.com/abelbrown/ggmine/internal/config"
	"github.com/abelbrown/ggmine/internal/nlp/nlptest"
	"github.com/abelbrown/ggmine/internal/otel"
	"github.com/abelbrown/ggmine/internal/post"
)

func at(hour, min int, text string) post.Post {
	ts := time.Date(2013, 1, 13, hour, min, 0, 0, time.UTC).UnixMilli()
	return post.Post{ID: ts, Text: text, Author: "u", Timestamp: ts}
}

func ceremony() []post.Post {
	posts := []post.Post{
		at(10, 1, "Tina Fey and Amy Poehler host the show"),
		at(10, 5, "Best Director - Motion Picture goes to Ben Affleck for Argo"),
		at(10, 10, "Best Director - Motion Picture goes to Ben Affleck for Argo"),
		at(10, 12, "Ben Affleck is nominated for Best Director - Motion Picture"),
		at(10, 35, "Best Foreign Language Film goes to Amour"),
		at(10, 38, "Kathryn Bigelow presents Best Foreign Language Film"),
		at(10, 40, "Best Foreign Language Film goes to Amour"),
		at(10, 45, "Amy Poehler hosting again"),
	}
	post.SortByTime(posts)
	return posts
}

func annotator() *nlptest.Annotator {
	return nlptest.New(
		nlptest.Person("Tina Fey"), nlptest.Person("Amy Poehler"),
		nlptest.Person("Ben Affleck"), nlptest.Person("Kathryn Bigelow"),
		nlptest.Title("Argo"),
	)
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Workers = 2
	return cfg
}

func TestRun(t *testing.T) {
	got, err := Run(context.Background(), testConfig(), ceremony(), annotator(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := aggregate.Final{
		Hosts: []string{"Amy Poehler", "Tina Fey"},
		Awards: []aggregate.Award{
			{
				Name:     "Best Director - Motion Picture",
				Nominees: []string{"Ben Affleck"},
				Winner:   "Ben Affleck",
			},
			{
				Name:       "Best Foreign Language Film",
				Presenters: []string{"Kathryn Bigelow"},
				Winner:     "Amour",
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Run =\n%+v\nwant\n%+v", got, want)
	}
}

func TestRunEmitsEvents(t *testing.T) {
	var buf bytes.Buffer
	events := otel.NewLogger(&buf)
	if _, err := Run(context.Background(), testConfig(), ceremony(), annotator(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	events.Close()

	out := buf.String()
	if n := strings.Count(out, `"kind":"cluster.complete"`); n != 2 {
		t.Errorf("cluster.complete events = %d, want 2\n%s", n, out)
	}
	if n := strings.Count(out, `"kind":"pipeline.complete"`); n != 1 {
		t.Errorf("pipeline.complete events = %d, want 1\n%s", n, out)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(context.Background(), testConfig(), ceremony(), annotator(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Run(context.Background(), testConfig(), ceremony(), annotator(), nil)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestRunRejectsUnsortedPosts(t *testing.T) {
	posts := ceremony()
	posts[0], posts[1] = posts[1], posts[0]
	if _, err := Run(context.Background(), testConfig(), posts, annotator(), nil); err == nil {
		t.Error("Run accepted unsorted posts")
	}
}

func TestRunKMeansTooManyClusters(t *testing.T) {
	cfg := testConfig()
	cfg.Cluster.Strategy = config.StrategyKMeans
	cfg.Cluster.K = 100

	_, err := Run(context.Background(), cfg, ceremony(), annotator(), nil)
	if !errors.Is(err, cluster.ErrInvalidParameter) {
		t.Errorf("Run error = %v, want ErrInvalidParameter", err)
	}
}

func TestRunKMeans(t *testing.T) {
	cfg := testConfig()
	cfg.Cluster.Strategy = config.StrategyKMeans
	cfg.Cluster.K = 2

	got, err := Run(context.Background(), cfg, ceremony(), annotator(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var names []string
	for _, a := range got.Awards {
		names = append(names, a.Name)
	}
	want := []string{"Best Director - Motion Picture", "Best Foreign Language Film"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("awards = %v, want %v", names, want)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testConfig(), ceremony(), annotator(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestClusters(t *testing.T) {
	posts := ceremony()
	cs, err := Clusters(config.ClusterConfig{Strategy: config.StrategyHalfHour}, posts)
	if err != nil {
		t.Fatalf("Clusters: %v", err)
	}
	var labels []string
	for _, c := range cs {
		labels = append(labels, c.Label())
	}
	if want := []string{"10:00", "10:30"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}

	if _, err := Clusters(config.ClusterConfig{Strategy: "hourly"}, posts); err == nil {
		t.Error("Clusters accepted an unknown strategy")
	}
}
