// Package post defines the Post record shared by every pipeline stage and
// loads raw ceremony datasets into it.
package post

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// Post is a single social-media message. Treated as immutable once it has
// been preprocessed; every stage downstream only reads it.
type Post struct {
	ID        int64    `json:"id"`
	Text      string   `json:"text"`
	Author    string   `json:"author"`
	Timestamp int64    `json:"timestamp_ms"` // epoch milliseconds
	Hashtags  []string `json:"hashtags,omitempty"`
}

// Time returns the post timestamp as a time.Time in UTC.
func (p Post) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// SortByTime sorts posts ascending by timestamp, keeping the relative order
// of posts that share a timestamp.
func SortByTime(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp < posts[j].Timestamp
	})
}

// IsSorted reports whether posts are in ascending timestamp order.
func IsSorted(posts []Post) bool {
	return sort.SliceIsSorted(posts, func(i, j int) bool {
		return posts[i].Timestamp < posts[j].Timestamp
	})
}

// rawPost mirrors the dataset schema.
type rawPost struct {
	ID          *int64  `json:"id"`
	Text        *string `json:"text"`
	TimestampMs *int64  `json:"timestamp_ms"`
	User        *struct {
		ScreenName *string `json:"screen_name"`
	} `json:"user"`
	Entities *struct {
		Hashtags []struct {
			Text string `json:"text"`
		} `json:"hashtags"`
	} `json:"entities"`
}

// Load reads a dataset file. See Decode.
func Load(path string) ([]Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a JSON array of raw posts. Any record missing id, text,
// user.screen_name or timestamp_ms fails the whole load.
func Decode(r io.Reader) ([]Post, error) {
	var raw []rawPost
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	posts := make([]Post, 0, len(raw))
	for i, rp := range raw {
		switch {
		case rp.ID == nil:
			return nil, fmt.Errorf("record %d: missing id", i)
		case rp.Text == nil:
			return nil, fmt.Errorf("record %d: missing text", i)
		case rp.TimestampMs == nil:
			return nil, fmt.Errorf("record %d: missing timestamp_ms", i)
		case rp.User == nil || rp.User.ScreenName == nil:
			return nil, fmt.Errorf("record %d: missing user.screen_name", i)
		}

		p := Post{
			ID:        *rp.ID,
			Text:      *rp.Text,
			Author:    *rp.User.ScreenName,
			Timestamp: *rp.TimestampMs,
		}
		if rp.Entities != nil {
			for _, h := range rp.Entities.Hashtags {
				p.Hashtags = append(p.Hashtags, h.Text)
			}
		}
		posts = append(posts, p)
	}
	return posts, nil
}
