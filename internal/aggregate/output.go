package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type jsonAward struct {
	Award      string   `json:"Award"`
	Presenters []string `json:"Presenters"`
	Nominees   []string `json:"Nominees"`
	Winner     *string  `json:"Winner"`
}

type jsonFinal struct {
	Hosts  []string    `json:"Hosts"`
	Awards []jsonAward `json:"Award data"`
}

// WriteJSON encodes f. Empty lists and a missing winner are written as
// null.
func WriteJSON(w io.Writer, f Final) error {
	out := jsonFinal{Hosts: nilIfEmpty(f.Hosts)}
	for _, a := range f.Awards {
		ja := jsonAward{
			Award:      a.Name,
			Presenters: nilIfEmpty(a.Presenters),
			Nominees:   nilIfEmpty(a.Nominees),
		}
		if a.Winner != "" {
			winner := a.Winner
			ja.Winner = &winner
		}
		out.Awards = append(out.Awards, ja)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// WriteFile writes f as JSON to path, creating parent directories.
func WriteFile(path string, f Final) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteJSON(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
