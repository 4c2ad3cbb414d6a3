// Package cache provides the on-disk caches the sync run leans on: full-market
// snapshots and FX rates are keyed by calendar day (a file modified today is
// fresh, anything older triggers exactly one re-fetch), while per-symbol
// indicator series are kept indefinitely.
package cache

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/model"
)

// Store is a file-backed cache rooted at Dir.
type Store struct {
	Dir string
}

// NewStore creates the cache directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(name string) string { return filepath.Join(s.Dir, name) }

// freshToday reports whether the file exists and was last modified today.
func freshToday(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	y1, m1, d1 := info.ModTime().Date()
	y2, m2, d2 := time.Now().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// LoadOrFetchQuotes returns the snapshot for kind, loading the same-day gob
// file when fresh and calling fetch otherwise. A failing fetch yields an
// empty map and a warning, never an error: a missing snapshot only disables
// the fallbacks that depend on it.
func (s *Store) LoadOrFetchQuotes(kind string, fetch func() (map[string]model.Quote, error)) map[string]model.Quote {
	path := s.path(kind + ".gob")

	if freshToday(path) {
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			var quotes map[string]model.Quote
			if err := gob.NewDecoder(f).Decode(&quotes); err == nil {
				log.Printf("[INFO] loaded %d %s quotes from cache", len(quotes), kind)
				return quotes
			}
			log.Printf("[WARN] corrupt %s snapshot cache, refetching: %v", kind, err)
		}
	}

	quotes, err := fetch()
	if err != nil {
		log.Printf("[WARN] fetch %s snapshot failed: %v", kind, err)
		return map[string]model.Quote{}
	}

	if f, err := os.Create(path); err == nil {
		if err := gob.NewEncoder(f).Encode(quotes); err != nil {
			log.Printf("[WARN] write %s snapshot cache: %v", kind, err)
		}
		f.Close()
	}
	log.Printf("[INFO] fetched %d %s quotes", len(quotes), kind)
	return quotes
}

// LoadJSON decodes name into v if the file is fresh today.
func (s *Store) LoadJSON(name string, v interface{}) bool {
	path := s.path(name)
	if !freshToday(path) {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SaveJSON writes v to name. Cache write failures are not fatal.
func (s *Store) SaveJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), data, 0644)
}

// LoadSeries reads a per-symbol indicator series cached as CSV rows of
// (date, value). Series files never expire.
func (s *Store) LoadSeries(key string) ([]model.IndicatorPoint, bool) {
	f, err := os.Open(s.path(key + ".csv"))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, false
	}
	points := make([]model.IndicatorPoint, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		points = append(points, model.IndicatorPoint{Date: date, Value: v})
	}
	if len(points) == 0 {
		return nil, false
	}
	return points, true
}

// SaveSeries persists a per-symbol indicator series.
func (s *Store) SaveSeries(key string, points []model.IndicatorPoint) error {
	f, err := os.Create(s.path(key + ".csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, p := range points {
		if err := w.Write([]string{p.Date.Format("2006-01-02"), strconv.FormatFloat(p.Value, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
