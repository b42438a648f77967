// Package dedup removes duplicate articles in two phases: exact (title, text)
// pairs first, then near-duplicate titles.
package dedup

import (
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/textnorm"
)

// Stats counts rows removed by each phase.
type Stats struct {
	Input      int
	ExactPairs int
	NearTitles int
	Output     int
}

// Deduplicator wraps the two-phase removal with logging.
type Deduplicator struct {
	logger *slog.Logger
}

// New builds a Deduplicator; a nil logger disables reporting.
func New(logger *slog.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Deduplicate returns the surviving rows in their original relative order.
func (d *Deduplicator) Deduplicate(rows []domain.Article) []domain.Article {
	out, stats := Deduplicate(rows)
	if d.logger != nil {
		d.logger.Info("deduplication done",
			"input", stats.Input,
			"exact_removed", stats.ExactPairs,
			"title_removed", stats.NearTitles,
			"output", stats.Output)
	}
	return out
}

// Deduplicate removes exact (title, text) duplicates keeping the first
// occurrence, then keeps one row per case-folded title: the longest body,
// ties broken by earliest date. Input order, assumed date-ascending, is restored.
func Deduplicate(rows []domain.Article) ([]domain.Article, Stats) {
	stats := Stats{Input: len(rows)}

	type pair struct{ title, text string }
	seen := make(map[pair]struct{}, len(rows))
	exact := make([]indexed, 0, len(rows))
	for i, row := range rows {
		key := pair{row.Title, row.Text}
		if _, dup := seen[key]; dup {
			stats.ExactPairs++
			continue
		}
		seen[key] = struct{}{}
		exact = append(exact, indexed{pos: i, row: row, key: titleKey(row.Title), bodyLen: textnorm.Len(row.Text)})
	}

	sort.SliceStable(exact, func(i, j int) bool {
		a, b := exact[i], exact[j]
		if a.key != b.key {
			return a.key < b.key
		}
		if a.bodyLen != b.bodyLen {
			return a.bodyLen > b.bodyLen
		}
		return dateBefore(a.row, b.row)
	})

	survivors := make([]indexed, 0, len(exact))
	for i, item := range exact {
		if i > 0 && exact[i-1].key == item.key {
			stats.NearTitles++
			continue
		}
		survivors = append(survivors, item)
	}

	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].pos < survivors[j].pos
	})

	out := make([]domain.Article, len(survivors))
	for i, item := range survivors {
		out[i] = item.row
	}
	stats.Output = len(out)
	return out, stats
}

type indexed struct {
	pos     int
	row     domain.Article
	key     string
	bodyLen int
}

func titleKey(title string) string {
	return cases.Fold().String(strings.TrimSpace(title))
}

// dateBefore orders known dates ascending with missing dates last.
func dateBefore(a, b domain.Article) bool {
	switch {
	case a.HasDate() && b.HasDate():
		return a.Date < b.Date
	case a.HasDate():
		return true
	default:
		return false
	}
}

// SortByDate returns a copy of rows stably ordered by canonical date, missing dates last.
func SortByDate(rows []domain.Article) []domain.Article {
	out := make([]domain.Article, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return dateBefore(out[i], out[j])
	})
	return out
}
