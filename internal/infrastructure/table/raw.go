// Package table reads and writes the delimited files at the pipeline
// boundaries: labelled raw sources, the prepared (cleaned) table and the
// feature table.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"FakeNewsFeatures/internal/domain"
)

var (
	// ErrMissingInput is returned when a required source file does not exist.
	ErrMissingInput = errors.New("table: required input missing")
	// ErrColumnContract is returned when a header does not carry the expected columns.
	ErrColumnContract = errors.New("table: column contract violated")
)

// Source is one raw input file; every row in it carries the same label.
type Source struct {
	Path   string
	IsFake bool
}

// ReadRaw loads every source in order. Rows keep an integer id column when
// present and unique; all other rows get the next unused id.
func ReadRaw(sources []Source) ([]domain.Article, error) {
	var (
		rows    []domain.Article
		pending []int
		used    = make(map[int64]bool)
	)

	for _, src := range sources {
		label := domain.LabelReal
		if src.IsFake {
			label = domain.LabelFake
		}

		err := readFile(src.Path, []string{"title", "text"}, func(get func(string) string) error {
			row := domain.Article{
				IsFake:   label,
				Subject:  get("subject"),
				TitleRaw: get("title"),
				TextRaw:  get("text"),
				DateRaw:  get("date"),
			}
			id, err := strconv.ParseInt(strings.TrimSpace(get("id")), 10, 64)
			if err == nil && !used[id] {
				row.ID = id
				used[id] = true
			} else {
				pending = append(pending, len(rows))
			}
			rows = append(rows, row)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var next int64
	for _, i := range pending {
		for used[next] {
			next++
		}
		rows[i].ID = next
		used[next] = true
	}
	return rows, nil
}

// readFile streams a headered CSV file, handing each record to fn through a
// column lookup. Columns listed in required must be present in the header.
func readFile(path string, required []string, fn func(get func(string) string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrMissingInput, path, err)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s has no header", ErrColumnContract, path)
		}
		return fmt.Errorf("read header %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("%w: %s lacks column %q", ErrColumnContract, path, name)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read %s line %d: %w", path, line, err)
		}
		get := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		if err := fn(get); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}
