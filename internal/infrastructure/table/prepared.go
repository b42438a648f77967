package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/textnorm"
)

// PreparedColumns is the header of the cleaned table written by the prepare stage.
var PreparedColumns = []string{
	"id", "is_fake", "date", "subject", "title", "text", "title_raw", "text_raw",
	"full_text", "text_tfidf", "text_bert", "n_word", "n_char", "n_url", "n_num",
}

// WritePrepared writes cleaned rows with the PreparedColumns header.
func WritePrepared(path string, rows []domain.Article) error {
	return writeCSV(path, PreparedColumns, len(rows), func(i int) []string {
		a := rows[i]
		return []string{
			strconv.FormatInt(a.ID, 10),
			strconv.Itoa(a.IsFake),
			a.Date,
			a.Subject,
			a.Title,
			a.Text,
			a.TitleRaw,
			a.TextRaw,
			a.FullText,
			a.PlainText,
			a.BERTText,
			strconv.Itoa(a.Meta.NWord),
			strconv.Itoa(a.Meta.NChar),
			strconv.Itoa(a.Meta.NURL),
			strconv.Itoa(a.Meta.NNum),
		}
	})
}

// ReadPrepared loads cleaned rows for feature extraction. Only id, is_fake,
// title and text are required; full_text and the n_* counts are rebuilt from
// them when absent.
func ReadPrepared(path string) ([]domain.Article, error) {
	var rows []domain.Article
	err := readFile(path, []string{"id", "is_fake", "title", "text"}, func(get func(string) string) error {
		id, err := strconv.ParseInt(get("id"), 10, 64)
		if err != nil {
			return fmt.Errorf("id %q: %w", get("id"), err)
		}
		label, err := strconv.Atoi(get("is_fake"))
		if err != nil {
			return fmt.Errorf("is_fake %q: %w", get("is_fake"), err)
		}

		a := domain.Article{
			ID:        id,
			IsFake:    label,
			Date:      get("date"),
			Subject:   get("subject"),
			Title:     get("title"),
			Text:      get("text"),
			TitleRaw:  get("title_raw"),
			TextRaw:   get("text_raw"),
			FullText:  get("full_text"),
			PlainText: get("text_tfidf"),
			BERTText:  get("text_bert"),
		}
		if a.FullText == "" {
			a.FullText = textnorm.JoinFullText(a.Title, a.Text)
		}

		a.Meta = textnorm.Measure(a.FullText)
		if meta, ok := parseMeta(get); ok {
			a.Meta = meta
		}
		rows = append(rows, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func parseMeta(get func(string) string) (domain.Metadata, bool) {
	var (
		meta domain.Metadata
		err  error
	)
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"n_word", &meta.NWord},
		{"n_char", &meta.NChar},
		{"n_url", &meta.NURL},
		{"n_num", &meta.NNum},
	} {
		if *f.dst, err = strconv.Atoi(get(f.name)); err != nil {
			return domain.Metadata{}, false
		}
	}
	return meta, true
}

func writeCSV(path string, header []string, n int, record func(i int) []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
