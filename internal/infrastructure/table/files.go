package table

import (
	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
)

// Files binds the raw sources and the prepared table path of one run.
type Files struct {
	Sources      []Source
	PreparedPath string
}

var (
	_ ports.RawSource     = Files{}
	_ ports.PreparedStore = Files{}
)

// LoadRaw reads every configured raw source.
func (f Files) LoadRaw() ([]domain.Article, error) {
	return ReadRaw(f.Sources)
}

// SavePrepared writes the cleaned table.
func (f Files) SavePrepared(rows []domain.Article) error {
	return WritePrepared(f.PreparedPath, rows)
}

// LoadPrepared reads the cleaned table back.
func (f Files) LoadPrepared() ([]domain.Article, error) {
	return ReadPrepared(f.PreparedPath)
}
