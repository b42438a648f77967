package table

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
)

// Output formats for the feature table.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// ValidateColumns checks that columns match the feature contract exactly,
// including order.
func ValidateColumns(columns []string) error {
	if slices.Equal(columns, domain.FeatureColumns) {
		return nil
	}
	for i, want := range domain.FeatureColumns {
		if i >= len(columns) {
			return fmt.Errorf("%w: missing column %q at position %d", ErrColumnContract, want, i)
		}
		if columns[i] != want {
			return fmt.Errorf("%w: position %d is %q, want %q", ErrColumnContract, i, columns[i], want)
		}
	}
	return fmt.Errorf("%w: %d extra columns", ErrColumnContract, len(columns)-len(domain.FeatureColumns))
}

// ParquetColumns lists the column names the Parquet schema of FeatureRow
// declares, in field order.
func ParquetColumns() []string {
	rt := reflect.TypeOf(domain.FeatureRow{})
	columns := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("parquet"), ",")
		columns = append(columns, name)
	}
	return columns
}

// FeatureWriter exports the feature table in one format.
type FeatureWriter struct {
	format string
}

var _ ports.FeatureSink = (*FeatureWriter)(nil)

// NewFeatureWriter validates the format and its schema against the column contract.
func NewFeatureWriter(format string) (*FeatureWriter, error) {
	switch format {
	case "", FormatCSV:
		return &FeatureWriter{format: FormatCSV}, nil
	case FormatParquet:
		if err := ValidateColumns(ParquetColumns()); err != nil {
			return nil, fmt.Errorf("parquet schema: %w", err)
		}
		return &FeatureWriter{format: FormatParquet}, nil
	default:
		return nil, fmt.Errorf("unsupported feature table format %q", format)
	}
}

// Format reports the configured output format.
func (w *FeatureWriter) Format() string {
	return w.format
}

// WriteFeatures writes rows to path in the configured format.
func (w *FeatureWriter) WriteFeatures(path string, rows []domain.FeatureRow) error {
	if w.format == FormatParquet {
		return writeParquet(path, rows)
	}
	return WriteFeatureCSV(path, rows)
}

// WriteFeatureCSV writes rows with the contract header. Floats use the
// shortest round-trip form so identical input gives identical bytes.
func WriteFeatureCSV(path string, rows []domain.FeatureRow) error {
	if err := ValidateColumns(domain.FeatureColumns); err != nil {
		return err
	}
	return writeCSV(path, domain.FeatureColumns, len(rows), func(i int) []string {
		return rows[i].Record()
	})
}

func writeParquet(path string, rows []domain.FeatureRow) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}

// ReadFeatures loads a feature table written by WriteFeatures. A CSV header
// must carry every contract column.
func ReadFeatures(path string) ([]domain.FeatureRow, error) {
	if strings.EqualFold(filepath.Ext(path), "."+FormatParquet) {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMissingInput, path, err)
		}
		rows, err := parquet.ReadFile[domain.FeatureRow](path)
		if err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, err)
		}
		return rows, nil
	}

	var rows []domain.FeatureRow
	err := readFile(path, domain.FeatureColumns, func(get func(string) string) error {
		row, err := parseFeatureRecord(get)
		if err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func parseFeatureRecord(get func(string) string) (domain.FeatureRow, error) {
	var row domain.FeatureRow
	id, err := strconv.ParseInt(get("id"), 10, 64)
	if err != nil {
		return row, fmt.Errorf("id: %w", err)
	}
	row.ID = id
	if row.IsFake, err = strconv.Atoi(get("is_fake")); err != nil {
		return row, fmt.Errorf("is_fake: %w", err)
	}

	values := make([]float64, len(domain.ModelInputColumns))
	for i, name := range domain.ModelInputColumns {
		if values[i], err = strconv.ParseFloat(get(name), 64); err != nil {
			return row, fmt.Errorf("%s: %w", name, err)
		}
	}
	row.SetModelInputs(values)
	return row, nil
}
