package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"FakeNewsFeatures/internal/batch"
	"FakeNewsFeatures/internal/domain"
)

var body = strings.Repeat("Lawmakers debated the measure for hours. ", 4)

type fakeTables struct {
	raw      []domain.Article
	rawErr   error
	prepared []domain.Article
	saved    []domain.Article
}

func (f *fakeTables) LoadRaw() ([]domain.Article, error) { return f.raw, f.rawErr }

func (f *fakeTables) SavePrepared(rows []domain.Article) error {
	f.saved = rows
	return nil
}

func (f *fakeTables) LoadPrepared() ([]domain.Article, error) { return f.prepared, nil }

type stubExtractor struct {
	panicOn int64
}

func (s stubExtractor) Extract(a domain.Article) domain.FeatureRow {
	if s.panicOn != 0 && a.ID == s.panicOn {
		panic("bad row")
	}
	return domain.FeatureRow{ID: a.ID, IsFake: a.IsFake, NWord: a.Meta.NWord, NChar: a.Meta.NChar}
}

type recordingSink struct {
	path  string
	rows  []domain.FeatureRow
	calls int
}

func (s *recordingSink) WriteFeatures(path string, rows []domain.FeatureRow) error {
	s.path, s.rows = path, rows
	s.calls++
	return nil
}

func rawArticles() []domain.Article {
	return []domain.Article{
		{ID: 0, TitleRaw: "Short", TextRaw: body},
		{ID: 1, IsFake: 1, TitleRaw: "Senate passes the budget bill", TextRaw: body, DateRaw: "December 31, 2017"},
		{ID: 2, IsFake: 1, TitleRaw: "Senate passes the budget bill", TextRaw: body + "They also voted.", DateRaw: "2017-12-30"},
		{ID: 3, TitleRaw: "House votes on new tax plan", TextRaw: body},
		{ID: 4, TitleRaw: "Read https://example.com/very/long/path", TextRaw: body, DateRaw: "2015-01-01"},
		{ID: 5, TitleRaw: "Economy grows faster than expected", TextRaw: body, DateRaw: "sep 4 2016"},
	}
}

func ids[T any](rows []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func articleID(a domain.Article) int64 { return a.ID }
func featureID(r domain.FeatureRow) int64 { return r.ID }

func TestCleanStageOrder(t *testing.T) {
	t.Parallel()

	got := Clean(rawArticles(), Filters{MinTitleChars: 20, MinTextChars: 140}, nil)

	// 0 fails the raw filter, 4 the cleaned filter, 1 loses to the longer
	// body of 2, and 3 has no date so it sorts last.
	if want := []int64{5, 2, 3}; !reflect.DeepEqual(ids(got, articleID), want) {
		t.Fatalf("ids = %v, want %v", ids(got, articleID), want)
	}
	if got[0].Date != "2016-09-04" || got[1].Date != "2017-12-30" || got[2].HasDate() {
		t.Fatalf("dates = %q %q %q", got[0].Date, got[1].Date, got[2].Date)
	}
	for _, a := range got {
		if a.FullText == "" || a.Meta.NWord == 0 || a.TitleRaw == "" {
			t.Fatalf("row %d not normalized: %+v", a.ID, a)
		}
	}
}

func TestPipelineRunWritesFeatures(t *testing.T) {
	t.Parallel()

	tables := &fakeTables{raw: rawArticles()}
	sink := &recordingSink{}
	p := NewPipeline(PipelineDeps{
		Raw:        tables,
		Prepared:   tables,
		Extractor:  stubExtractor{},
		Sink:       sink,
		Filters:    Filters{MinTitleChars: 20, MinTextChars: 140},
		Workers:    2,
		OutputPath: "out/features.csv",
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := []int64{5, 2, 3}; !reflect.DeepEqual(ids(tables.saved, articleID), want) {
		t.Fatalf("prepared ids = %v, want %v", ids(tables.saved, articleID), want)
	}
	if sink.path != "out/features.csv" || sink.calls != 1 {
		t.Fatalf("sink = %q calls=%d", sink.path, sink.calls)
	}
	if want := []int64{5, 2, 3}; !reflect.DeepEqual(ids(sink.rows, featureID), want) {
		t.Fatalf("feature ids = %v, want %v", ids(sink.rows, featureID), want)
	}
	if sink.rows[1].IsFake != 1 || sink.rows[1].NWord != tables.saved[1].Meta.NWord {
		t.Fatalf("row not carried through: %+v", sink.rows[1])
	}
}

func TestPipelineFeaturesFromPrepared(t *testing.T) {
	t.Parallel()

	prepared := make([]domain.Article, 50)
	for i := range prepared {
		prepared[i] = domain.Article{ID: int64(100 - i), Meta: domain.Metadata{NWord: i}}
	}
	tables := &fakeTables{prepared: prepared}
	sink := &recordingSink{}
	p := NewPipeline(PipelineDeps{Prepared: tables, Extractor: stubExtractor{}, Sink: sink, Workers: 7})

	if err := p.Features(context.Background()); err != nil {
		t.Fatalf("Features: %v", err)
	}
	if len(sink.rows) != len(prepared) {
		t.Fatalf("rows = %d", len(sink.rows))
	}
	for i, row := range sink.rows {
		if row.ID != prepared[i].ID || row.NWord != i {
			t.Fatalf("row %d out of order: %+v", i, row)
		}
	}
}

func TestPipelineWorkerFailureWritesNothing(t *testing.T) {
	t.Parallel()

	prepared := []domain.Article{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	sink := &recordingSink{}
	p := NewPipeline(PipelineDeps{
		Prepared:  &fakeTables{prepared: prepared},
		Extractor: stubExtractor{panicOn: 3},
		Sink:      sink,
		Workers:   2,
	})

	err := p.Features(context.Background())
	if !errors.Is(err, batch.ErrWorkerPanic) {
		t.Fatalf("err = %v, want ErrWorkerPanic", err)
	}
	if sink.calls != 0 {
		t.Fatalf("sink written after failure")
	}
}

func TestPipelineRawLoadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("missing file")
	p := NewPipeline(PipelineDeps{Raw: &fakeTables{rawErr: boom}})
	if _, err := p.Prepare(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestPipelineRequiresAdapters(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{})
	if err := p.Run(context.Background()); err == nil {
		t.Fatalf("expected error without raw source")
	}
	if err := p.Features(context.Background()); err == nil {
		t.Fatalf("expected error without prepared store")
	}
	if err := p.Export(nil); err == nil {
		t.Fatalf("expected error without sink")
	}
}
