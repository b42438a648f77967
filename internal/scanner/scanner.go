package scanner

import (
	"context"
	"fmt"
	"sort"

	"FakeNewsFeatures/internal/domain"
)

// Target is one concrete endpoint of a site: an RSS feed or a fact-check list page.
type Target struct {
	Name string
	URL  string
}

// Request carries all parameters required to execute a scan.
type Request struct {
	SiteName string
	Targets  []Target
	// Limit caps entries per feed or pages per list; zero means the strategy default.
	Limit   int
	Options map[string]string
}

// Harvest is what one or more scans produced.
type Harvest struct {
	Articles   []domain.StoredArticle
	FactChecks []domain.FactCheck
}

// Merge appends other to h.
func (h *Harvest) Merge(other Harvest) {
	h.Articles = append(h.Articles, other.Articles...)
	h.FactChecks = append(h.FactChecks, other.FactChecks...)
}

// Scanner captures a single collection strategy (RSS, PolitiFact, etc.).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) (Harvest, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered (known: %v)", name, r.Names())
}

// Names lists registered strategies in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
