package parser

import (
	"context"
	"fmt"
	"log/slog"

	"FakeNewsFeatures/internal/config"
	"FakeNewsFeatures/internal/ports"
	"FakeNewsFeatures/internal/scanner"
)

// StrategySource implements HarvestSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.HarvestSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// Collect runs every configured site. An unknown strategy aborts the run;
// a site whose scan fails partially keeps what it gathered and is logged.
func (s *StrategySource) Collect(ctx context.Context) (scanner.Harvest, error) {
	var aggregated scanner.Harvest
	if s.registry == nil {
		return aggregated, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("collect", "sites", len(s.sites))

	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return aggregated, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			SiteName: site.Name,
			Targets:  toScannerTargets(site.Targets),
			Limit:    site.Limit,
			Options:  site.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return aggregated, ctx.Err()
			}
			s.warn("site scan incomplete", "site", site.Name, "error", err)
		}

		for i := range results.Articles {
			if results.Articles[i].Source == "" {
				results.Articles[i].Source = site.Name
			}
		}
		s.debug("site produced",
			"site", site.Name,
			"articles", len(results.Articles),
			"fact_checks", len(results.FactChecks))
		aggregated.Merge(results)
	}

	return aggregated, nil
}

func toScannerTargets(cfg []config.TargetConfig) []scanner.Target {
	targets := make([]scanner.Target, 0, len(cfg))
	for _, t := range cfg {
		targets = append(targets, scanner.Target{
			Name: t.Name,
			URL:  t.URL,
		})
	}
	return targets
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
