package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
	"FakeNewsFeatures/internal/textnorm"
)

const defaultMinSimilarity = 0.6

// Labeler attaches verified labels to stored articles whose title matches a
// fact-checked claim.
type Labeler struct {
	repo          ports.ArticleRepository
	minSimilarity float64
	logger        *slog.Logger
	folder        cases.Caser
}

// NewLabeler builds a labeler. minSimilarity is the Jaccard threshold on
// folded word sets; non-positive values fall back to the default.
func NewLabeler(repo ports.ArticleRepository, minSimilarity float64, logger *slog.Logger) *Labeler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if minSimilarity <= 0 {
		minSimilarity = defaultMinSimilarity
	}
	return &Labeler{repo: repo, minSimilarity: minSimilarity, logger: logger, folder: cases.Fold()}
}

type claim struct {
	check domain.FactCheck
	words map[string]struct{}
}

// Label matches every unlabelled article against the stored verdicts and
// returns how many articles got a label.
func (l *Labeler) Label(ctx context.Context) (int, error) {
	if l.repo == nil {
		return 0, fmt.Errorf("labeler is not configured")
	}

	checks, err := l.repo.FactChecks(ctx)
	if err != nil {
		return 0, fmt.Errorf("load fact checks: %w", err)
	}
	if len(checks) == 0 {
		l.logger.Info("no fact checks to match")
		return 0, nil
	}
	claims := make([]claim, 0, len(checks))
	for _, check := range checks {
		claims = append(claims, claim{check: check, words: l.wordSet(check.Claim)})
	}

	articles, err := l.repo.UnlabeledArticles(ctx)
	if err != nil {
		return 0, fmt.Errorf("load unlabeled articles: %w", err)
	}

	labeled, undecided := 0, 0
	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return labeled, err
		}
		best, ok := l.bestMatch(l.wordSet(article.Title), claims)
		if !ok {
			continue
		}
		// the closest claim decides; an undecided verdict leaves the article unlabelled
		label, ok := domain.LabelFromVerdict(best.check.Verdict)
		if !ok {
			undecided++
			continue
		}
		source := best.check.CheckerSite + ": " + best.check.SourceURL
		if err := l.repo.SetLabel(ctx, article.ID, label, source); err != nil {
			return labeled, fmt.Errorf("set label: %w", err)
		}
		labeled++
	}

	l.logger.Info("labeling finished",
		"articles", len(articles),
		"claims", len(claims),
		"labeled", labeled,
		"undecided", undecided)
	return labeled, nil
}

func (l *Labeler) bestMatch(title map[string]struct{}, claims []claim) (claim, bool) {
	var (
		best  claim
		score float64
	)
	for _, c := range claims {
		if s := Jaccard(title, c.words); s > score {
			best, score = c, s
		}
	}
	return best, score >= l.minSimilarity
}

func (l *Labeler) wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range textnorm.Words(s) {
		set[l.folder.String(w)] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
