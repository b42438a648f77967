// Package features computes the stylistic, lexical, subjectivity, sentiment,
// emotion and consistency signals of one cleaned article.
package features

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/textnorm"
)

var (
	pronounExpr = regexp.MustCompile(`(?i)\b(?:i|we|you)\b`)
	// substring matches: "maybe" also hits inside "maybelline"
	hedgeExpr = regexp.MustCompile(`(?i)allegedly|reportedly|apparently|purportedly|suggests|seems|maybe|perhaps|possibly`)
)

// SafeDiv returns a/b, or 0 when b is not positive.
func SafeDiv(a, b float64) float64 {
	if b > 0 {
		return a / b
	}
	return 0
}

// Extractor maps cleaned articles to feature rows. It holds only read-only
// lexicons, so one Extractor may be shared across goroutines.
type Extractor struct {
	lex Lexicons
}

// NewExtractor wires the sentiment and emotion word lists.
func NewExtractor(lex Lexicons) *Extractor {
	return &Extractor{lex: lex}
}

// Extract computes every feature for one row. Degenerate input yields zeros.
func (e *Extractor) Extract(a domain.Article) domain.FeatureRow {
	full := a.FullText
	if full == "" {
		full = textnorm.JoinFullText(a.Title, a.Text)
	}
	fullLen := float64(textnorm.Len(full))
	titleLen := float64(textnorm.Len(a.Title))
	nWord := float64(a.Meta.NWord)

	bodyTokens := textnorm.Words(a.Text)
	bodyFolded := foldAll(bodyTokens)
	titleFolded := foldAll(textnorm.Words(a.Title))

	sentiment := e.Sentiment(bodyFolded)
	emotions := e.EmotionCounts(bodyFolded)

	return domain.FeatureRow{
		ID:     a.ID,
		IsFake: a.IsFake,
		NWord:  a.Meta.NWord,
		NChar:  a.Meta.NChar,
		NURL:   a.Meta.NURL,
		NNum:   a.Meta.NNum,

		TitleCapRatio: SafeDiv(float64(countUpper(a.Title)), titleLen),
		ExclamRatio:   SafeDiv(float64(strings.Count(a.Text, "!")), fullLen),
		QuestRatio:    SafeDiv(float64(strings.Count(a.Text, "?")), fullLen),
		TextCapRatio:  SafeDiv(float64(countUpper(a.Text)), fullLen),

		AvgWordLen:       AvgWordLen(bodyTokens),
		LexicalDiversity: LexicalDiversity(bodyFolded),
		PronounRatio:     SafeDiv(float64(len(pronounExpr.FindAllStringIndex(a.Text, -1))), nWord),

		SentimentScore:     sentiment,
		SentimentMagnitude: math.Abs(sentiment),

		RatioAnger:   SafeDiv(float64(emotions[Anger]), nWord),
		RatioFear:    SafeDiv(float64(emotions[Fear]), nWord),
		RatioDisgust: SafeDiv(float64(emotions[Disgust]), nWord),
		RatioJoy:     SafeDiv(float64(emotions[Joy]), nWord),

		TitleTextOverlap:  TitleTextOverlap(titleFolded, bodyFolded),
		TitleTextLenRatio: SafeDiv(titleLen, fullLen),
		HedgeRatio:        SafeDiv(float64(len(hedgeExpr.FindAllStringIndex(full, -1))), nWord),
	}
}

// Sentiment sums the lexicon polarity of every case-folded token.
func (e *Extractor) Sentiment(folded []string) float64 {
	var score float64
	for _, tok := range folded {
		score += e.lex.Sentiment[tok]
	}
	return score
}

// EmotionCounts counts lexicon hits per emotion over case-folded tokens.
func (e *Extractor) EmotionCounts(folded []string) map[Emotion]int {
	counts := make(map[Emotion]int, len(basicEmotions))
	for _, tok := range folded {
		for _, emotion := range e.lex.Emotion[tok] {
			counts[emotion]++
		}
	}
	return counts
}

// AvgWordLen is the mean character length of tokens, 0 when there are none.
func AvgWordLen(tokens []string) float64 {
	total := 0
	for _, tok := range tokens {
		total += textnorm.Len(tok)
	}
	return SafeDiv(float64(total), float64(len(tokens)))
}

// LexicalDiversity is the type-token ratio of already case-folded tokens.
func LexicalDiversity(folded []string) float64 {
	return SafeDiv(float64(len(distinct(folded))), float64(len(folded)))
}

// TitleTextOverlap is |title ∩ body| / |title| over distinct case-folded tokens.
func TitleTextOverlap(titleFolded, bodyFolded []string) float64 {
	title := distinct(titleFolded)
	body := distinct(bodyFolded)
	if len(title) == 0 || len(body) == 0 {
		return 0
	}
	shared := 0
	for tok := range title {
		if _, ok := body[tok]; ok {
			shared++
		}
	}
	return SafeDiv(float64(shared), float64(len(title)))
}

func distinct(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func countUpper(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

func foldAll(tokens []string) []string {
	caser := cases.Fold()
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = caser.String(tok)
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
