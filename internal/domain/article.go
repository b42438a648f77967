package domain

import "time"

// Article is the unit flowing through every pipeline stage.
// Stages return new slices of Article values; a record handed downstream is never modified in place.
type Article struct {
	ID      int64
	IsFake  int
	Subject string

	// Title and Text hold the cleaned, digit-masked form once the text normalizer ran.
	Title    string
	Text     string
	TitleRaw string
	TextRaw  string

	// FullText is Title + ". " + Text, computed once after cleaning.
	FullText string
	// PlainText is the lowercase punctuation-stripped form used by bag-of-words models.
	PlainText string
	// BERTText keeps digits unmasked.
	BERTText string

	DateRaw string
	// Date is canonical YYYY-MM-DD or empty when the raw value could not be parsed.
	Date string

	Meta Metadata
}

// Metadata are the counts produced by the cleaning stage and consumed unchanged by the extractor.
type Metadata struct {
	NWord int
	NChar int
	NURL  int
	NNum  int
}

// HasDate reports whether the canonical date is known.
func (a Article) HasDate() bool {
	return a.Date != ""
}

// StoredArticle is a scraped article as persisted in the data lake.
type StoredArticle struct {
	ID          int64
	URL         string
	Source      string
	Title       string
	Text        string
	Authors     string
	PublishDate string
	ScrapedAt   time.Time
	Processed   bool
	// VerifiedLabel is set once a fact-check verdict was matched to the article.
	VerifiedLabel *int
	LabelSource   string
}

// FactCheck is a verdict published by a fact-checking site.
type FactCheck struct {
	ID          int64
	Claim       string
	Verdict     string
	SourceURL   string
	CheckerSite string
}

// Prediction is one classifier output logged against an article.
type Prediction struct {
	ArticleID       int64
	ModelVersion    string
	PredictedLabel  int
	ConfidenceScore float64
	RunID           string
	CreatedAt       time.Time
}

// Classification is the classifier's answer for one feature row.
type Classification struct {
	Label      int     `json:"label"`
	Confidence float64 `json:"confidence"`
}
