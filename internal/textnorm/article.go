package textnorm

import "FakeNewsFeatures/internal/domain"

// Apply cleans the raw title and body of a and fills every derived text
// field plus the row metadata. The raw fields are left untouched.
func Apply(a domain.Article) domain.Article {
	title := Normalize(a.TitleRaw)
	text := Normalize(a.TextRaw)

	a.Title = title.Cased
	a.Text = text.Cased
	a.FullText = JoinFullText(a.Title, a.Text)
	a.PlainText = Plain(a.FullText)
	a.BERTText = JoinFullText(title.BERT, text.BERT)
	a.Meta = Measure(a.FullText)
	return a
}
