package features

import (
	"math"
	"testing"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/textnorm"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func cleaned(id int64, title, text string) domain.Article {
	full := textnorm.JoinFullText(title, text)
	return domain.Article{
		ID:       id,
		Title:    title,
		Text:     text,
		FullText: full,
		Meta:     textnorm.Measure(full),
	}
}

func testExtractor() *Extractor {
	return NewExtractor(Lexicons{
		Sentiment: SentimentLexicon{"good": 2, "terrible": -4},
		Emotion:   EmotionLexicon{"murder": {Anger, Fear}, "happy": {Joy}},
	})
}

func TestExtractTitleCapRatio(t *testing.T) {
	t.Parallel()

	row := testExtractor().Extract(cleaned(1, "BREAKING!!!", "body"))
	approx(t, "title_cap_ratio", row.TitleCapRatio, 8.0/11.0)
}

func TestExtractPronounRatio(t *testing.T) {
	t.Parallel()

	a := domain.Article{Text: "I think we should go", Meta: domain.Metadata{NWord: 5}}
	row := testExtractor().Extract(a)
	approx(t, "pronoun_ratio", row.PronounRatio, 0.4)
}

func TestExtractTitleTextOverlap(t *testing.T) {
	t.Parallel()

	row := testExtractor().Extract(cleaned(1, "the cat sat", "the dog sat down"))
	approx(t, "title_text_overlap", row.TitleTextOverlap, 2.0/3.0)
}

func TestExtractEmptyArticleIsAllZero(t *testing.T) {
	t.Parallel()

	row := testExtractor().Extract(domain.Article{ID: 7, IsFake: 1})
	if row.ID != 7 || row.IsFake != 1 {
		t.Fatalf("identity not carried: %+v", row)
	}
	for i, v := range row.ModelInputs() {
		if v != 0 {
			t.Fatalf("%s = %v on empty input", domain.ModelInputColumns[i], v)
		}
	}
}

func TestExtractSentimentAndEmotions(t *testing.T) {
	t.Parallel()

	ex := testExtractor()

	row := ex.Extract(cleaned(1, "t", "Good and GOOD"))
	approx(t, "sentiment_score", row.SentimentScore, 4)

	row = ex.Extract(cleaned(2, "t", "terrible"))
	approx(t, "sentiment_score", row.SentimentScore, -4)
	approx(t, "sentiment_magnitude", row.SentimentMagnitude, 4)

	a := cleaned(3, "", "Murder most foul")
	a.Meta.NWord = 3
	row = ex.Extract(a)
	approx(t, "ratio_anger", row.RatioAnger, 1.0/3.0)
	approx(t, "ratio_fear", row.RatioFear, 1.0/3.0)
	approx(t, "ratio_joy", row.RatioJoy, 0)
	approx(t, "ratio_disgust", row.RatioDisgust, 0)
}

func TestExtractHedgeRatioMatchesSubstrings(t *testing.T) {
	t.Parallel()

	a := domain.Article{FullText: "Maybelline reportedly", Meta: domain.Metadata{NWord: 2}}
	row := testExtractor().Extract(a)
	approx(t, "hedge_ratio", row.HedgeRatio, 1)
}

func TestExtractPunctuationRatios(t *testing.T) {
	t.Parallel()

	a := domain.Article{Title: "", Text: "Why?! No!", FullText: "0123456789"}
	row := testExtractor().Extract(a)
	approx(t, "exclam_ratio", row.ExclamRatio, 0.2)
	approx(t, "quest_ratio", row.QuestRatio, 0.1)
	approx(t, "text_cap_ratio", row.TextCapRatio, 0.2)
}

func TestExtractRatiosStayInUnitRange(t *testing.T) {
	t.Parallel()

	ex := testExtractor()
	inputs := []domain.Article{
		cleaned(1, "Senate Passes Bill", "The senate passed the bill on Tuesday, officials said."),
		cleaned(2, "WOW", "wow wow wow WOW"),
		cleaned(3, "", ""),
		cleaned(4, "Only a title", ""),
	}
	for _, a := range inputs {
		row := ex.Extract(a)
		for name, v := range map[string]float64{
			"title_cap_ratio":      row.TitleCapRatio,
			"lexical_diversity":    row.LexicalDiversity,
			"title_text_overlap":   row.TitleTextOverlap,
			"title_text_len_ratio": row.TitleTextLenRatio,
		} {
			if v < 0 || v > 1 {
				t.Fatalf("row %d: %s = %v out of [0,1]", a.ID, name, v)
			}
		}
		if row.SentimentMagnitude < 0 {
			t.Fatalf("row %d: negative magnitude", a.ID)
		}
	}
}

func TestLexicalHelpers(t *testing.T) {
	t.Parallel()

	approx(t, "AvgWordLen", AvgWordLen([]string{"ab", "abcd"}), 3)
	approx(t, "AvgWordLen(nil)", AvgWordLen(nil), 0)
	approx(t, "LexicalDiversity", LexicalDiversity([]string{"the", "the", "cat"}), 2.0/3.0)
	approx(t, "TitleTextOverlap empty body", TitleTextOverlap([]string{"a"}, nil), 0)
	approx(t, "SafeDiv zero", SafeDiv(3, 0), 0)
	approx(t, "SafeDiv", SafeDiv(3, 4), 0.75)
}
