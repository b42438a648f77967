package domain

import "strconv"

// FeatureColumns is the output contract consumed by the downstream classifier.
// Order and naming must not change.
var FeatureColumns = []string{
	"id", "is_fake", "n_word", "n_char", "n_url", "n_num",
	"title_cap_ratio", "exclam_ratio", "quest_ratio", "text_cap_ratio",
	"avg_word_len", "lexical_diversity", "pronoun_ratio",
	"sentiment_score", "sentiment_magnitude",
	"ratio_anger", "ratio_fear", "ratio_disgust", "ratio_joy",
	"title_text_overlap", "title_text_len_ratio", "hedge_ratio",
}

// ModelInputColumns are the contract columns the classifier scores on.
var ModelInputColumns = FeatureColumns[2:]

// FeatureRow is one exported feature-table row. Field order mirrors FeatureColumns.
type FeatureRow struct {
	ID     int64 `parquet:"id"`
	IsFake int   `parquet:"is_fake"`
	NWord  int   `parquet:"n_word"`
	NChar  int   `parquet:"n_char"`
	NURL   int   `parquet:"n_url"`
	NNum   int   `parquet:"n_num"`

	TitleCapRatio      float64 `parquet:"title_cap_ratio"`
	ExclamRatio        float64 `parquet:"exclam_ratio"`
	QuestRatio         float64 `parquet:"quest_ratio"`
	TextCapRatio       float64 `parquet:"text_cap_ratio"`
	AvgWordLen         float64 `parquet:"avg_word_len"`
	LexicalDiversity   float64 `parquet:"lexical_diversity"`
	PronounRatio       float64 `parquet:"pronoun_ratio"`
	SentimentScore     float64 `parquet:"sentiment_score"`
	SentimentMagnitude float64 `parquet:"sentiment_magnitude"`
	RatioAnger         float64 `parquet:"ratio_anger"`
	RatioFear          float64 `parquet:"ratio_fear"`
	RatioDisgust       float64 `parquet:"ratio_disgust"`
	RatioJoy           float64 `parquet:"ratio_joy"`
	TitleTextOverlap   float64 `parquet:"title_text_overlap"`
	TitleTextLenRatio  float64 `parquet:"title_text_len_ratio"`
	HedgeRatio         float64 `parquet:"hedge_ratio"`
}

// ModelInputs returns the values aligned with ModelInputColumns.
func (r FeatureRow) ModelInputs() []float64 {
	return []float64{
		float64(r.NWord), float64(r.NChar), float64(r.NURL), float64(r.NNum),
		r.TitleCapRatio, r.ExclamRatio, r.QuestRatio, r.TextCapRatio,
		r.AvgWordLen, r.LexicalDiversity, r.PronounRatio,
		r.SentimentScore, r.SentimentMagnitude,
		r.RatioAnger, r.RatioFear, r.RatioDisgust, r.RatioJoy,
		r.TitleTextOverlap, r.TitleTextLenRatio, r.HedgeRatio,
	}
}

// SetModelInputs is the inverse of ModelInputs. Counts are truncated to int.
func (r *FeatureRow) SetModelInputs(v []float64) {
	if len(v) != len(ModelInputColumns) {
		return
	}
	r.NWord, r.NChar, r.NURL, r.NNum = int(v[0]), int(v[1]), int(v[2]), int(v[3])
	r.TitleCapRatio, r.ExclamRatio, r.QuestRatio, r.TextCapRatio = v[4], v[5], v[6], v[7]
	r.AvgWordLen, r.LexicalDiversity, r.PronounRatio = v[8], v[9], v[10]
	r.SentimentScore, r.SentimentMagnitude = v[11], v[12]
	r.RatioAnger, r.RatioFear, r.RatioDisgust, r.RatioJoy = v[13], v[14], v[15], v[16]
	r.TitleTextOverlap, r.TitleTextLenRatio, r.HedgeRatio = v[17], v[18], v[19]
}

// Record renders the row as strings aligned with FeatureColumns.
// Counts are plain integers; floats use the shortest representation that
// round-trips, so reruns are byte-identical.
func (r FeatureRow) Record() []string {
	record := make([]string, 0, len(FeatureColumns))
	record = append(record,
		strconv.FormatInt(r.ID, 10),
		strconv.Itoa(r.IsFake),
		strconv.Itoa(r.NWord),
		strconv.Itoa(r.NChar),
		strconv.Itoa(r.NURL),
		strconv.Itoa(r.NNum),
	)
	// counts are integers; the remaining inputs are ratios and scores
	for _, v := range r.ModelInputs()[4:] {
		record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return record
}
