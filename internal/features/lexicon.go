package features

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// The embedded lists are excerpts of AFINN-165 and the NRC emotion lexicon,
// enough for tests and small runs. Production feature tables should set
// features.sentimentLexicon and features.emotionLexicon to the full lists.
//
//go:embed lexicon/afinn.tsv
var defaultSentimentTSV string

//go:embed lexicon/nrc_emotion.tsv
var defaultEmotionTSV string

// Emotion is one of the eight basic emotion categories.
type Emotion string

const (
	Anger        Emotion = "anger"
	Fear         Emotion = "fear"
	Disgust      Emotion = "disgust"
	Joy          Emotion = "joy"
	Sadness      Emotion = "sadness"
	Trust        Emotion = "trust"
	Surprise     Emotion = "surprise"
	Anticipation Emotion = "anticipation"
)

var basicEmotions = map[Emotion]bool{
	Anger: true, Fear: true, Disgust: true, Joy: true,
	Sadness: true, Trust: true, Surprise: true, Anticipation: true,
}

// SentimentLexicon maps case-folded words to signed polarity scores.
// It is read-only after loading and safe for concurrent use.
type SentimentLexicon map[string]float64

// EmotionLexicon maps case-folded words to the emotions they are associated with.
// It is read-only after loading and safe for concurrent use.
type EmotionLexicon map[string][]Emotion

// Lexicons bundles the two scorers' word lists.
type Lexicons struct {
	Sentiment SentimentLexicon
	Emotion   EmotionLexicon
}

// DefaultLexicons returns the embedded word lists.
func DefaultLexicons() (Lexicons, error) {
	sentiment, err := ParseSentiment(strings.NewReader(defaultSentimentTSV))
	if err != nil {
		return Lexicons{}, fmt.Errorf("embedded sentiment lexicon: %w", err)
	}
	emotion, err := ParseEmotion(strings.NewReader(defaultEmotionTSV))
	if err != nil {
		return Lexicons{}, fmt.Errorf("embedded emotion lexicon: %w", err)
	}
	return Lexicons{Sentiment: sentiment, Emotion: emotion}, nil
}

// LoadLexicons reads external lexicon files; an empty path keeps the embedded list.
func LoadLexicons(sentimentPath, emotionPath string) (Lexicons, error) {
	lex, err := DefaultLexicons()
	if err != nil {
		return Lexicons{}, err
	}

	if sentimentPath != "" {
		f, err := os.Open(sentimentPath)
		if err != nil {
			return Lexicons{}, fmt.Errorf("open sentiment lexicon: %w", err)
		}
		defer f.Close()
		if lex.Sentiment, err = ParseSentiment(f); err != nil {
			return Lexicons{}, fmt.Errorf("parse %s: %w", sentimentPath, err)
		}
	}

	if emotionPath != "" {
		f, err := os.Open(emotionPath)
		if err != nil {
			return Lexicons{}, fmt.Errorf("open emotion lexicon: %w", err)
		}
		defer f.Close()
		if lex.Emotion, err = ParseEmotion(f); err != nil {
			return Lexicons{}, fmt.Errorf("parse %s: %w", emotionPath, err)
		}
	}

	return lex, nil
}

// ParseSentiment reads AFINN-style "word<TAB>score" lines.
// Multi-word entries are skipped since scoring works on single tokens.
func ParseSentiment(r io.Reader) (SentimentLexicon, error) {
	lex := SentimentLexicon{}
	err := eachRecord(r, func(line int, fields []string) error {
		if len(fields) < 2 {
			return fmt.Errorf("line %d: expected word and score", line)
		}
		word := fold(fields[0])
		if strings.ContainsRune(word, ' ') {
			return nil
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return fmt.Errorf("line %d: score %q: %w", line, fields[1], err)
		}
		lex[word] = score
		return nil
	})
	return lex, err
}

// ParseEmotion reads NRC word-level lines, "word<TAB>emotion<TAB>flag" or
// "word<TAB>emotion". Rows with flag 0 and categories outside the eight basic
// emotions (the NRC polarity columns) are skipped.
func ParseEmotion(r io.Reader) (EmotionLexicon, error) {
	lex := EmotionLexicon{}
	err := eachRecord(r, func(line int, fields []string) error {
		if len(fields) < 2 {
			return fmt.Errorf("line %d: expected word and emotion", line)
		}
		if len(fields) >= 3 && strings.TrimSpace(fields[2]) == "0" {
			return nil
		}
		emotion := Emotion(strings.ToLower(strings.TrimSpace(fields[1])))
		if !basicEmotions[emotion] {
			return nil
		}
		word := fold(fields[0])
		for _, existing := range lex[word] {
			if existing == emotion {
				return nil
			}
		}
		lex[word] = append(lex[word], emotion)
		return nil
	})
	return lex, err
}

func eachRecord(r io.Reader, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := fn(line, strings.Split(text, "\t")); err != nil {
			return err
		}
	}
	return scanner.Err()
}
