// Package datenorm parses loosely formatted article dates into canonical YYYY-MM-DD.
package datenorm

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Missing is returned for inputs that cannot be parsed.
const Missing = ""

const (
	minYear   = 1800
	maxYear   = 2100
	yearPivot = 30
)

var (
	ordinalExpr    = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`)
	separatorExpr  = regexp.MustCompile(`[/\-]`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
	numericExpr    = regexp.MustCompile(`^\d+$`)

	// longer names first so "sept" wins over "sep"
	monthNames = []struct {
		name string
		code string
	}{
		{"january", "01"}, {"february", "02"}, {"march", "03"}, {"april", "04"},
		{"may", "05"}, {"june", "06"}, {"july", "07"}, {"august", "08"},
		{"september", "09"}, {"october", "10"}, {"november", "11"}, {"december", "12"},
		{"sept", "09"},
		{"jan", "01"}, {"feb", "02"}, {"mar", "03"}, {"apr", "04"},
		{"jun", "06"}, {"jul", "07"}, {"aug", "08"}, {"sep", "09"},
		{"oct", "10"}, {"nov", "11"}, {"dec", "12"},
	}
	monthExprs = compileMonths()
)

type monthExpr struct {
	expr *regexp.Regexp
	code string
}

func compileMonths() []monthExpr {
	out := make([]monthExpr, 0, len(monthNames))
	for _, m := range monthNames {
		out = append(out, monthExpr{
			expr: regexp.MustCompile(`\b` + m.name + `\b`),
			code: m.code,
		})
	}
	return out
}

// Normalize converts raw into YYYY-MM-DD or Missing.
func Normalize(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return Missing
	}
	return t.Format(time.DateOnly)
}

// Parse resolves raw into a UTC calendar date.
func Parse(raw string) (time.Time, bool) {
	nums := numericTokens(raw)
	if len(nums) < 3 {
		return time.Time{}, false
	}
	nums = nums[:3]

	yearIdx := -1
	for i, tok := range nums {
		if len(tok.text) == 4 && tok.value >= minYear && tok.value <= maxYear {
			yearIdx = i
			break
		}
	}
	if yearIdx < 0 {
		yearIdx = 0
		for i, tok := range nums {
			if tok.value > nums[yearIdx].value {
				yearIdx = i
			}
		}
	}

	year := expandYear(nums[yearIdx].value)

	rest := make([]int, 0, 2)
	for i, tok := range nums {
		if i != yearIdx {
			rest = append(rest, tok.value)
		}
	}

	month, day := rest[0], rest[1]
	if !isMonth(rest[0]) && isMonth(rest[1]) {
		month, day = rest[1], rest[0]
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject values time.Date silently rolled over, e.g. 2023-02-30
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

type numericToken struct {
	text  string
	value int
}

func numericTokens(raw string) []numericToken {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ",", " ")
	s = ordinalExpr.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ".", "")
	for _, m := range monthExprs {
		s = m.expr.ReplaceAllString(s, m.code)
	}
	s = separatorExpr.ReplaceAllString(s, " ")
	s = strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))

	var out []numericToken
	for _, field := range strings.Split(s, " ") {
		if !numericExpr.MatchString(field) {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		out = append(out, numericToken{text: field, value: v})
	}
	return out
}

func expandYear(y int) int {
	switch {
	case y < 0 || y >= 100:
		return y
	case y <= yearPivot:
		return 2000 + y
	default:
		return 1900 + y
	}
}

func isMonth(v int) bool {
	return v >= 1 && v <= 12
}
