package domain

import "strings"

// Binary labels attached to articles.
const (
	LabelReal = 0
	LabelFake = 1
)

var fakeVerdicts = []string{"false", "pants-fire", "barely-true"}

// LabelFromVerdict maps a fact-checker rating to a binary label.
// Ambiguous ratings such as "half-true" yield ok == false.
func LabelFromVerdict(verdict string) (label int, ok bool) {
	v := strings.ToLower(strings.TrimSpace(verdict))
	for _, marker := range fakeVerdicts {
		if strings.Contains(v, marker) {
			return LabelFake, true
		}
	}
	if strings.Contains(v, "half-true") {
		return 0, false
	}
	if strings.Contains(v, "true") {
		return LabelReal, true
	}
	return 0, false
}
