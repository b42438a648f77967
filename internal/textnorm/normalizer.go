// Package textnorm cleans raw article titles and bodies into the canonical forms
// consumed by the feature extractor and the downstream text models.
package textnorm

import (
	"regexp"
	"strings"
)

// Placeholder tokens written in place of masked spans.
const (
	URLToken   = "__URL__"
	EmailToken = "__EMAIL__"
	UserToken  = "__USER__"
	NumToken   = "__NUM__"
)

var (
	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
		"&nbsp;", "\u00a0",
	)

	punctuationReplacer = strings.NewReplacer(
		"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`,
		"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'",
		"\u2014", "-", "\u2013", "-",
		"\u00a0", " ",
	)

	urlExpr   = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	emailExpr = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	userExpr  = regexp.MustCompile(`@[A-Za-z0-9_]{2,}`)

	// "WASHINGTON (Reuters) - ", "(AP) - ", "AP: ", "Reuters: "
	wirePrefixExpr = regexp.MustCompile(`^(?:[A-Z][A-Z .,/'\-]*\s)?\((?i:reuters|ap|afp|upi)\)\s*-\s*|^(?i:reuters|ap|afp|upi)\s*:\s*`)

	advertisementExpr = regexp.MustCompile(`(?i)\badvertisement\b`)
	rightsExpr        = regexp.MustCompile(`(?i)all rights reserved\.`)
	photoPrefixExpr   = regexp.MustCompile(`(?i)^photo:\s*`)

	digitsExpr     = regexp.MustCompile(`[0-9]+`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
	nonWordExpr    = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// Forms carries every cleaned rendition of one raw string.
type Forms struct {
	// Cased is the case-preserving form with digits masked; features and TF-IDF use it.
	Cased string
	// BERT is the case-preserving form without digit masking.
	BERT string
	// Plain is Cased lowercased with punctuation runs replaced by single spaces.
	Plain string
}

// Normalize runs the ordered cleaning pipeline over raw.
func Normalize(raw string) Forms {
	base := clean(raw)
	cased := collapse(digitsExpr.ReplaceAllString(base, NumToken))
	return Forms{
		Cased: cased,
		BERT:  collapse(base),
		Plain: Plain(cased),
	}
}

// Clean returns the case-preserving cleaned form, optionally masking digit runs.
func Clean(raw string, maskDigits bool) string {
	base := clean(raw)
	if maskDigits {
		base = digitsExpr.ReplaceAllString(base, NumToken)
	}
	return collapse(base)
}

// Plain lowercases s, replaces every run of non-alphanumeric, non-underscore
// characters with one space and collapses whitespace.
func Plain(s string) string {
	lower := strings.ToLower(s)
	return collapse(nonWordExpr.ReplaceAllString(lower, " "))
}

// clean applies steps up to boilerplate removal; digit masking and the final collapse are left to callers.
func clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = entityReplacer.Replace(s)
	s = punctuationReplacer.Replace(s)

	s = urlExpr.ReplaceAllString(s, URLToken)
	s = emailExpr.ReplaceAllString(s, EmailToken)
	s = userExpr.ReplaceAllString(s, UserToken)

	s = wirePrefixExpr.ReplaceAllString(s, "")

	s = advertisementExpr.ReplaceAllString(s, "")
	s = rightsExpr.ReplaceAllString(s, "")
	s = photoPrefixExpr.ReplaceAllString(s, "")
	return s
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))
}
