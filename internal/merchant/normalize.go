// Package merchant reduces raw statement descriptions to canonical "core
// names" used for fuzzy category matching, and recognizes point-of-sale
// processor prefixes for categorization hints.
package merchant

import (
	"regexp"
	"strings"
)

// Processor prefixes a card statement sticks in front of the actual merchant
// name. Checked in declared order; longer variants first so "sq *" wins over
// "sq".
var processorPrefixes = []string{
	"sq *", "sq*",
	"tst* ", "tst*",
	"paypal *", "pp* ", "pp*",
	"py *",
	"sp * ", "sp ",
	"ig *",
	"dd *", "dd ",
	"ckz*", "cko*",
}

var (
	phonePattern       = regexp.MustCompile(`^\(?\d{3}\)?[-.]?\d{3}[-.]?\d{4}$`)
	storeNumberPattern = regexp.MustCompile(`^#\d+$`)
	bareNumberPattern  = regexp.MustCompile(`^\d+$`)
)

// Two-letter state codes that show up as trailing location tokens.
var stateCodes = map[string]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true, "co": true,
	"ct": true, "de": true, "fl": true, "ga": true, "hi": true, "id": true,
	"il": true, "in": true, "ia": true, "ks": true, "ky": true, "la": true,
	"me": true, "md": true, "ma": true, "mi": true, "mn": true, "ms": true,
	"mo": true, "mt": true, "ne": true, "nv": true, "nh": true, "nj": true,
	"nm": true, "ny": true, "nc": true, "nd": true, "oh": true, "ok": true,
	"or": true, "pa": true, "ri": true, "sc": true, "sd": true, "tn": true,
	"tx": true, "ut": true, "vt": true, "va": true, "wa": true, "wv": true,
	"wi": true, "wy": true, "dc": true,
}

// Cities commonly printed on statements as bare trailing tokens.
var cityTokens = map[string]bool{
	"nyc": true, "brooklyn": true, "queens": true, "seattle": true,
	"portland": true, "oakland": true, "berkeley": true, "denver": true,
	"boston": true, "austin": true, "chicago": true, "houston": true,
	"dallas": true, "phoenix": true, "miami": true, "atlanta": true,
	"philadelphia": true, "minneapolis": true, "nashville": true,
}

// Multi-word city suffixes, checked against the tail of the token list.
var cityPhrases = [][]string{
	{"new", "york"},
	{"san", "francisco"},
	{"los", "angeles"},
	{"san", "jose"},
	{"san", "diego"},
	{"las", "vegas"},
	{"salt", "lake", "city"},
}

// Street-suffix tokens left dangling once the street number is gone.
var streetSuffixes = map[string]bool{
	"st": true, "ave": true, "blvd": true, "rd": true, "dr": true,
	"ln": true, "hwy": true, "way": true, "pkwy": true, "plz": true,
}

// Normalize derives the canonical core name from a raw description, plus the
// recognized processor prefix if one was present (lowercased, trimmed of its
// separator). The transform is lossy and best-effort:
//
//  1. lowercase and trim
//  2. strip one recognized processor prefix
//  3. truncate at the first standalone numeric or #-store-number token
//     (statement text puts street addresses and store numbers there, and
//     trailing-token stripping alone cannot reach interior street words)
//  4. iteratively strip trailing phone numbers, state codes, city names,
//     street suffixes, store numbers and bare numbers
//  5. collapse repeated whitespace
//
// It never fails: when the result would be empty the trimmed lowercased
// input is returned unchanged.
func Normalize(description string) (core string, prefix string) {
	s := strings.ToLower(strings.TrimSpace(description))
	if s == "" {
		return "", ""
	}
	original := s

	for _, p := range processorPrefixes {
		if strings.HasPrefix(s, p) {
			prefix = strings.TrimSpace(strings.Trim(p, "* "))
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}

	tokens := strings.Fields(s)

	for i, tok := range tokens {
		if bareNumberPattern.MatchString(tok) || storeNumberPattern.MatchString(tok) {
			tokens = tokens[:i]
			break
		}
	}

	tokens = stripTrailingNoise(tokens)

	core = strings.Join(tokens, " ")
	if core == "" {
		return original, prefix
	}
	return core, prefix
}

// CoreName is Normalize without the prefix, for callers that only key on it.
func CoreName(description string) string {
	core, _ := Normalize(description)
	return core
}

func stripTrailingNoise(tokens []string) []string {
	for len(tokens) > 0 {
		if phrase := trailingCityPhrase(tokens); phrase > 0 {
			tokens = tokens[:len(tokens)-phrase]
			continue
		}
		last := tokens[len(tokens)-1]
		if phonePattern.MatchString(last) ||
			storeNumberPattern.MatchString(last) ||
			bareNumberPattern.MatchString(last) ||
			stateCodes[last] ||
			cityTokens[last] ||
			streetSuffixes[last] {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		break
	}
	return tokens
}

// trailingCityPhrase returns the length of a multi-word city phrase ending
// the token list, or 0.
func trailingCityPhrase(tokens []string) int {
	for _, phrase := range cityPhrases {
		if len(tokens) < len(phrase) {
			continue
		}
		tail := tokens[len(tokens)-len(phrase):]
		match := true
		for i := range phrase {
			if tail[i] != phrase[i] {
				match = false
				break
			}
		}
		if match {
			return len(phrase)
		}
	}
	return 0
}
