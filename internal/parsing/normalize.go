// Package parsing provides the text normalisation shared by every embedding path.
package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// skillAliases maps common skill name variants to a canonical lower-case
// term. Short forms with more than one common reading are left out.
var skillAliases = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"js":         "javascript",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"nodejs":     "node.js",
	"postgres":   "postgresql",
	"sklearn":    "scikit-learn",
	"gcp":        "google cloud",
	"amazon aws": "aws",
}

// Normalize lower-cases text, removes ASCII punctuation and symbols, and
// collapses runs of whitespace into single spaces. Non-ASCII characters,
// punctuation included, are kept as they are.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	stripped := strings.Map(func(r rune) rune {
		if isASCIIPunctuation(r) {
			return -1
		}
		return r
	}, lower)
	return strings.Join(strings.Fields(stripped), " ")
}

func isASCIIPunctuation(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

// NormalizeSkillTerm returns a skill term as it is reported: trimmed,
// lower-cased, inner whitespace collapsed.
func NormalizeSkillTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

// CanonicalSkill returns the key skill terms are compared under: the
// normalised term with common aliases resolved, so "K8s" and "kubernetes"
// share a key.
func CanonicalSkill(term string) string {
	key := NormalizeSkillTerm(term)
	if canonical, ok := skillAliases[key]; ok {
		return canonical
	}
	return key
}

// SplitSkillTerms splits a free-text skills field on commas, semicolons and
// newlines, trimming each term and dropping empties.
func SplitSkillTerms(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

// DedupeTerms removes terms that share a canonical key, keeping the
// normalised wording of the first one seen, in first-seen order.
func DedupeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		key := CanonicalSkill(term)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, NormalizeSkillTerm(term))
	}
	return out
}
