package search

import (
	"regexp"
	"strings"
	"unicode"
)

// Token- and character-level Jaccard weights for the combined lexical score.
const (
	tokenScoreWeight = 0.7
	charScoreWeight  = 0.3
)

// lexicalSplitRe blanks every character that is not a word character or
// Hangul before tokenizing for the lexical score.
var lexicalSplitRe = regexp.MustCompile(`[^\w가-힣]`)

// Tokenize lowercases text and splits it into word tokens. The whitespace-
// stripped original is appended as one extra token when it differs from the
// plain token concatenation, so literal terms like a dotted product name
// stay recognizable as a whole.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	tokens := strings.Fields(lexicalSplitRe.ReplaceAllString(lower, " "))
	stripped := stripSpace(lower)
	if stripped != "" && stripped != strings.Join(tokens, "") {
		tokens = append(tokens, stripped)
	}
	return tokens
}

// Jaccard returns |A∩B| / |A∪B|. Two empty sets are identical by
// convention; one empty set yields zero similarity.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// LexicalScore is the token-level Jaccard similarity of two strings.
func LexicalScore(a, b string) float64 {
	return Jaccard(toSet(Tokenize(a)), toSet(Tokenize(b)))
}

// CharacterScore is the character-level Jaccard similarity, computed over
// the rune sets of the concatenated tokens.
func CharacterScore(a, b string) float64 {
	return Jaccard(runeSet(Tokenize(a)), runeSet(Tokenize(b)))
}

// CombinedLexicalScore blends token- and character-level similarity, with
// the token level dominating.
func CombinedLexicalScore(a, b string) float64 {
	return tokenScoreWeight*LexicalScore(a, b) + charScoreWeight*CharacterScore(a, b)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func runeSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range strings.Join(tokens, "") {
		set[string(r)] = struct{}{}
	}
	return set
}

// stripSpace removes every whitespace character.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
