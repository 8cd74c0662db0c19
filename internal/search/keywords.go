package search

import (
	"regexp"
	"sort"
	"strings"
)

// stopParticles are Korean case particles, interrogatives and sentence-final
// endings that carry no retrieval signal on their own.
var stopParticles = map[string]struct{}{
	"가": {}, "이": {}, "을": {}, "를": {}, "의": {}, "에": {}, "에서": {}, "로": {}, "으로": {},
	"와": {}, "과": {}, "도": {}, "만": {}, "부터": {}, "까지": {},
	"뭐": {}, "뭐야": {}, "무엇": {}, "무엇인가": {}, "무엇이야": {}, "어떻게": {}, "어떤": {},
	"언제": {}, "어디": {}, "왜": {}, "누구": {},
	"는": {}, "은": {}, "이다": {}, "입니다": {}, "이에요": {}, "예요": {}, "야": {}, "어": {},
	"아": {}, "지": {}, "네": {}, "게": {}, "데": {},
	"알려주세요": {}, "알려줘": {}, "알려": {}, "주세요": {}, "알려주": {}, "알려줄": {}, "알려줄래": {},
	"는요": {}, "는가": {}, "는지": {}, "는지요": {}, "는가요": {}, "은가": {}, "은지": {},
	"은지요": {}, "은가요": {},
	"요": {}, "가요": {}, "지요": {}, "죠": {}, "까": {}, "까요": {},
}

// compoundEndings are multi-character sentence endings tried before the
// single-character particles when deriving a suffix-stripped keyword form.
// Order matters; the first suffix found wins.
var compoundEndings = []string{
	"는요", "는가", "는지", "는지요", "는가요",
	"은가", "은지", "은지요", "은가요",
	"가요", "지요", "까요",
}

// singleParticles are the single-character case particles stripped from the
// tail of a Hangul token after the compound endings were tried.
var singleParticles = map[rune]struct{}{
	'가': {}, '이': {}, '을': {}, '를': {}, '의': {}, '에': {}, '서': {}, '로': {}, '으': {},
	'와': {}, '과': {}, '도': {}, '만': {}, '부': {}, '터': {}, '까': {}, '지': {}, '는': {}, '은': {},
}

var (
	// literalTokenRe keeps dots and hyphens inside a token so literal terms
	// like a dotted product name survive as one unit.
	literalTokenRe = regexp.MustCompile(`[\w가-힣.\-]+`)
	// nonWordRe blanks everything that is not a word character, Hangul or
	// whitespace before the plain word pass.
	nonWordRe = regexp.MustCompile(`[^\w\s가-힣]`)
	numericRe = regexp.MustCompile(`^[0-9]+$`)
)

const (
	pairMinRunes   = 2  // exclusive
	pairMaxRunes   = 20 // exclusive
	tripleMinRunes = 3  // inclusive
	tripleMaxRunes = 25 // exclusive
)

// ExtractKeywords turns free text into the set of candidate keyword forms
// used by the keyword matchers: literal dot/hyphen tokens and their parts,
// plain word tokens, suffix-stripped variants of Hangul tokens, and adjacent
// 2- and 3-token compounds. The result is empty when the text contains only
// particles, punctuation or single characters. Output order is longest form
// first so compound keywords are matched before their parts.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}

	set := make(map[string]struct{})
	add := func(tok string) {
		if runeLen(tok) <= 1 || numericRe.MatchString(tok) {
			return
		}
		if _, stop := stopParticles[tok]; stop {
			return
		}
		set[tok] = struct{}{}
	}
	// register a token plus its suffix-stripped variant when it bears Hangul
	register := func(tok string) {
		add(tok)
		if !containsHangul(tok) {
			return
		}
		if stripped := stripParticle(tok); stripped != tok && runeLen(stripped) > 1 {
			add(stripped)
		}
	}

	// Literal tokens: dotted or hyphenated terms as one unit plus their parts.
	for _, tok := range literalTokenRe.FindAllString(lower, -1) {
		register(tok)
		if strings.ContainsAny(tok, ".-") {
			for _, part := range strings.FieldsFunc(tok, func(r rune) bool { return r == '.' || r == '-' }) {
				register(part)
			}
		}
	}

	// Plain word tokens after stripping everything but word chars and Hangul.
	normalized := nonWordRe.ReplaceAllString(lower, " ")
	var kept []string
	for _, word := range strings.Fields(normalized) {
		if runeLen(word) <= 1 || numericRe.MatchString(word) {
			continue
		}
		if _, stop := stopParticles[word]; stop {
			continue
		}
		kept = append(kept, word)
		register(word)
	}

	// Adjacent compounds catch nouns the tokenizer split apart. Reversed pair
	// order covers queries that invert a compound's halves.
	for i := range kept {
		if i+1 < len(kept) {
			pair := kept[i] + kept[i+1]
			if l := runeLen(pair); l > pairMinRunes && l < pairMaxRunes {
				add(pair)
			}
			reversed := kept[i+1] + kept[i]
			if l := runeLen(reversed); l > pairMinRunes && l < pairMaxRunes {
				add(reversed)
			}
		}
		if i+2 < len(kept) {
			triple := kept[i] + kept[i+1] + kept[i+2]
			if l := runeLen(triple); l >= tripleMinRunes && l < tripleMaxRunes {
				add(triple)
			}
		}
	}

	keywords := make([]string, 0, len(set))
	for k := range set {
		keywords = append(keywords, k)
	}
	sort.Slice(keywords, func(i, j int) bool {
		li, lj := runeLen(keywords[i]), runeLen(keywords[j])
		if li != lj {
			return li > lj
		}
		return keywords[i] < keywords[j]
	})
	return keywords
}

// stripParticle removes one trailing particle from a Hangul token: compound
// sentence endings first, then a single-character case particle.
func stripParticle(tok string) string {
	stripped := tok
	for _, ending := range compoundEndings {
		if strings.HasSuffix(stripped, ending) {
			stripped = strings.TrimSuffix(stripped, ending)
			break
		}
	}
	runes := []rune(stripped)
	if len(runes) > 0 {
		if _, ok := singleParticles[runes[len(runes)-1]]; ok {
			stripped = string(runes[:len(runes)-1])
		}
	}
	return stripped
}

func containsHangul(s string) bool {
	for _, r := range s {
		if r >= '가' && r <= '힣' {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}
