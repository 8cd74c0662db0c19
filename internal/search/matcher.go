package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"faqbot/internal/contextutil"
	"faqbot/internal/vectorstore"
)

// MatcherProfile holds the per-variant scoring ladder shared by the exact
// and fuzzy keyword matchers.
type MatcherProfile struct {
	// Literal (dot/hyphen-bearing) keyword containment scores.
	LiteralQuestion     float64
	LiteralQuestionNorm float64
	LiteralAnswer       float64
	LiteralAnswerNorm   float64

	// Plain keyword base scores; longer keywords reward specificity.
	LongBase  float64
	ShortBase float64

	// Bonus multipliers when every keyword matched, and when every keyword
	// matched specifically in the question.
	AllMatchedBonus    float64
	AllInQuestionBonus float64

	// Whole-query containment scores; zero for the exact variant.
	WholeQueryQuestion float64
	WholeQueryAnswer   float64

	// DivideByMax normalizes by the theoretical maximum score (exact
	// variant); the fuzzy variant clamps the raw score instead.
	DivideByMax bool
}

// Factors shared by both profiles.
const (
	longKeywordRunes    = 4
	particleMatchFactor = 0.9  // keyword with a particle re-attached
	prefixMatchFactor   = 0.85 // question starts with the keyword
	answerMatchFactor   = 0.4  // containment in the answer only

	// Theoretical per-keyword maxima for the exact matcher's normalization.
	literalMaxPerKeyword = 4
	plainMaxPerKeyword   = 3
)

// ExactProfile is the scoring ladder of the exact keyword matcher.
func ExactProfile() MatcherProfile {
	return MatcherProfile{
		LiteralQuestion:     5,
		LiteralQuestionNorm: 3,
		LiteralAnswer:       1.5,
		LiteralAnswerNorm:   0.8,
		LongBase:            3.5,
		ShortBase:           2.5,
		AllMatchedBonus:     1.8,
		AllInQuestionBonus:  1.5,
		DivideByMax:         true,
	}
}

// FuzzyProfile is the scoring ladder of the fuzzy matcher, which also
// rewards whole-query containment with whitespace ignored.
func FuzzyProfile() MatcherProfile {
	return MatcherProfile{
		LiteralQuestion:     1.0,
		LiteralQuestionNorm: 0.7,
		LiteralAnswer:       0.4,
		LiteralAnswerNorm:   0.2,
		LongBase:            0.7,
		ShortBase:           0.5,
		AllMatchedBonus:     1.5,
		AllInQuestionBonus:  1.3,
		WholeQueryQuestion:  0.8,
		WholeQueryAnswer:    0.2,
		DivideByMax:         false,
	}
}

// attachCompound and attachSingle are the particles re-attached to a keyword
// when probing a question for an inflected form ("요금제" matches "요금제가").
// Compound endings are tried first.
var attachCompound = []string{
	"는요", "는가", "는지", "는지요", "는가요",
	"은가", "은지", "은지요", "은가요",
	"가요", "지요", "까요", "요", "죠", "까",
}

var attachSingle = []string{
	"가", "이", "을", "를", "의", "에", "에서", "로", "으로", "와", "과", "는", "은",
}

// ScoreEntry computes the keyword coverage score of one corpus entry in
// [0,1]. Longer keywords are evaluated first so compound forms are rewarded
// before their parts.
func ScoreEntry(query string, keywords []string, question, answer string, p MatcherProfile) float64 {
	if len(keywords) == 0 {
		return 0
	}

	sorted := make([]string, len(keywords))
	copy(sorted, keywords)
	sort.Slice(sorted, func(i, j int) bool { return runeLen(sorted[i]) > runeLen(sorted[j]) })

	q := strings.ToLower(question)
	a := strings.ToLower(answer)
	qNorm := stripSpace(q)
	aNorm := stripSpace(a)

	var matchScore float64
	laddered := 0

	// Whole-query containment with whitespace ignored (fuzzy variant only).
	if p.WholeQueryQuestion > 0 {
		queryNorm := stripSpace(strings.ToLower(query))
		if strings.Contains(qNorm, queryNorm) {
			matchScore += p.WholeQueryQuestion
		} else if strings.Contains(aNorm, queryNorm) {
			matchScore += p.WholeQueryAnswer
		}
	}

	hasLiteral := false
	for _, kw := range sorted {
		if strings.ContainsAny(kw, ".-") {
			hasLiteral = true
			kwNorm := stripPunct(kw)
			switch {
			case strings.Contains(q, kw):
				matchScore += p.LiteralQuestion
				laddered++
			case strings.Contains(qNorm, kwNorm):
				matchScore += p.LiteralQuestionNorm
				laddered++
			case strings.Contains(a, kw):
				matchScore += p.LiteralAnswer
				laddered++
			case strings.Contains(aNorm, kwNorm):
				matchScore += p.LiteralAnswerNorm
				laddered++
			}
			continue
		}

		base := p.ShortBase
		if runeLen(kw) >= longKeywordRunes {
			base = p.LongBase
		}
		switch {
		case strings.Contains(q, kw) || strings.Contains(qNorm, kw):
			matchScore += base
			laddered++
		case containsHangul(kw):
			switch {
			case particleMatch(q, qNorm, kw):
				matchScore += base * particleMatchFactor
				laddered++
			case strings.HasPrefix(q, kw) || strings.HasPrefix(qNorm, kw):
				matchScore += base * prefixMatchFactor
				laddered++
			case strings.Contains(a, kw) || strings.Contains(aNorm, kw):
				matchScore += base * answerMatchFactor
				laddered++
			}
		case strings.Contains(a, kw) || strings.Contains(aNorm, kw):
			matchScore += base * answerMatchFactor
			laddered++
		}
	}

	// Every keyword matched somewhere.
	allMatched := laddered == len(sorted)
	if !p.DivideByMax {
		// The fuzzy variant counts coverage by normalized containment so the
		// whole-query bonus cannot mask a missing keyword.
		matched := 0
		for _, kw := range sorted {
			kwNorm := stripPunct(kw)
			if strings.Contains(qNorm, kwNorm) || strings.Contains(aNorm, kwNorm) {
				matched++
			}
		}
		allMatched = matched == len(sorted)
	}
	if allMatched {
		matchScore *= p.AllMatchedBonus
	}

	// Every keyword matched specifically in the question.
	inQuestion := 0
	for _, kw := range sorted {
		if strings.Contains(q, kw) || strings.Contains(qNorm, stripPunct(kw)) {
			inQuestion++
		}
	}
	if inQuestion == len(sorted) {
		matchScore *= p.AllInQuestionBonus
	}

	if p.DivideByMax {
		perKeyword := float64(plainMaxPerKeyword)
		if hasLiteral {
			perKeyword = literalMaxPerKeyword
		}
		matchScore /= float64(len(sorted)) * perKeyword
	}
	return clamp01(matchScore)
}

// particleMatch reports whether the keyword with a trailing particle
// re-attached occurs in the question. Compound endings take precedence.
func particleMatch(q, qNorm, kw string) bool {
	for _, particle := range attachCompound {
		inflected := kw + particle
		if strings.Contains(q, inflected) || strings.Contains(qNorm, inflected) {
			return true
		}
	}
	for _, particle := range attachSingle {
		inflected := kw + particle
		if strings.Contains(q, inflected) || strings.Contains(qNorm, inflected) {
			return true
		}
	}
	return false
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Matcher scores every corpus entry against the keywords extracted from a
// query. The corpus lives in the vector store as opaque payloads, so both
// matcher variants page through a full scroll of the collection; cost scales
// with corpus size, not query complexity.
type Matcher struct {
	store      vectorstore.VectorStore
	collection string
	pageSize   int
}

// NewMatcher creates a keyword matcher over the given collection.
func NewMatcher(store vectorstore.VectorStore, collection string, pageSize int) *Matcher {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Matcher{store: store, collection: collection, pageSize: pageSize}
}

// Search scans the corpus and returns entries with a nonzero keyword score,
// ordered by score descending and truncated to topK. A query with no
// extractable keywords yields no results.
func (m *Matcher) Search(ctx context.Context, query string, topK int, fuzzy bool) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		logger.DebugContext(ctx, "no keywords extracted", "query", query)
		return nil, nil
	}

	profile := ExactProfile()
	if fuzzy {
		profile = FuzzyProfile()
	}

	var results []Result
	offset := ""
	for {
		points, next, err := m.store.Scroll(ctx, m.collection, m.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: corpus scan: %v", ErrVectorStore, err)
		}
		for _, pt := range points {
			question, _ := pt.Meta["question"].(string)
			answer, _ := pt.Meta["answer"].(string)
			if question == "" || answer == "" {
				logger.WarnContext(ctx, "skipping corpus entry with incomplete payload", "id", pt.PointID)
				continue
			}
			score := ScoreEntry(query, keywords, question, answer, profile)
			if score <= 0 {
				continue
			}
			results = append(results, Result{
				ID:       pt.PointID,
				Question: question,
				Answer:   answer,
				Scores:   Scores{Keyword: score},
				Final:    score,
			})
		}
		if next == "" {
			break
		}
		offset = next
	}

	sortByFinal(results)
	if len(results) > topK {
		results = results[:topK]
	}
	logger.DebugContext(ctx, "keyword search completed", "keywords", len(keywords), "results", len(results))
	return results, nil
}

func sortByFinal(results []Result) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Final > results[j].Final })
}
