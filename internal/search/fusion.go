package search

import "math"

// Combine merges the vector and keyword branches by entry id, keeping the
// maximum score seen per signal, and computes the weighted base score. The
// keyword weight is raised adaptively when the keyword signal is strong,
// with the vector weight taking the complement.
func Combine(vectorResults, keywordResults []Result, vectorWeight, keywordWeight float64, t Tuning) []Result {
	type merged struct {
		entry  Entry
		scores Scores
	}
	order := make([]string, 0, len(vectorResults)+len(keywordResults))
	byID := make(map[string]*merged)

	upsert := func(r Result) *merged {
		m, ok := byID[r.ID]
		if !ok {
			m = &merged{entry: Entry{ID: r.ID, Question: r.Question, Answer: r.Answer}}
			byID[r.ID] = m
			order = append(order, r.ID)
		}
		return m
	}
	for _, r := range vectorResults {
		m := upsert(r)
		m.scores.Vector = math.Max(m.scores.Vector, r.Scores.Vector)
	}
	for _, r := range keywordResults {
		m := upsert(r)
		m.scores.Keyword = math.Max(m.scores.Keyword, r.Scores.Keyword)
	}

	combined := make([]Result, 0, len(order))
	for _, id := range order {
		m := byID[id]
		vecW, kwW := baseWeights(m.scores, vectorWeight, keywordWeight, t)
		combined = append(combined, Result{
			ID:       m.entry.ID,
			Question: m.entry.Question,
			Answer:   m.entry.Answer,
			Scores:   m.scores,
			Final:    m.scores.Vector*vecW + m.scores.Keyword*kwW,
		})
	}
	sortByFinal(combined)
	return combined
}

// baseWeights returns the adaptive vector/keyword weights for one entry.
func baseWeights(sc Scores, vectorWeight, keywordWeight float64, t Tuning) (vecW, kwW float64) {
	switch {
	case sc.Keyword >= t.HighKeyword:
		kwW = math.Min(keywordWeight*t.KeywordWeightBoost, t.KeywordWeightCap)
		vecW = 1 - kwW
	case sc.Keyword >= t.MidKeyword && sc.Vector < t.LowVector:
		kwW = math.Min(keywordWeight*t.MidKeywordWeightBoost, t.MidKeywordWeightCap)
		vecW = 1 - kwW
	default:
		vecW, kwW = vectorWeight, keywordWeight
	}
	return vecW, kwW
}

// lexicalWeightRule adjusts the configured lexical blend weight for one
// score shape. Rules are evaluated top to bottom; the first match wins.
type lexicalWeightRule struct {
	name  string
	when  func(sc Scores, t Tuning) bool
	apply func(weight float64, t Tuning) float64
}

var lexicalWeightRules = []lexicalWeightRule{
	{
		// Keyword missed entirely while the vector is confident: only the
		// question text can arbitrate, so lexical gets the casting vote.
		name: "vector-only rescue",
		when: func(sc Scores, t Tuning) bool {
			return sc.Keyword == 0 && sc.Vector >= t.HighVector
		},
		apply: func(w float64, t Tuning) float64 {
			return math.Min(w*t.LexicalRescueFactor, t.LexicalRescueCap)
		},
	},
	{
		// A confident signal contradicted by the question text is suspect.
		name: "high-confidence audit",
		when: func(sc Scores, t Tuning) bool {
			return (sc.Vector >= t.HighVector || sc.Keyword >= t.StrongKeyword) && sc.Lexical < t.LowLexical
		},
		apply: func(w float64, t Tuning) float64 {
			return math.Min(w*t.LexicalAuditFactor, t.LexicalAuditCap)
		},
	},
	{
		// Confident signal confirmed by the question text; lexical steps back.
		name: "high-confidence trust",
		when: func(sc Scores, t Tuning) bool {
			return sc.Vector >= t.HighVector || sc.Keyword >= t.StrongKeyword
		},
		apply: func(w float64, t Tuning) float64 {
			return math.Min(w, t.LexicalTrustCap)
		},
	},
	{
		// Keyword-led result with a weak vector: the keyword signal decides.
		name: "keyword-led dampen",
		when: func(sc Scores, t Tuning) bool {
			return sc.Keyword >= t.HighKeyword && sc.Vector < t.MidVector
		},
		apply: func(w float64, t Tuning) float64 {
			return math.Min(w*t.LexicalDampenFactor, t.LexicalDampenCap)
		},
	},
	{
		name: "partial-keyword dampen",
		when: func(sc Scores, t Tuning) bool {
			return sc.Keyword >= t.MidKeyword && sc.Vector < t.LowVector
		},
		apply: func(w float64, t Tuning) float64 {
			return math.Min(w*t.LexicalDampenFactor, t.LexicalDampenCap)
		},
	},
}

// adjustedLexicalWeight runs the rule table and applies the final floor cap
// for keyword-confirmed entries with almost no textual overlap.
func adjustedLexicalWeight(sc Scores, weight float64, t Tuning) float64 {
	for _, rule := range lexicalWeightRules {
		if rule.when(sc, t) {
			weight = rule.apply(weight, t)
			break
		}
	}
	if sc.Lexical < t.VeryLowLexical && sc.Keyword >= t.MidKeyword {
		weight = math.Min(weight, t.LexicalFloorCap)
	}
	return weight
}

// questionMatchBonus rewards near-identical question text and penalizes
// candidates whose question barely overlaps the query.
func questionMatchBonus(sc Scores, t Tuning) float64 {
	switch {
	case sc.Lexical > t.HighLexical:
		return t.ExactQuestionBonus
	case sc.Lexical > t.MidLexical:
		return t.NearQuestionBonus
	case sc.Lexical < t.LowLexical:
		switch {
		case sc.Keyword == 0 && sc.Lexical < t.VeryLowLexical:
			return -t.StrongLexicalPenalty
		case sc.Vector >= t.HighVector && sc.Lexical >= t.PenaltyRelaxLexical:
			return -t.SoftLexicalPenalty
		case sc.Keyword >= t.MidKeyword:
			return 0
		default:
			return -t.LexicalPenalty
		}
	}
	return 0
}

// keywordBonus adds a share of the keyword score when keyword matching
// succeeded outright.
func keywordBonus(sc Scores, t Tuning) float64 {
	switch {
	case sc.Keyword >= t.HighKeyword:
		return sc.Keyword * t.KeywordBonusHigh
	case sc.Keyword >= t.MidKeyword:
		return sc.Keyword * t.KeywordBonusMid
	}
	return 0
}

// adjustedBaseScore floors the base score with the keyword score when the
// keyword branch matched but the vector branch barely did.
func adjustedBaseScore(sc Scores, base float64, t Tuning) float64 {
	if sc.Keyword >= t.MidKeyword && sc.Vector < t.LowVector {
		return math.Max(base, sc.Keyword*t.BaseRescueFactor)
	}
	return base
}

// Rerank blends the lexical similarity between the query and each
// candidate's question into the base score, applies the bonus and penalty
// rules, clamps to [0,1], and truncates to topK. The lexical comparison is
// against the question field only; answers are too long to be informative.
func Rerank(query string, combined []Result, topK int, lexicalWeight float64, t Tuning) []Result {
	reranked := make([]Result, 0, len(combined))
	for _, r := range combined {
		sc := Scores{
			Vector:  r.Scores.Vector,
			Keyword: r.Scores.Keyword,
			Lexical: CombinedLexicalScore(query, r.Question),
		}
		weight := adjustedLexicalWeight(sc, lexicalWeight, t)
		base := adjustedBaseScore(sc, r.Final, t)
		final := clamp01(base*(1-weight) + sc.Lexical*weight + questionMatchBonus(sc, t) + keywordBonus(sc, t))

		r.Scores.Lexical = sc.Lexical
		r.Final = final
		reranked = append(reranked, r)
	}
	sortByFinal(reranked)
	if len(reranked) > topK {
		reranked = reranked[:topK]
	}
	return reranked
}
