package search

// Tuning collects the empirically tuned scoring constants in one overridable
// place. The defaults reflect the values the production dataset was tuned
// against; do not adjust them without re-running a labeled evaluation set.
type Tuning struct {
	// Score-shape thresholds shared by fusion and the confidence gate.
	HighVector     float64 // vector score considered high-confidence
	MidVector      float64 // vector score considered moderate
	LowVector      float64 // vector score considered weak
	StrongKeyword  float64 // keyword score treated like a verbatim match
	HighKeyword    float64 // keyword score considered a successful match
	MidKeyword     float64 // keyword score considered a partial match
	HighLexical    float64 // lexical score above which questions are near-identical
	MidLexical     float64 // lexical score above which questions are similar
	LowLexical     float64 // lexical score below which a match is suspect
	VeryLowLexical float64 // lexical score treated as no textual overlap

	// Adaptive base weights (vector/keyword blend).
	KeywordWeightBoost    float64 // keyword weight multiplier on a high keyword score
	KeywordWeightCap      float64
	MidKeywordWeightBoost float64 // keyword weight multiplier on a partial match with weak vector
	MidKeywordWeightCap   float64

	// Question-match bonus and penalties applied during reranking.
	ExactQuestionBonus   float64 // near-identical question text
	NearQuestionBonus    float64 // similar question text
	LexicalPenalty       float64 // low textual overlap
	StrongLexicalPenalty float64 // no keyword match and almost no overlap
	SoftLexicalPenalty   float64 // penalty relaxed by a strong vector score
	PenaltyRelaxLexical  float64 // minimum overlap for the relaxed penalty

	// Adaptive lexical blend weight.
	LexicalRescueFactor float64 // keyword missed entirely but vector is strong
	LexicalRescueCap    float64
	LexicalAuditFactor  float64 // strong signal but the question text disagrees
	LexicalAuditCap     float64
	LexicalTrustCap     float64 // strong signal confirmed by the question text
	LexicalDampenFactor float64 // keyword-led result; lexical should not override
	LexicalDampenCap    float64
	LexicalFloorCap     float64 // keyword matched, almost no textual overlap

	// Keyword bonus and base-score rescue.
	KeywordBonusHigh float64 // share of the keyword score added on a high match
	KeywordBonusMid  float64 // share added on a partial match
	BaseRescueFactor float64 // keyword-score floor for the base score

	// Confidence gate.
	MarginRelax float64 // margin multiplier when the keyword signal is present
}

// DefaultTuning returns the production-tuned constants.
func DefaultTuning() Tuning {
	return Tuning{
		HighVector:     0.8,
		MidVector:      0.5,
		LowVector:      0.3,
		StrongKeyword:  0.8,
		HighKeyword:    0.7,
		MidKeyword:     0.5,
		HighLexical:    0.8,
		MidLexical:     0.6,
		LowLexical:     0.3,
		VeryLowLexical: 0.1,

		KeywordWeightBoost:    1.5,
		KeywordWeightCap:      0.5,
		MidKeywordWeightBoost: 1.3,
		MidKeywordWeightCap:   0.45,

		ExactQuestionBonus:   0.15,
		NearQuestionBonus:    0.08,
		LexicalPenalty:       0.1,
		StrongLexicalPenalty: 0.3,
		SoftLexicalPenalty:   0.05,
		PenaltyRelaxLexical:  0.02,

		LexicalRescueFactor: 3.0,
		LexicalRescueCap:    0.6,
		LexicalAuditFactor:  2.5,
		LexicalAuditCap:     0.5,
		LexicalTrustCap:     0.1,
		LexicalDampenFactor: 0.5,
		LexicalDampenCap:    0.1,
		LexicalFloorCap:     0.05,

		KeywordBonusHigh: 0.3,
		KeywordBonusMid:  0.25,
		BaseRescueFactor: 0.5,

		MarginRelax: 0.7,
	}
}
