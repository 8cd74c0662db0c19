package search

// Entry is one corpus question-answer pair as stored in the vector store
// payload. The engine never mutates entries; the store owns their lifecycle.
type Entry struct {
	ID       string
	Question string
	Answer   string
}

// Scores breaks a result's final score into its component signals. A signal
// is zero when the entry was only surfaced by the other retrieval branch.
type Scores struct {
	Vector  float64 `json:"vector"`
	Keyword float64 `json:"keyword"`
	Lexical float64 `json:"lexical"`
}

// Result is one ranked corpus entry with its score breakdown.
type Result struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Scores   Scores `json:"scores"`
	Final    float64 `json:"final"`
}

// Options control a single hybrid search request. Zero values fall back to
// the engine's configured defaults; UseFuzzy is a pointer so callers can
// explicitly disable the fuzzy matcher.
type Options struct {
	TopK                int
	VectorWeight        float64
	KeywordWeight       float64
	LexicalWeight       float64
	SimilarityThreshold float64
	UseFuzzy            *bool
}

// AnswerResult is the gate-filtered outcome of a question. When no entry
// clears the confidence gate, Found is false and Suggestions carries 1-2
// curated follow-up questions.
type AnswerResult struct {
	Found       bool     `json:"found"`
	Question    string   `json:"question,omitempty"`
	Answer      string   `json:"answer"`
	Similarity  float64  `json:"similarity,omitempty"`
	Suggestions []string `json:"suggested_questions,omitempty"`
}
