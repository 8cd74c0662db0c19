package search

import (
	"math"
	"testing"
)

func TestCombine_MergesByID(t *testing.T) {
	tuning := DefaultTuning()
	vectorResults := []Result{
		{ID: "a", Question: "요금제 안내", Scores: Scores{Vector: 0.9}, Final: 0.9},
	}
	keywordResults := []Result{
		{ID: "a", Question: "요금제 안내", Scores: Scores{Keyword: 0.8}, Final: 0.8},
		{ID: "b", Question: "환불 정책", Scores: Scores{Keyword: 0.6}, Final: 0.6},
	}

	combined := Combine(vectorResults, keywordResults, 0.5, 0.3, tuning)
	if len(combined) != 2 {
		t.Fatalf("Combine() returned %d results, want 2", len(combined))
	}

	byID := make(map[string]Result)
	for _, r := range combined {
		byID[r.ID] = r
	}

	a := byID["a"]
	if a.Scores.Vector != 0.9 || a.Scores.Keyword != 0.8 {
		t.Errorf("merged scores for a = %+v, want vector 0.9, keyword 0.8", a.Scores)
	}
	// Keyword 0.8 raises the keyword weight to min(0.3x1.5, 0.5) = 0.45.
	wantA := 0.9*0.55 + 0.8*0.45
	if math.Abs(a.Final-wantA) > 1e-9 {
		t.Errorf("base score for a = %v, want %v", a.Final, wantA)
	}

	// Keyword 0.6 with no vector signal raises it to min(0.3x1.3, 0.45) = 0.39.
	b := byID["b"]
	wantB := 0.6 * 0.39
	if math.Abs(b.Final-wantB) > 1e-9 {
		t.Errorf("base score for b = %v, want %v", b.Final, wantB)
	}

	if combined[0].ID != "a" {
		t.Errorf("Combine() not sorted descending, first = %q", combined[0].ID)
	}
}

func TestCombine_KeepsMaxPerSignal(t *testing.T) {
	tuning := DefaultTuning()
	keywordResults := []Result{
		{ID: "a", Scores: Scores{Keyword: 0.4}, Final: 0.4},
		{ID: "a", Scores: Scores{Keyword: 0.9}, Final: 0.9},
	}

	combined := Combine(nil, keywordResults, 0.5, 0.3, tuning)
	if len(combined) != 1 {
		t.Fatalf("Combine() returned %d results, want 1", len(combined))
	}
	if combined[0].Scores.Keyword != 0.9 {
		t.Errorf("keyword score = %v, want max 0.9", combined[0].Scores.Keyword)
	}
}

func TestAdjustedLexicalWeight(t *testing.T) {
	tuning := DefaultTuning()
	tests := []struct {
		name string
		sc   Scores
		want float64
	}{
		{
			name: "vector-only rescue triples the weight",
			sc:   Scores{Vector: 0.9, Keyword: 0, Lexical: 0.5},
			want: 0.6, // min(0.2x3, 0.6)
		},
		{
			name: "high-confidence audit on low overlap",
			sc:   Scores{Vector: 0.9, Keyword: 0.85, Lexical: 0.2},
			want: 0.5, // min(0.2x2.5, 0.5)
		},
		{
			name: "high-confidence trust on confirmed overlap",
			sc:   Scores{Vector: 0.9, Keyword: 0.3, Lexical: 0.5},
			want: 0.1,
		},
		{
			name: "keyword-led dampen",
			sc:   Scores{Vector: 0.4, Keyword: 0.75, Lexical: 0.5},
			want: 0.1, // min(0.2x0.5, 0.1)
		},
		{
			name: "partial-keyword dampen",
			sc:   Scores{Vector: 0.2, Keyword: 0.6, Lexical: 0.5},
			want: 0.1,
		},
		{
			name: "floor cap on keyword match with no overlap",
			sc:   Scores{Vector: 0.2, Keyword: 0.6, Lexical: 0.05},
			want: 0.05,
		},
		{
			name: "no rule applies",
			sc:   Scores{Vector: 0.5, Keyword: 0.3, Lexical: 0.5},
			want: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adjustedLexicalWeight(tt.sc, 0.2, tuning)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("adjustedLexicalWeight(%+v) = %v, want %v", tt.sc, got, tt.want)
			}
		})
	}
}

func TestQuestionMatchBonus(t *testing.T) {
	tuning := DefaultTuning()
	tests := []struct {
		name string
		sc   Scores
		want float64
	}{
		{"near-identical question", Scores{Lexical: 0.9}, 0.15},
		{"similar question", Scores{Lexical: 0.7}, 0.08},
		{"moderate overlap", Scores{Lexical: 0.5}, 0},
		{"low overlap default penalty", Scores{Vector: 0.5, Lexical: 0.25}, -0.1},
		{"no keyword and no overlap", Scores{Keyword: 0, Lexical: 0.05}, -0.3},
		{"strong vector relaxes penalty", Scores{Vector: 0.9, Lexical: 0.25}, -0.05},
		{"keyword match removes penalty", Scores{Keyword: 0.6, Lexical: 0.25}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := questionMatchBonus(tt.sc, tuning)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("questionMatchBonus(%+v) = %v, want %v", tt.sc, got, tt.want)
			}
		})
	}
}

func TestKeywordBonus(t *testing.T) {
	tuning := DefaultTuning()
	tests := []struct {
		name string
		sc   Scores
		want float64
	}{
		{"high keyword", Scores{Keyword: 0.8}, 0.8 * 0.3},
		{"partial keyword", Scores{Keyword: 0.6}, 0.6 * 0.25},
		{"weak keyword", Scores{Keyword: 0.4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordBonus(tt.sc, tuning)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("keywordBonus(%+v) = %v, want %v", tt.sc, got, tt.want)
			}
		})
	}
}

func TestAdjustedBaseScore(t *testing.T) {
	tuning := DefaultTuning()

	// Keyword matched, vector barely did: base floored at keyword x 0.5.
	got := adjustedBaseScore(Scores{Vector: 0.1, Keyword: 0.8}, 0.2, tuning)
	if math.Abs(got-0.4) > 1e-9 {
		t.Errorf("adjustedBaseScore() = %v, want 0.4", got)
	}

	// Strong vector: base untouched.
	got = adjustedBaseScore(Scores{Vector: 0.7, Keyword: 0.8}, 0.65, tuning)
	if got != 0.65 {
		t.Errorf("adjustedBaseScore() = %v, want 0.65", got)
	}
}

func TestRerank(t *testing.T) {
	tuning := DefaultTuning()
	query := "요금제가 궁금해요"
	combined := []Result{
		{ID: "a", Question: "요금제가 궁금해요", Answer: "월 구독제입니다.", Scores: Scores{Vector: 0.85, Keyword: 0.9}, Final: 0.87},
		{ID: "b", Question: "환불 정책 안내", Answer: "환불됩니다.", Scores: Scores{Vector: 0.6}, Final: 0.3},
		{ID: "c", Question: "전혀 관련 없는 질문", Answer: "답변", Scores: Scores{Vector: 0.4}, Final: 0.2},
	}

	reranked := Rerank(query, combined, 2, 0.2, tuning)

	if len(reranked) != 2 {
		t.Fatalf("Rerank() returned %d results, want 2", len(reranked))
	}
	if reranked[0].ID != "a" {
		t.Errorf("top result = %q, want %q", reranked[0].ID, "a")
	}
	for _, r := range reranked {
		if r.Final < 0 || r.Final > 1 {
			t.Errorf("final score %v for %q out of [0,1]", r.Final, r.ID)
		}
		if r.Scores.Lexical == 0 && r.ID == "a" {
			t.Errorf("lexical score not recorded for identical question")
		}
	}
	for i := 1; i < len(reranked); i++ {
		if reranked[i].Final > reranked[i-1].Final {
			t.Errorf("results not sorted descending at index %d", i)
		}
	}
}
