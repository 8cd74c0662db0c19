package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/mock/gomock"

	"faqbot/internal/vectorstore"
	"faqbot/internal/vectorstore/mocks"
)

func TestScoreEntry_LiteralTermInQuestion(t *testing.T) {
	// A dotted literal term in the query must match the corpus question even
	// when the surrounding phrasing differs completely.
	query := "perso.ai가 뭐야?"
	keywords := ExtractKeywords(query)

	score := ScoreEntry(query, keywords, "perso.ai는 어떤 서비스인가요?", "영상 번역 서비스입니다.", ExactProfile())
	if score <= 0 {
		t.Errorf("ScoreEntry() = %v, want > 0 for literal term containment", score)
	}
}

func TestScoreEntry_EmptyKeywords(t *testing.T) {
	if got := ScoreEntry("뭐야?", nil, "질문", "답변", ExactProfile()); got != 0 {
		t.Errorf("ScoreEntry() with no keywords = %v, want 0", got)
	}
}

func TestScoreEntry_QuestionMatchOutscoresAnswerMatch(t *testing.T) {
	keywords := []string{"요금제"}

	inQuestion := ScoreEntry("요금제", keywords, "요금제 안내", "상세 내용", ExactProfile())
	inAnswer := ScoreEntry("요금제", keywords, "자주 묻는 질문", "요금제 안내", ExactProfile())

	if inQuestion <= inAnswer {
		t.Errorf("question match %v should outscore answer match %v", inQuestion, inAnswer)
	}
}

func TestScoreEntry_AnswerOnlyMatch(t *testing.T) {
	// Short keyword in the answer only: 2.5 x 0.4 x 1.8, normalized by 3.
	keywords := []string{"요금제"}
	got := ScoreEntry("요금제", keywords, "자주 묻는 질문", "요금제 안내", ExactProfile())
	want := 2.5 * 0.4 * 1.8 / 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ScoreEntry() = %v, want %v", got, want)
	}
}

func TestScoreEntry_NoMatch(t *testing.T) {
	if got := ScoreEntry("요금제", []string{"요금제"}, "전혀 다른 질문", "전혀 다른 답변", ExactProfile()); got != 0 {
		t.Errorf("ScoreEntry() = %v, want 0 for no containment", got)
	}
}

func TestScoreEntry_FuzzyWholeQueryContainment(t *testing.T) {
	query := "무료 체험"
	keywords := ExtractKeywords(query)

	score := ScoreEntry(query, keywords, "무료체험은 가능한가요?", "가능합니다.", FuzzyProfile())
	if score <= 0 {
		t.Errorf("ScoreEntry() fuzzy = %v, want > 0 for whitespace-insensitive containment", score)
	}
}

func TestScoreEntry_Clamped(t *testing.T) {
	queries := []string{"요금제", "perso.ai가 뭐야?", "무료 체험 기간"}
	for _, q := range queries {
		keywords := ExtractKeywords(q)
		for _, p := range []MatcherProfile{ExactProfile(), FuzzyProfile()} {
			got := ScoreEntry(q, keywords, q, q, p)
			if got < 0 || got > 1 {
				t.Errorf("ScoreEntry(%q) = %v, out of [0,1]", q, got)
			}
		}
	}
}

func TestMatcher_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	page1 := []vectorstore.ScrolledPoint{
		{PointID: "a", Meta: map[string]any{"question": "요금제는 어떻게 되나요?", "answer": "월 구독제입니다."}},
		{PointID: "broken", Meta: map[string]any{"question": "불완전한 항목"}},
	}
	page2 := []vectorstore.ScrolledPoint{
		{PointID: "b", Meta: map[string]any{"question": "환불 정책이 궁금해요", "answer": "요금제 변경 시 환불됩니다."}},
	}
	store.EXPECT().Scroll(gomock.Any(), "qa_pairs", 100, "").Return(page1, "cursor-1", nil)
	store.EXPECT().Scroll(gomock.Any(), "qa_pairs", 100, "cursor-1").Return(page2, "", nil)

	m := NewMatcher(store, "qa_pairs", 100)
	results, err := m.Search(context.Background(), "요금제 알려줘", 5, false)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2 (incomplete entry skipped)", len(results))
	}
	if results[0].ID != "a" {
		t.Errorf("top result = %q, want %q (question match outscores answer match)", results[0].ID, "a")
	}
	for i := 1; i < len(results); i++ {
		if results[i].Final > results[i-1].Final {
			t.Errorf("results not sorted by score descending at index %d", i)
		}
	}
}

func TestMatcher_Search_NoKeywords(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	// No Scroll expectation: a query with no keywords never scans the corpus.

	m := NewMatcher(store, "qa_pairs", 100)
	results, err := m.Search(context.Background(), "뭐야?", 5, false)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() = %v, want empty for keyword-free query", results)
	}
}

func TestMatcher_Search_ScrollError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().Scroll(gomock.Any(), "qa_pairs", 100, "").Return(nil, "", errors.New("connection refused"))

	m := NewMatcher(store, "qa_pairs", 100)
	_, err := m.Search(context.Background(), "요금제 알려줘", 5, false)
	if !errors.Is(err, ErrVectorStore) {
		t.Errorf("Search() error = %v, want ErrVectorStore", err)
	}
}

func TestMatcher_Search_Truncation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	points := make([]vectorstore.ScrolledPoint, 0, 10)
	for i := 0; i < 10; i++ {
		points = append(points, vectorstore.ScrolledPoint{
			PointID: string(rune('a' + i)),
			Meta:    map[string]any{"question": "요금제 안내", "answer": "답변"},
		})
	}
	store.EXPECT().Scroll(gomock.Any(), "qa_pairs", 100, "").Return(points, "", nil)

	m := NewMatcher(store, "qa_pairs", 100)
	results, err := m.Search(context.Background(), "요금제", 3, false)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Search() returned %d results, want 3", len(results))
	}
}
