package search

import (
	"math"
	"slices"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain words",
			text: "요금제 안내",
			want: []string{"요금제", "안내"},
		},
		{
			name: "dotted literal term kept whole",
			text: "perso.ai",
			want: []string{"perso", "ai", "perso.ai"},
		},
		{
			name: "single token without extra form",
			text: "요금제",
			want: []string{"요금제"},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("Tokenize(%q) = %v, missing %q", tt.text, got, w)
				}
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	a := toSet([]string{"a", "b"})
	empty := map[string]struct{}{}

	if got := Jaccard(empty, empty); got != 1.0 {
		t.Errorf("Jaccard(∅,∅) = %v, want 1.0", got)
	}
	if got := Jaccard(a, empty); got != 0.0 {
		t.Errorf("Jaccard(A,∅) = %v, want 0.0", got)
	}
	if got := Jaccard(a, a); got != 1.0 {
		t.Errorf("Jaccard(A,A) = %v, want 1.0", got)
	}

	b := toSet([]string{"b", "c", "d"})
	if got, want := Jaccard(a, b), 1.0/4.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Jaccard = %v, want %v", got, want)
	}
}

func TestCombinedLexicalScore_Reflexive(t *testing.T) {
	for _, text := range []string{"요금제 안내", "perso.ai는 어떤 서비스인가요?", "hello world"} {
		if got := CombinedLexicalScore(text, text); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("CombinedLexicalScore(%q, same) = %v, want 1.0", text, got)
		}
	}
}

func TestCombinedLexicalScore_Disjoint(t *testing.T) {
	if got := CombinedLexicalScore("abc", "xyz"); got != 0.0 {
		t.Errorf("CombinedLexicalScore(disjoint) = %v, want 0.0", got)
	}
}

func TestCombinedLexicalScore_Range(t *testing.T) {
	pairs := [][2]string{
		{"요금제가 궁금해요", "요금제는 어떻게 되나요?"},
		{"perso.ai가 뭐야?", "perso.ai는 어떤 서비스인가요?"},
		{"환불", "환불 정책 안내"},
	}
	for _, p := range pairs {
		got := CombinedLexicalScore(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("CombinedLexicalScore(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}
