package search

import "math/rand"

// FallbackMessage is returned when no corpus entry clears the gate.
const FallbackMessage = "데이터에 없습니다."

// DefaultSuggestions is the curated pool offered alongside the fallback
// message. Deployments with their own corpus should override it via
// Config.Suggestions.
var DefaultSuggestions = []string{
	"페르소.ai는 어떤 서비스인가요?",
	"무료 체험이 가능한가요?",
	"요금제는 어떻게 되나요?",
	"지원하는 언어는 몇 개인가요?",
	"영상 생성에는 시간이 얼마나 걸리나요?",
	"결제 수단은 무엇을 지원하나요?",
}

// SampleSuggestions returns up to n entries drawn from pool without
// replacement. The caller owns synchronization of rng.
func SampleSuggestions(rng *rand.Rand, pool []string, n int) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]string, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		picked = append(picked, pool[i])
	}
	return picked
}
