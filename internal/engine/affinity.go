package engine

import (
	"math"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
)

// NeutralScore 임베딩이 없을 때 사용하는 점수
const NeutralScore = 0.5

// Scorer 두 참가자 사이의 친화도 점수 계산
type Scorer interface {
	Score(a, b *models.Participant) float64
}

// CosineScorer 임베딩 코사인 유사도 기반 Scorer
type CosineScorer struct{}

func (CosineScorer) Score(a, b *models.Participant) float64 {
	return CosineSimilarity(a.Embedding, b.Embedding)
}

// CosineSimilarity dot(a,b) / (|a|·|b|), 계산할 수 없으면 NeutralScore
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return NeutralScore
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return NeutralScore
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return NeutralScore
	}

	// 부동소수점 오차로 [-1, 1]을 벗어나지 않도록
	return math.Max(-1, math.Min(1, score))
}
