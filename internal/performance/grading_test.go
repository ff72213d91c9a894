package performance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Letter
	}{
		{100, models.LetterA},
		{90, models.LetterA},
		{89.999, models.LetterB},
		{80, models.LetterB},
		{79, models.LetterC},
		{70, models.LetterC},
		{69.5, models.LetterD},
		{60, models.LetterD},
		{59, models.LetterF},
		{0, models.LetterF},
		{-15, models.LetterF},
		{250, models.LetterA},
		{math.Inf(-1), models.LetterF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Grade(tc.score), "score %v", tc.score)
	}
}

func TestGradeMonotonic(t *testing.T) {
	rank := map[models.Letter]int{models.LetterA: 4, models.LetterB: 3, models.LetterC: 2, models.LetterD: 1, models.LetterF: 0}
	prev := rank[Grade(100)]
	for score := 100; score >= 0; score-- {
		current, ok := rank[Grade(float64(score))]
		assert.True(t, ok)
		assert.LessOrEqual(t, current, prev, "score %d", score)
		prev = current
	}
}

func TestScoredDerivesGrade(t *testing.T) {
	assert.Equal(t, models.ScoredItem{Score: 84, Grade: models.LetterB}, Scored(84))
}

func TestGPAGradeAndBands(t *testing.T) {
	assert.Equal(t, models.LetterA, GPAGrade(3.7))
	assert.Equal(t, models.LetterB, GPAGrade(3.69))
	assert.Equal(t, models.LetterC, GPAGrade(2.0))
	assert.Equal(t, models.LetterF, GPAGrade(0.5))

	assert.Equal(t, "Excellent", Status(85))
	assert.Equal(t, "Satisfactory", Status(65))
	assert.Equal(t, "Needs Improvement", Status(64))
	assert.Equal(t, "Good", GPAStatus(3.2))
	assert.Equal(t, "Expert", SkillLevel(90))
	assert.Equal(t, "Beginning", SkillLevel(10))
	assert.Equal(t, "Target Met", EngagementStatus(90, 90))
	assert.Equal(t, "Near Target", EngagementStatus(72, 90))
	assert.Equal(t, "Below Target", EngagementStatus(71, 90))
}
