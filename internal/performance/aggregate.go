package performance

import (
	"math"

	"github.com/noah-isme/performance-portal-api/internal/models"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

// Area names one of the three compared performance areas.
type Area string

const (
	AreaAcademic      Area = "Academic Performance"
	AreaSkills        Area = "Skill Development"
	AreaParticipation Area = "Class Engagement"
)

// Trend buckets the mean of the three area scores.
type Trend string

const (
	TrendExcellent    Trend = "excellent"
	TrendGood         Trend = "good"
	TrendSatisfactory Trend = "satisfactory"
	TrendDeveloping   Trend = "developing"
)

// Average returns the mean of values rounded to the nearest integer. An empty list is an
// error rather than a zero.
func Average(values []int) (int, error) {
	if len(values) == 0 {
		return 0, appErrors.ErrEmptyScores
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values)))), nil
}

// ScoreAverage averages the raw scores of graded items.
func ScoreAverage(items []models.ScoredItem) (int, error) {
	scores := make([]int, len(items))
	for i, item := range items {
		scores[i] = item.Score
	}
	return Average(scores)
}

// SkillComposite is the rounded mean of the four core competencies.
func SkillComposite(skills models.SkillBlock) int {
	composite, _ := Average(skills.CoreCompetencies())
	return composite
}

type areaScore struct {
	area  Area
	score int
}

// areaScores returns the compared areas in tie-break order.
func areaScores(s models.Session) []areaScore {
	return []areaScore{
		{AreaAcademic, s.Academic.PercentageScore},
		{AreaSkills, SkillComposite(s.Skills)},
		{AreaParticipation, s.Participation.OverallEngagement},
	}
}

// StrongestArea returns the highest scoring area; ties go to the earlier of academic, skills,
// participation.
func StrongestArea(s models.Session) Area {
	scores := areaScores(s)
	best := scores[0]
	for _, candidate := range scores[1:] {
		if candidate.score > best.score {
			best = candidate
		}
	}
	return best.area
}

// WeakestArea returns the lowest scoring area with the same tie-break order.
func WeakestArea(s models.Session) Area {
	scores := areaScores(s)
	worst := scores[0]
	for _, candidate := range scores[1:] {
		if candidate.score < worst.score {
			worst = candidate
		}
	}
	return worst.area
}

// OverallTrend classifies the unrounded mean of the three area scores.
func OverallTrend(s models.Session) Trend {
	total := 0
	for _, a := range areaScores(s) {
		total += a.score
	}
	mean := float64(total) / 3
	switch {
	case mean >= 85:
		return TrendExcellent
	case mean >= 75:
		return TrendGood
	case mean >= 65:
		return TrendSatisfactory
	default:
		return TrendDeveloping
	}
}
