// Package performance holds the pure scoring rules of the portal: letter grading, display
// bands and the aggregates derived from a session's raw scores.
package performance

import "github.com/noah-isme/performance-portal-api/internal/models"

// Grade maps a score to its letter. Bounds are inclusive and the highest matching bound wins.
// Every score-to-letter conversion in the module goes through this function.
func Grade(score float64) models.Letter {
	switch {
	case score >= 90:
		return models.LetterA
	case score >= 80:
		return models.LetterB
	case score >= 70:
		return models.LetterC
	case score >= 60:
		return models.LetterD
	default:
		return models.LetterF
	}
}

// Scored builds a ScoredItem whose grade is derived from score.
func Scored(score int) models.ScoredItem {
	return models.ScoredItem{Score: score, Grade: Grade(float64(score))}
}

// GPAGrade maps a 4.0-scale GPA to a letter.
func GPAGrade(gpa float64) models.Letter {
	switch {
	case gpa >= 3.7:
		return models.LetterA
	case gpa >= 3.0:
		return models.LetterB
	case gpa >= 2.0:
		return models.LetterC
	case gpa >= 1.0:
		return models.LetterD
	default:
		return models.LetterF
	}
}
