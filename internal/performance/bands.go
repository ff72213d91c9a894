package performance

// Status labels a percentage for report display.
func Status(score float64) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 65:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}

// GPAStatus labels a 4.0-scale GPA.
func GPAStatus(gpa float64) string {
	switch {
	case gpa >= 3.5:
		return "Excellent"
	case gpa >= 3.0:
		return "Good"
	case gpa >= 2.5:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}

// SkillLevel labels a single skill score.
func SkillLevel(score float64) string {
	switch {
	case score >= 90:
		return "Expert"
	case score >= 80:
		return "Advanced"
	case score >= 70:
		return "Intermediate"
	case score >= 60:
		return "Developing"
	default:
		return "Beginning"
	}
}

// EngagementStatus compares an engagement figure with its target; within 80% counts as near.
func EngagementStatus(actual, target float64) string {
	switch {
	case actual >= target:
		return "Target Met"
	case actual >= target*0.8:
		return "Near Target"
	default:
		return "Below Target"
	}
}
