package service

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/performance"
)

const (
	quizCount         = 3
	examCount         = 2
	presentationCount = 2
	assignmentCount   = 4
)

// sessionEpoch is day zero of the weekly session calendar; session N falls N weeks later.
var sessionEpoch = time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

// SessionGenerator produces randomized session batches. The random source is shared across
// requests so access to it is serialised.
type SessionGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSessionGenerator wraps the provided source. A nil source is seeded from the clock.
func NewSessionGenerator(rng *rand.Rand) *SessionGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SessionGenerator{rng: rng}
}

// NewSeededSessionGenerator returns a generator whose output is fully determined by seed.
// Zero means "seed from the clock".
func NewSeededSessionGenerator(seed int64) *SessionGenerator {
	if seed == 0 {
		return NewSessionGenerator(nil)
	}
	return NewSessionGenerator(rand.New(rand.NewSource(seed)))
}

// Generate returns a fresh batch of models.SessionsPerBatch sessions for the student.
func (g *SessionGenerator) Generate(student models.Student) []models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	sessions := make([]models.Session, 0, models.SessionsPerBatch)
	for id := 1; id <= models.SessionsPerBatch; id++ {
		sessions = append(sessions, g.session(id, student))
	}
	return sessions
}

func (g *SessionGenerator) session(id int, student models.Student) models.Session {
	variant := student.ProgramVariant
	return models.Session{
		SessionID:      id,
		SessionName:    fmt.Sprintf("%s Session %d", variant.Label(), id),
		SessionVariant: variant,
		Student:        student,
		Date:           sessionEpoch.AddDate(0, 0, 7*id).Format(models.SessionDateLayout),
		Academic: models.AcademicBlock{
			TestScores: models.TestScores{
				Quizzes:       g.scored(quizCount, 60, 100),
				Exams:         g.scored(examCount, 70, 100),
				Presentations: g.scored(presentationCount, 70, 100),
			},
			AssignmentGrades:   g.ints(assignmentCount, 70, 100),
			ProjectPerformance: g.between(75, 100),
			GPA:                math.Round((g.rng.Float64()*1.5+2.5)*100) / 100,
			PercentageScore:    g.between(75, 100),
		},
		Skills: models.SkillBlock{
			Technical: models.TechnicalSkills{
				CProgramming:       g.skill(),
				HTMLCSS:            g.skill(),
				JSEssentials:       g.skill(),
				BlockBasedCode:     g.skill(),
				CircuitDesign:      g.skill(),
				ElectricCircuits:   g.skill(),
				AIEssentials:       g.skill(),
				UIUXEssentials:     g.skill(),
				RoboticsEssentials: g.skill(),
			},
			Interpersonal: models.InterpersonalSkills{
				CommunicationSkills: g.skill(),
				PresentationSkills:  g.skill(),
				TimeManagement:      g.skill(),
				Negotiation:         g.skill(),
			},
			ProblemSolving:   g.skill(),
			CriticalThinking: g.skill(),
			Creativity:       g.skill(),
			Innovation:       g.skill(),
		},
		Participation: g.participation(variant),
	}
}

func (g *SessionGenerator) participation(variant models.ProgramVariant) models.ParticipationBlock {
	p := models.ParticipationBlock{
		ClassAttendance:         g.between(80, 100),
		DiscussionParticipation: g.between(70, 100),
	}
	if variant == models.ProgramGroup {
		p.GroupWork = g.between(80, 100)
	} else {
		p.GroupWork = g.between(60, 90)
	}
	p.OverallEngagement = g.between(70, 100)
	return p
}

func (g *SessionGenerator) skill() int {
	return g.between(70, 100)
}

// between draws uniformly from [lo, hi).
func (g *SessionGenerator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo)
}

func (g *SessionGenerator) ints(n, lo, hi int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.between(lo, hi)
	}
	return out
}

func (g *SessionGenerator) scored(n, lo, hi int) []models.ScoredItem {
	out := make([]models.ScoredItem, n)
	for i := range out {
		out[i] = performance.Scored(g.between(lo, hi))
	}
	return out
}
