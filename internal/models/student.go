package models

import (
	"strings"
	"time"
)

// ProgramVariant classifies how a student is taught and shapes every session generated for them.
type ProgramVariant string

const (
	ProgramIndividual ProgramVariant = "individual"
	ProgramGroup      ProgramVariant = "group"
)

// ParseProgramVariant accepts any letter case and reports whether the value is known.
func ParseProgramVariant(raw string) (ProgramVariant, bool) {
	switch ProgramVariant(strings.ToLower(strings.TrimSpace(raw))) {
	case ProgramIndividual:
		return ProgramIndividual, true
	case ProgramGroup:
		return ProgramGroup, true
	default:
		return "", false
	}
}

// Label is the display form used in session names.
func (p ProgramVariant) Label() string {
	if p == ProgramGroup {
		return "Group"
	}
	return "Individual"
}

// Student is a directory record. ID and CreatedAt never change after creation; inactive
// records are soft-deleted and invisible to login.
type Student struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Code           string         `json:"code"`
	ProgramVariant ProgramVariant `json:"program_variant"`
	ProfilePicture string         `json:"profile_picture,omitempty"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
}

// StudentDirectoryStats summarises active students per program variant.
type StudentDirectoryStats struct {
	Total      int `json:"total"`
	Individual int `json:"individual"`
	Group      int `json:"group"`
}
