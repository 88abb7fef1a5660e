package model

import (
	"time"
)

type Exercise struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Constants    string        `json:"constants"`
	Predicates   string        `json:"predicates"`
	Functions    string        `json:"functions"`
	Constraint   string        `json:"constraint"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Propositions []Proposition `json:"propositions"`
}

type Proposition struct {
	ID             int64           `json:"id"`
	ExerciseID     int64           `json:"exercise_id"`
	Text           string          `json:"proposition"`
	SortOrder      int             `json:"-"`
	Formalizations []Formalization `json:"formalizations"`
}

// Constraints returns the constraint of each formalization, index-aligned with
// Formalizations.
func (p Proposition) Constraints() []string {
	out := make([]string, len(p.Formalizations))
	for i, f := range p.Formalizations {
		out[i] = f.Constraint
	}
	return out
}

// Formalization is a reference encoding of a proposition together with the
// constraint that governs it.
type Formalization struct {
	ID            int64  `json:"id"`
	PropositionID int64  `json:"proposition_id"`
	Text          string `json:"formalization"`
	Constraint    string `json:"constraint"`
	SortOrder     int    `json:"-"`
}

// ExercisePreview is the list projection of an exercise.
type ExercisePreview struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	PropositionCount int    `json:"proposition_count"`
}
