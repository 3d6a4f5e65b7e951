package models

import (
	"time"

	"github.com/uptrace/bun"
)

// OnboardingSteps is the length of the mandatory linear flow gating story
// access. Step 5 grants the welcome besitos exactly once.
const OnboardingSteps = 5

const OnboardingBesitos = 30

type UserOnboardingProgress struct {
	bun.BaseModel `bun:"table:user_onboarding_progress,alias:uop"`

	UserID      int64 `bun:"user_id,pk"`
	Started     bool  `bun:"started,notnull,default:false"`
	Completed   bool  `bun:"completed,notnull,default:false"`
	CurrentStep int   `bun:"current_step,notnull,default:0"`

	ArchetypeScores map[string]int `bun:"archetype_scores,type:jsonb"`
	DecisionsMade   map[string]string `bun:"decisions_made,type:jsonb"`
	BesitosGranted  int64          `bun:"besitos_granted,notnull,default:0"`

	StartedAt   *time.Time `bun:"started_at"`
	CompletedAt *time.Time `bun:"completed_at"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`
}

type OnboardingFragment struct {
	bun.BaseModel `bun:"table:onboarding_fragments,alias:of"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Step     int    `bun:"step,notnull,unique"`
	Speaker  string `bun:"speaker"`
	Title    string `bun:"title"`
	Content  string `bun:"content,notnull"`
	Decisions []OnboardingDecision `bun:"decisions,type:jsonb"`
	IsActive  bool                 `bun:"is_active,notnull,default:true"`
}

// OnboardingDecision tags an answer with an archetype hint worth +5 points.
type OnboardingDecision struct {
	ID            string `json:"id"`
	ButtonText    string `json:"button_text"`
	ArchetypeHint string `json:"archetype_hint,omitempty"`
}

// Onboarding archetype hint constants
const (
	HintImpulsive     = "IMPULSIVE"
	HintContemplative = "CONTEMPLATIVE"
	HintSilent        = "SILENT"
)
