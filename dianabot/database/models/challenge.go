package models

import (
	"time"

	"github.com/uptrace/bun"
)

type FragmentChallenge struct {
	bun.BaseModel `bun:"table:fragment_challenges,alias:fc"`

	ID          int64    `bun:"id,pk,autoincrement"`
	FragmentKey string   `bun:"fragment_key,notnull,unique"`
	Type        string   `bun:"type,notnull"`
	Question    string   `bun:"question,notnull"`
	// Comparison against CorrectAnswers is case-insensitive and trim-normalized.
	CorrectAnswers []string `bun:"correct_answers,type:jsonb"`
	Hints          []string `bun:"hints,type:jsonb"`
	// AttemptsAllowed of 0 means unlimited.
	AttemptsAllowed    int    `bun:"attempts_allowed,notnull,default:0"`
	TimeoutSeconds     *int   `bun:"timeout_seconds"`
	FailureRedirectKey string `bun:"failure_redirect_key"`
	SuccessRedirectKey string `bun:"success_redirect_key"`
	SuccessClueSlug    string `bun:"success_clue_slug"`
	SuccessBesitos     int64  `bun:"success_besitos,notnull,default:0"`
	SuccessMessage     string `bun:"success_message"`
	FailureMessage     string `bun:"failure_message"`
	// CooldownSeconds sets a CHALLENGE cooldown after attempts are exhausted.
	CooldownSeconds int       `bun:"cooldown_seconds,notnull,default:0"`
	IsActive        bool      `bun:"is_active,notnull,default:true"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Challenge type constants
const (
	ChallengeTextInput      = "TEXT_INPUT"
	ChallengeChoiceSequence = "CHOICE_SEQUENCE"
	ChallengeTimedResponse  = "TIMED_RESPONSE"
	ChallengeMemoryRecall   = "MEMORY_RECALL"
	ChallengeObservation    = "OBSERVATION"
)

type ChallengeAttempt struct {
	bun.BaseModel `bun:"table:challenge_attempts,alias:ca"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull"`
	ChallengeID int64     `bun:"challenge_id,notnull"`
	Answer      string    `bun:"answer"`
	IsCorrect   bool      `bun:"is_correct,notnull"`
	HintsUsed   int       `bun:"hints_used,notnull,default:0"`
	AttemptedAt time.Time `bun:"attempted_at,notnull,default:current_timestamp"`
}
