package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserNarrativeProgress struct {
	bun.BaseModel `bun:"table:user_narrative_progress,alias:unp"`

	UserID             int64   `bun:"user_id,pk"`
	CurrentChapterID   *int64  `bun:"current_chapter_id"`
	CurrentFragmentKey string  `bun:"current_fragment_key"`
	DetectedArchetype  string  `bun:"detected_archetype,notnull,default:'UNKNOWN'"`
	ArchetypeConfidence float64 `bun:"archetype_confidence,notnull,default:0"`
	ArchetypeUpdatedAt  *time.Time `bun:"archetype_updated_at"`
	// DecisionsAtLastScore supports the ≥10-new-decisions recompute trigger.
	DecisionsAtLastScore int `bun:"decisions_at_last_score,notnull,default:0"`

	TotalDecisions    int        `bun:"total_decisions,notnull,default:0"`
	ChaptersCompleted int        `bun:"chapters_completed,notnull,default:0"`
	LastInteraction   time.Time  `bun:"last_interaction,notnull"`
	StartedAt         *time.Time `bun:"started_at"`

	// Challenge scratch state, persisted so restarts are non-destructive.
	AwaitingChallengeKey string     `bun:"awaiting_challenge_key"`
	ChallengeAskedAt     *time.Time `bun:"challenge_asked_at"`
	ChallengeFailures    int        `bun:"challenge_failures,notnull,default:0"`

	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Archetype constants
const (
	ArchetypeExplorer   = "EXPLORER"
	ArchetypeDirect     = "DIRECT"
	ArchetypeRomantic   = "ROMANTIC"
	ArchetypeAnalytical = "ANALYTICAL"
	ArchetypePersistent = "PERSISTENT"
	ArchetypePatient    = "PATIENT"
	ArchetypeUnknown    = "UNKNOWN"
)

// UserDecisionHistory is append-only.
type UserDecisionHistory struct {
	bun.BaseModel `bun:"table:user_decision_history,alias:udh"`

	ID                  int64     `bun:"id,pk,autoincrement"`
	UserID              int64     `bun:"user_id,notnull"`
	FragmentKey         string    `bun:"fragment_key,notnull"`
	DecisionID          int64     `bun:"decision_id,notnull"`
	ResponseTimeSeconds float64   `bun:"response_time_seconds,notnull,default:0"`
	DecidedAt           time.Time `bun:"decided_at,notnull,default:current_timestamp"`
}

type ChapterCompletion struct {
	bun.BaseModel `bun:"table:chapter_completions,alias:cc"`

	ID               int64     `bun:"id,pk,autoincrement"`
	UserID           int64     `bun:"user_id,notnull"`
	ChapterSlug      string    `bun:"chapter_slug,notnull"`
	CompletedAt      time.Time `bun:"completed_at,notnull"`
	FragmentsVisited int       `bun:"fragments_visited,notnull,default:0"`
	DecisionsMade    int       `bun:"decisions_made,notnull,default:0"`
	TotalTimeSeconds int       `bun:"total_time_seconds,notnull,default:0"`
	CluesFound       int       `bun:"clues_found,notnull,default:0"`
	ChapterArchetype string    `bun:"chapter_archetype"`
}
