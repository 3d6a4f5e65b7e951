package models

import (
	"time"

	"github.com/uptrace/bun"
)

type NarrativeChapter struct {
	bun.BaseModel `bun:"table:narrative_chapters,alias:nc"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Slug      string    `bun:"slug,notnull,unique"`
	Name      string    `bun:"name,notnull"`
	Type      string    `bun:"type,notnull,default:'FREE'"`
	Order     int       `bun:"chapter_order,notnull"`
	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Chapter type constants
const (
	ChapterFree = "FREE"
	ChapterVIP  = "VIP"
)

type NarrativeFragment struct {
	bun.BaseModel `bun:"table:narrative_fragments,alias:nf"`

	ID          int64  `bun:"id,pk,autoincrement"`
	FragmentKey string `bun:"fragment_key,notnull,unique"`
	ChapterID   int64  `bun:"chapter_id,notnull"`
	Speaker     string `bun:"speaker"`
	Title       string `bun:"title"`
	Content     string `bun:"content,notnull"`
	IsEntryPoint bool  `bun:"is_entry_point,notnull,default:false"`
	IsEnding     bool  `bun:"is_ending,notnull,default:false"`
	Order        int   `bun:"fragment_order,notnull,default:0"`
	IsActive     bool  `bun:"is_active,notnull,default:true"`

	// Optional multimedia attached to the fragment.
	ContentSetID    *int64 `bun:"content_set_id"`
	AutoSendContent bool   `bun:"auto_send_content,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	Chapter   *NarrativeChapter      `bun:"rel:belongs-to,join:chapter_id=id"`
	Decisions []*FragmentDecision    `bun:"rel:has-many,join:id=fragment_id"`
	Requirements []*FragmentRequirement `bun:"rel:has-many,join:id=fragment_id"`
}

// FragmentDecision moves the user to TargetFragmentKey and debits BesitosCost.
// Targets are resolved lazily by key, never by owning reference, so the
// narrative graph may contain cycles.
type FragmentDecision struct {
	bun.BaseModel `bun:"table:fragment_decisions,alias:fd"`

	ID                int64  `bun:"id,pk,autoincrement"`
	FragmentID        int64  `bun:"fragment_id,notnull"`
	ButtonText        string `bun:"button_text,notnull"`
	BesitosCost       int64  `bun:"besitos_cost,notnull,default:0"`
	TargetFragmentKey string `bun:"target_fragment_key,notnull"`
	Order             int    `bun:"decision_order,notnull,default:0"`
	// CooldownSeconds applies a DECISION cooldown after taking it, 0 disables.
	CooldownSeconds int    `bun:"cooldown_seconds,notnull,default:0"`
	RequiresVIP     bool   `bun:"requires_vip,notnull,default:false"`
}

type FragmentRequirement struct {
	bun.BaseModel `bun:"table:fragment_requirements,alias:fr"`

	ID               int64  `bun:"id,pk,autoincrement"`
	FragmentID       int64  `bun:"fragment_id,notnull"`
	RequirementType  string `bun:"requirement_type,notnull"`
	RequirementValue string `bun:"requirement_value"`
}

// Requirement type constants. All requirements of a fragment must hold.
const (
	ReqNone            = "NONE"
	ReqVIP             = "VIP"
	ReqMinBesitos      = "MIN_BESITOS"
	ReqArchetype       = "ARCHETYPE"
	ReqDecision        = "DECISION"
	ReqItem            = "ITEM"
	ReqHasClue         = "HAS_CLUE"
	ReqVisited         = "VISITED"
	ReqVisitCount      = "VISIT_COUNT"
	ReqTimeSpent       = "TIME_SPENT"
	ReqCooldownPassed  = "COOLDOWN_PASSED"
	ReqTimeWindow      = "TIME_WINDOW"
	ReqChapterComplete = "CHAPTER_COMPLETE"
)
