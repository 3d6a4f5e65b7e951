package narrative

import (
	"context"
	"fmt"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/subscription"
	"github.com/uptrace/bun"
)

// UserContext is the snapshot of user state that variant selection and
// requirement evaluation read. Built once per render so both see the same
// world.
type UserContext struct {
	UserID            int64
	Now               time.Time
	VisitCount        int // visits to the fragment being rendered
	ClueSlugs         map[string]bool
	Archetype         string
	DaysSinceStart    int
	TakenDecisions    map[string]bool // "fragment_key:decision_id"
	CompletedChapters map[string]bool
	Besitos           int64
	IsVIP             bool
	TotalDecisions    int
}

func (c *UserContext) HasClue(slug string) bool {
	return c.ClueSlugs[slug]
}

func (c *UserContext) TookDecision(fragmentKey string, decisionID int64) bool {
	return c.TakenDecisions[fmt.Sprintf("%s:%d", fragmentKey, decisionID)]
}

// ContextBuilder assembles UserContext from the store.
type ContextBuilder struct {
	progress   repositories.ProgressRepository
	engagement repositories.EngagementRepository
	inventory  repositories.InventoryRepository
	besitos    repositories.BesitosRepository
	subs       *subscription.Service
}

func NewContextBuilder(db bun.IDB) *ContextBuilder {
	return &ContextBuilder{
		progress:   repositories.NewProgressRepository(db),
		engagement: repositories.NewEngagementRepository(db),
		inventory:  repositories.NewInventoryRepository(db),
		besitos:    repositories.NewBesitosRepository(db),
		subs:       subscription.NewService(db),
	}
}

func (b *ContextBuilder) Build(ctx context.Context, userID int64, fragmentKey string, now time.Time) (*UserContext, error) {
	uctx := &UserContext{
		UserID:            userID,
		Now:               now,
		ClueSlugs:         map[string]bool{},
		TakenDecisions:    map[string]bool{},
		CompletedChapters: map[string]bool{},
		Archetype:         models.ArchetypeUnknown,
	}

	progress, err := b.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	uctx.Archetype = progress.DetectedArchetype
	uctx.TotalDecisions = progress.TotalDecisions
	if progress.StartedAt != nil {
		uctx.DaysSinceStart = int(now.Sub(*progress.StartedAt).Hours() / 24)
	}

	if fragmentKey != "" {
		visit, err := b.engagement.GetVisit(ctx, userID, fragmentKey)
		switch {
		case err == nil:
			uctx.VisitCount = visit.VisitCount
		case repositories.IsNotFound(err):
		default:
			return nil, err
		}
	}

	slugs, err := b.inventory.GetClueSlugs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, s := range slugs {
		uctx.ClueSlugs[s] = true
	}

	decisions, err := b.progress.GetDecisions(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	for _, d := range decisions {
		uctx.TakenDecisions[fmt.Sprintf("%s:%d", d.FragmentKey, d.DecisionID)] = true
	}

	completions, err := b.progress.GetChapterCompletions(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range completions {
		uctx.CompletedChapters[c.ChapterSlug] = true
	}

	agg, err := b.besitos.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	uctx.Besitos = agg.TotalBesitos

	vip, err := b.subs.IsVIPActive(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	uctx.IsVIP = vip

	return uctx, nil
}
