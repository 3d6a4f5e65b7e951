package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/rewards"
	"github.com/uptrace/bun"
)

// RenderedDecision is one button on the rendered fragment. Variant-injected
// decisions carry ID 0 and resolve by target key.
type RenderedDecision struct {
	ID                int64
	ButtonText        string
	BesitosCost       int64
	TargetFragmentKey string
	Locked            bool
	LockReason        string
}

// RenderedFragment is what the transport layer turns into a message.
type RenderedFragment struct {
	Fragment   *models.NarrativeFragment
	Speaker    string
	Title      string
	Content    string
	VariantKey string
	Decisions  []RenderedDecision

	// Challenge, when set, means the engine is now awaiting an answer.
	Challenge *models.FragmentChallenge
	Hint      string

	ContentSetID    *int64
	AutoSendContent bool
}

// DecisionResult reports everything a decision changed, so the handler can
// relay mission completions and level-ups.
type DecisionResult struct {
	Rendered          *RenderedFragment
	Spent             int64
	ChapterCompleted  *models.ChapterCompletion
	CompletedMissions []*models.UserMission
	LeveledUp         bool
	NewLevel          *models.Level
}

// Engine drives fragment traversal. All methods expect to run inside the
// per-event transaction.
type Engine struct {
	narrative  repositories.NarrativeRepository
	engagement repositories.EngagementRepository
	progress   repositories.ProgressRepository
	onboarding repositories.OnboardingRepository
	contexts   *ContextBuilder
	reqs       *RequirementEvaluator
	ledger     *economy.LedgerService
	missions   *economy.MissionService
	dispatcher *rewards.Dispatcher
	sessions   *SessionManager
	cache      *FragmentCache
}

func NewEngine(db bun.IDB, sessions *SessionManager, cache *FragmentCache) *Engine {
	return &Engine{
		cache:      cache,
		narrative:  repositories.NewNarrativeRepository(db),
		engagement: repositories.NewEngagementRepository(db),
		progress:   repositories.NewProgressRepository(db),
		onboarding: repositories.NewOnboardingRepository(db),
		contexts:   NewContextBuilder(db),
		reqs:       NewRequirementEvaluator(db),
		ledger:     economy.NewLedgerService(db),
		missions:   economy.NewMissionService(db),
		dispatcher: rewards.NewDispatcher(db),
		sessions:   sessions,
	}
}

// StartStory enters the narrative: resumes the current fragment when one
// exists, otherwise renders the first chapter's entry point. Onboarding gates
// the whole thing.
func (e *Engine) StartStory(ctx context.Context, userID int64, now time.Time) (*RenderedFragment, error) {
	ob, err := e.onboarding.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ob.Completed {
		return nil, derrors.Wrap(derrors.ErrPermissionDenied, "onboarding_incomplete")
	}

	progress, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress.StartedAt == nil {
		at := now
		progress.StartedAt = &at
		if err := e.progress.Update(ctx, progress); err != nil {
			return nil, err
		}
	}

	key := progress.CurrentFragmentKey
	if key == "" {
		entry, err := e.narrative.GetFirstEntryFragment(ctx)
		if err != nil {
			return nil, err
		}
		key = entry.FragmentKey
	}
	return e.Render(ctx, userID, key, now)
}

// Render runs the availability pipeline for fragment K and produces the
// message-ready view: resolve, gate (window, requirements, cooldown, daily
// budget), select variant, record the visit, arm any challenge, and assemble
// the decision grid.
func (e *Engine) Render(ctx context.Context, userID int64, fragmentKey string, now time.Time) (*RenderedFragment, error) {
	fragment, err := e.fetchFragment(ctx, fragmentKey)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotFound, "fragment %q", fragmentKey)
		}
		return nil, err
	}

	uctx, err := e.contexts.Build(ctx, userID, fragmentKey, now)
	if err != nil {
		return nil, err
	}

	window, err := e.narrative.GetTimeWindow(ctx, fragmentKey)
	if err != nil {
		return nil, err
	}
	if !WindowAdmits(window, now) {
		msg := "este momento aún no ha llegado"
		if window != nil && window.UnavailableMessage != "" {
			msg = window.UnavailableMessage
		}
		return nil, derrors.Wrap(derrors.ErrPermissionDenied, "%s", msg)
	}

	if fragment.Chapter != nil && fragment.Chapter.Type == models.ChapterVIP && !uctx.IsVIP {
		return nil, derrors.Wrap(derrors.ErrPermissionDenied, "este capítulo es solo para VIP")
	}

	if err := e.reqs.Evaluate(ctx, fragment.Requirements, uctx); err != nil {
		return nil, err
	}

	cd, err := e.engagement.GetActiveCooldown(ctx, userID, models.CooldownFragment, fragmentKey, now)
	if err != nil {
		return nil, err
	}
	if cd != nil {
		return nil, derrors.Wrap(derrors.ErrCooldownActive, "%s", cooldownMessage(cd, uctx))
	}

	if err := e.chargeDailyBudget(ctx, userID, now, budgetFragments); err != nil {
		return nil, err
	}

	variants, err := e.narrative.GetActiveVariants(ctx, fragmentKey)
	if err != nil {
		return nil, err
	}
	variant := SelectVariant(variants, uctx)
	merged, extraDecisions := ApplyVariant(fragment, variant)

	visit, err := e.engagement.RecordVisit(ctx, userID, fragmentKey, now)
	if err != nil {
		return nil, err
	}
	started := now
	visit.ReadingStartedAt = &started
	if err := e.engagement.UpdateVisit(ctx, visit); err != nil {
		return nil, err
	}

	progress, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress.CurrentFragmentKey = fragmentKey
	progress.CurrentChapterID = &fragment.ChapterID
	progress.LastInteraction = now

	rendered := &RenderedFragment{
		Fragment:        merged,
		Speaker:         merged.Speaker,
		Title:           merged.Title,
		Content:         merged.Content,
		ContentSetID:    merged.ContentSetID,
		AutoSendContent: merged.AutoSendContent,
	}
	if variant != nil {
		rendered.VariantKey = variant.VariantKey
	}

	challenge, err := e.armChallenge(ctx, userID, progress, fragmentKey, now)
	if err != nil {
		return nil, err
	}
	rendered.Challenge = challenge

	if err := e.progress.Update(ctx, progress); err != nil {
		return nil, err
	}

	rendered.Decisions = e.assembleDecisions(ctx, merged.Decisions, extraDecisions, uctx)

	if _, err := e.missions.RecordEvent(ctx, userID, models.EventFragmentVisited, now); err != nil {
		return nil, err
	}

	slog.Debug("Fragment rendered",
		slog.String("type", "sys"),
		slog.Int64("user_id", userID),
		slog.String("fragment", fragmentKey),
	)
	return rendered, nil
}

func (e *Engine) fetchFragment(ctx context.Context, fragmentKey string) (*models.NarrativeFragment, error) {
	if cached, ok := e.cache.Get(fragmentKey); ok {
		return cached, nil
	}
	fragment, err := e.narrative.GetFragmentByKey(ctx, fragmentKey)
	if err != nil {
		return nil, err
	}
	e.cache.Put(fragment)
	return fragment, nil
}

// armChallenge puts the user in awaiting-answer state when the fragment
// carries an active challenge not blocked by a CHALLENGE cooldown.
func (e *Engine) armChallenge(ctx context.Context, userID int64, progress *models.UserNarrativeProgress, fragmentKey string, now time.Time) (*models.FragmentChallenge, error) {
	challenge, err := e.narrative.GetChallenge(ctx, fragmentKey)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	cd, err := e.engagement.GetActiveCooldown(ctx, userID, models.CooldownChallenge, fragmentKey, now)
	if err != nil {
		return nil, err
	}
	if cd != nil {
		return nil, nil
	}

	progress.AwaitingChallengeKey = fragmentKey
	asked := now
	progress.ChallengeAskedAt = &asked
	if e.sessions != nil {
		e.sessions.Arm(userID, fragmentKey, challenge, now)
	}
	return challenge, nil
}

// assembleDecisions re-checks per-decision gates and marks the unaffordable or
// VIP-locked ones instead of hiding them.
func (e *Engine) assembleDecisions(ctx context.Context, base []*models.FragmentDecision, extra []models.VariantDecision, uctx *UserContext) []RenderedDecision {
	out := make([]RenderedDecision, 0, len(base)+len(extra))
	for _, d := range base {
		rd := RenderedDecision{
			ID:                d.ID,
			ButtonText:        d.ButtonText,
			BesitosCost:       d.BesitosCost,
			TargetFragmentKey: d.TargetFragmentKey,
		}
		if d.RequiresVIP && !uctx.IsVIP {
			rd.Locked = true
			rd.LockReason = "vip"
		} else if d.BesitosCost > uctx.Besitos {
			rd.Locked = true
			rd.LockReason = "besitos"
		}
		out = append(out, rd)
	}
	for _, d := range extra {
		rd := RenderedDecision{
			ButtonText:        d.ButtonText,
			BesitosCost:       d.BesitosCost,
			TargetFragmentKey: d.TargetFragmentKey,
		}
		if d.BesitosCost > uctx.Besitos {
			rd.Locked = true
			rd.LockReason = "besitos"
		}
		out = append(out, rd)
	}
	return out
}

// TakeDecision debits, records, and moves the user to the decision's target,
// completing the chapter when the move crosses an ending.
func (e *Engine) TakeDecision(ctx context.Context, userID, decisionID int64, now time.Time) (*DecisionResult, error) {
	decision, err := e.narrative.GetDecision(ctx, decisionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotFound, "decision %d", decisionID)
		}
		return nil, err
	}
	source, err := e.narrative.GetFragmentByID(ctx, decision.FragmentID)
	if err != nil {
		return nil, err
	}

	progress, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Buttons on old messages stay tappable forever; only decisions attached
	// to the fragment the user currently stands on may fire.
	if progress.CurrentFragmentKey != source.FragmentKey {
		return nil, derrors.Wrap(derrors.ErrInvalidInput,
			"decision %d belongs to %q, user is at %q",
			decision.ID, source.FragmentKey, progress.CurrentFragmentKey)
	}

	uctx, err := e.contexts.Build(ctx, userID, source.FragmentKey, now)
	if err != nil {
		return nil, err
	}
	if decision.RequiresVIP && !uctx.IsVIP {
		return nil, derrors.Wrap(derrors.ErrPermissionDenied, "esa elección es solo para VIP")
	}
	if decision.BesitosCost > uctx.Besitos {
		return nil, derrors.Wrap(derrors.ErrInsufficientFunds,
			"necesitas %d besitos, tienes %d", decision.BesitosCost, uctx.Besitos)
	}

	decisionKey := fmt.Sprintf("%s:%d", source.FragmentKey, decision.ID)
	cd, err := e.engagement.GetActiveCooldown(ctx, userID, models.CooldownDecision, decisionKey, now)
	if err != nil {
		return nil, err
	}
	if cd != nil {
		return nil, derrors.Wrap(derrors.ErrCooldownActive, "%s", cooldownMessage(cd, uctx))
	}

	if err := e.chargeDailyBudget(ctx, userID, now, budgetDecisions); err != nil {
		return nil, err
	}

	result := &DecisionResult{}

	if decision.BesitosCost > 0 {
		if _, err := e.ledger.Spend(ctx, userID, decision.BesitosCost,
			models.TxnDecisionCost,
			fmt.Sprintf("Decisión: %s", decision.ButtonText),
			fmt.Sprintf("decision:%d", decision.ID)); err != nil {
			return nil, err
		}
		result.Spent = decision.BesitosCost
	}

	if decision.CooldownSeconds > 0 {
		if err := e.engagement.SetCooldown(ctx, &models.NarrativeCooldown{
			UserID:       userID,
			CooldownType: models.CooldownDecision,
			TargetKey:    decisionKey,
			StartedAt:    now,
			ExpiresAt:    now.Add(time.Duration(decision.CooldownSeconds) * time.Second),
		}); err != nil {
			return nil, err
		}
	}

	responseTime := e.closeReading(ctx, userID, source.FragmentKey, now)

	if err := e.progress.InsertDecision(ctx, &models.UserDecisionHistory{
		UserID:              userID,
		FragmentKey:         source.FragmentKey,
		DecisionID:          decision.ID,
		ResponseTimeSeconds: responseTime,
		DecidedAt:           now,
	}); err != nil {
		return nil, err
	}

	progress.TotalDecisions++
	progress.LastInteraction = now
	if err := e.progress.Update(ctx, progress); err != nil {
		return nil, err
	}

	target, err := e.narrative.GetFragmentByKey(ctx, decision.TargetFragmentKey)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotConfigured, "decision %d points at missing fragment %q", decision.ID, decision.TargetFragmentKey)
		}
		return nil, err
	}

	if target.IsEnding || target.ChapterID != source.ChapterID {
		completion, err := e.completeChapter(ctx, userID, source, now)
		if err != nil {
			return nil, err
		}
		result.ChapterCompleted = completion
	}

	completed, err := e.missions.RecordEvent(ctx, userID, models.EventDecisionTaken, now)
	if err != nil {
		return nil, err
	}
	result.CompletedMissions = completed

	rendered, err := e.Render(ctx, userID, target.FragmentKey, now)
	if err != nil {
		return nil, err
	}
	result.Rendered = rendered
	return result, nil
}

// closeReading folds the open reading interval into the visit row, clamped to
// the configured bounds. Returns the raw interval for decision history.
func (e *Engine) closeReading(ctx context.Context, userID int64, fragmentKey string, now time.Time) float64 {
	visit, err := e.engagement.GetVisit(ctx, userID, fragmentKey)
	if err != nil || visit.ReadingStartedAt == nil {
		return 0
	}
	interval := now.Sub(*visit.ReadingStartedAt)
	raw := interval.Seconds()

	if interval >= config.MinReadingTime {
		if interval > config.MaxReadingTime {
			interval = config.MaxReadingTime
		}
		visit.TotalTimeSeconds += int(interval.Seconds())
	}
	visit.ReadingStartedAt = nil
	if err := e.engagement.UpdateVisit(ctx, visit); err != nil {
		slog.Warn("Failed to close reading interval",
			slog.String("type", "db"),
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
	}
	return raw
}

// completeChapter writes the idempotent ChapterCompletion row with aggregate
// stats and sets the CHAPTER cooldown when the chapter defines one.
func (e *Engine) completeChapter(ctx context.Context, userID int64, fragment *models.NarrativeFragment, now time.Time) (*models.ChapterCompletion, error) {
	chapter := fragment.Chapter
	if chapter == nil {
		var err error
		chapter, err = e.narrative.GetChapter(ctx, fragment.ChapterID)
		if err != nil {
			return nil, err
		}
	}

	done, err := e.progress.HasCompletedChapter(ctx, userID, chapter.Slug)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, nil
	}

	visited, err := e.engagement.CountVisitedInChapter(ctx, userID, chapter.ID)
	if err != nil {
		return nil, err
	}
	totalTime, err := e.engagement.SumChapterTime(ctx, userID, chapter.ID)
	if err != nil {
		return nil, err
	}

	decisionsMade, err := e.progress.CountDecisionsInChapter(ctx, userID, chapter.ID)
	if err != nil {
		return nil, err
	}

	uctx, err := e.contexts.Build(ctx, userID, "", now)
	if err != nil {
		return nil, err
	}

	completion := &models.ChapterCompletion{
		UserID:           userID,
		ChapterSlug:      chapter.Slug,
		CompletedAt:      now,
		FragmentsVisited: visited,
		DecisionsMade:    decisionsMade,
		TotalTimeSeconds: totalTime,
		CluesFound:       len(uctx.ClueSlugs),
		ChapterArchetype: uctx.Archetype,
	}
	if err := e.progress.InsertChapterCompletion(ctx, completion); err != nil {
		return nil, err
	}

	progress, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress.ChaptersCompleted++
	if err := e.progress.Update(ctx, progress); err != nil {
		return nil, err
	}

	if _, err := e.missions.RecordEvent(ctx, userID, models.EventChapterCompleted, now); err != nil {
		return nil, err
	}

	slog.Info("Chapter completed",
		slog.String("type", "sys"),
		slog.Int64("user_id", userID),
		slog.String("chapter", chapter.Slug),
	)
	return completion, nil
}

type budgetKind int

const (
	budgetFragments budgetKind = iota
	budgetDecisions
	budgetChallenges
)

// chargeDailyBudget bumps the counter for the UTC day and fails with
// limit_reached when the budget (per-user override or default) is exhausted.
func (e *Engine) chargeDailyBudget(ctx context.Context, userID int64, now time.Time, kind budgetKind) error {
	day := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	limit, err := e.engagement.GetOrCreateDailyLimit(ctx, userID, day)
	if err != nil {
		return err
	}

	switch kind {
	case budgetFragments:
		max := limit.MaxFragments
		if max == 0 {
			max = config.DefaultMaxFragments
		}
		if limit.FragmentsViewed >= max {
			return derrors.Wrap(derrors.ErrLimitReached, "daily fragment budget spent")
		}
		limit.FragmentsViewed++
	case budgetDecisions:
		max := limit.MaxDecisions
		if max == 0 {
			max = config.DefaultMaxDecisions
		}
		if limit.DecisionsMade >= max {
			return derrors.Wrap(derrors.ErrLimitReached, "daily decision budget spent")
		}
		limit.DecisionsMade++
	case budgetChallenges:
		max := limit.MaxChallenges
		if max == 0 {
			max = config.DefaultMaxChallenges
		}
		if limit.ChallengesAttempted >= max {
			return derrors.Wrap(derrors.ErrLimitReached, "daily challenge budget spent")
		}
		limit.ChallengesAttempted++
	}
	return e.engagement.UpdateDailyLimit(ctx, limit)
}
