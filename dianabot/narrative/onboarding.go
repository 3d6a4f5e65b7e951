package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/uptrace/bun"
)

// OnboardingService runs the mandatory linear flow gating story access.
type OnboardingService struct {
	onboarding repositories.OnboardingRepository
	ledger     *economy.LedgerService
	missions   *economy.MissionService
}

func NewOnboardingService(db bun.IDB) *OnboardingService {
	return &OnboardingService{
		onboarding: repositories.NewOnboardingRepository(db),
		ledger:     economy.NewLedgerService(db),
		missions:   economy.NewMissionService(db),
	}
}

// OnboardingStep is the message-ready view of one step.
type OnboardingStep struct {
	Fragment  *models.OnboardingFragment
	Step      int
	Completed bool
	// BesitosGranted is non-zero only on the completing answer.
	BesitosGranted int64
}

func (s *OnboardingService) HasCompleted(ctx context.Context, userID int64) (bool, error) {
	progress, err := s.onboarding.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}
	return progress.Completed, nil
}

// Start begins (or resumes) the flow at the user's current step. Restarting a
// completed flow is a no-op showing the last step again.
func (s *OnboardingService) Start(ctx context.Context, userID int64, now time.Time) (*OnboardingStep, error) {
	progress, err := s.onboarding.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !progress.Started {
		progress.Started = true
		progress.CurrentStep = 1
		at := now
		progress.StartedAt = &at
		if err := s.onboarding.Update(ctx, progress); err != nil {
			return nil, err
		}
	}

	step := progress.CurrentStep
	if step < 1 {
		step = 1
	}
	if step > models.OnboardingSteps {
		step = models.OnboardingSteps
	}
	fragment, err := s.onboarding.GetFragment(ctx, step)
	if err != nil {
		return nil, err
	}
	return &OnboardingStep{Fragment: fragment, Step: step, Completed: progress.Completed}, nil
}

// Answer records the decision for the current step and advances. The final
// step completes the flow and grants the welcome besitos exactly once.
func (s *OnboardingService) Answer(ctx context.Context, userID int64, decisionID string, now time.Time) (*OnboardingStep, error) {
	progress, err := s.onboarding.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !progress.Started {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "onboarding has not started")
	}
	if progress.Completed {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "onboarding already completed")
	}

	fragment, err := s.onboarding.GetFragment(ctx, progress.CurrentStep)
	if err != nil {
		return nil, err
	}

	var chosen *models.OnboardingDecision
	for i := range fragment.Decisions {
		if fragment.Decisions[i].ID == decisionID {
			chosen = &fragment.Decisions[i]
			break
		}
	}
	if chosen == nil {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "decision %q is not on step %d", decisionID, progress.CurrentStep)
	}

	if progress.DecisionsMade == nil {
		progress.DecisionsMade = map[string]string{}
	}
	progress.DecisionsMade[strconv.Itoa(progress.CurrentStep)] = decisionID

	if chosen.ArchetypeHint != "" {
		if progress.ArchetypeScores == nil {
			progress.ArchetypeScores = map[string]int{}
		}
		progress.ArchetypeScores[chosen.ArchetypeHint] += 5
	}

	if progress.CurrentStep >= models.OnboardingSteps {
		return s.complete(ctx, progress, fragment, now)
	}

	progress.CurrentStep++
	if err := s.onboarding.Update(ctx, progress); err != nil {
		return nil, err
	}

	next, err := s.onboarding.GetFragment(ctx, progress.CurrentStep)
	if err != nil {
		return nil, err
	}
	return &OnboardingStep{Fragment: next, Step: progress.CurrentStep}, nil
}

func (s *OnboardingService) complete(ctx context.Context, progress *models.UserOnboardingProgress, fragment *models.OnboardingFragment, now time.Time) (*OnboardingStep, error) {
	progress.Completed = true
	at := now
	progress.CompletedAt = &at

	var granted int64
	// besitos_granted > 0 is the idempotency guard against double completion.
	if progress.BesitosGranted == 0 {
		if _, err := s.ledger.Grant(ctx, progress.UserID, models.OnboardingBesitos,
			models.TxnOnboarding, "Bienvenida completada",
			fmt.Sprintf("onboarding:%d", progress.UserID)); err != nil {
			return nil, err
		}
		progress.BesitosGranted = models.OnboardingBesitos
		granted = models.OnboardingBesitos
	}

	if err := s.onboarding.Update(ctx, progress); err != nil {
		return nil, err
	}

	if _, err := s.missions.RecordEvent(ctx, progress.UserID, models.EventOnboardingDone, now); err != nil {
		return nil, err
	}

	slog.Info("Onboarding completed",
		slog.String("type", "sys"),
		slog.Int64("user_id", progress.UserID),
	)
	return &OnboardingStep{
		Fragment:       fragment,
		Step:           progress.CurrentStep,
		Completed:      true,
		BesitosGranted: granted,
	}, nil
}
