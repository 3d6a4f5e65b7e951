package narrative

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/rewards"
	"github.com/uptrace/bun"
)

// challengeSession is the in-memory half of awaiting-answer state. The store
// keeps the durable half on UserNarrativeProgress, so restarts only lose the
// running timeout, never the challenge itself.
type challengeSession struct {
	FragmentKey string
	Deadline    time.Time
}

// SessionManager tracks armed challenge timeouts per user.
type SessionManager struct {
	sessions sync.Map // userID -> *challengeSession
	done     chan struct{}
	once     sync.Once
}

func NewSessionManager() *SessionManager {
	m := &SessionManager{done: make(chan struct{})}
	go m.cleanupLoop()
	return m
}

func (m *SessionManager) Arm(userID int64, fragmentKey string, challenge *models.FragmentChallenge, now time.Time) {
	session := &challengeSession{FragmentKey: fragmentKey}
	if challenge.TimeoutSeconds != nil && *challenge.TimeoutSeconds > 0 {
		session.Deadline = now.Add(time.Duration(*challenge.TimeoutSeconds) * time.Second)
	}
	m.sessions.Store(userID, session)
}

func (m *SessionManager) Disarm(userID int64) {
	m.sessions.Delete(userID)
}

// Expired reports whether the user's armed challenge ran out of time. Missing
// sessions (after a restart) never expire; the durable state decides.
func (m *SessionManager) Expired(userID int64, now time.Time) bool {
	v, ok := m.sessions.Load(userID)
	if !ok {
		return false
	}
	s := v.(*challengeSession)
	return !s.Deadline.IsZero() && now.After(s.Deadline)
}

func (m *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.sessions.Range(func(key, value any) bool {
				s := value.(*challengeSession)
				if !s.Deadline.IsZero() && now.After(s.Deadline.Add(time.Hour)) {
					m.sessions.Delete(key)
				}
				return true
			})
		}
	}
}

func (m *SessionManager) Stop() {
	m.once.Do(func() { close(m.done) })
}

// ChallengeOutcome is the result of one submitted answer.
type ChallengeOutcome struct {
	Correct        bool
	Expired        bool
	Message        string
	Hint           string
	RedirectKey    string
	BesitosGranted int64
	ClueSlug       string
	// AttemptsLeft is -1 for unlimited.
	AttemptsLeft int
}

// ChallengeService processes answers for armed challenges.
type ChallengeService struct {
	narrative  repositories.NarrativeRepository
	engagement repositories.EngagementRepository
	progress   repositories.ProgressRepository
	ledger     *economy.LedgerService
	missions   *economy.MissionService
	dispatcher *rewards.Dispatcher
	sessions   *SessionManager
	budgets    *Engine
}

func NewChallengeService(db bun.IDB, sessions *SessionManager, engine *Engine) *ChallengeService {
	return &ChallengeService{
		narrative:  repositories.NewNarrativeRepository(db),
		engagement: repositories.NewEngagementRepository(db),
		progress:   repositories.NewProgressRepository(db),
		ledger:     economy.NewLedgerService(db),
		missions:   economy.NewMissionService(db),
		dispatcher: rewards.NewDispatcher(db),
		sessions:   sessions,
		budgets:    engine,
	}
}

// Awaiting reports whether the user has an armed challenge, so the handler
// can route free-text messages here.
func (s *ChallengeService) Awaiting(ctx context.Context, userID int64) (bool, error) {
	progress, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}
	return progress.AwaitingChallengeKey != "", nil
}

// ProcessAnswer resolves one submission against the armed challenge.
func (s *ChallengeService) ProcessAnswer(ctx context.Context, userID int64, answer string, now time.Time) (*ChallengeOutcome, error) {
	progress, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	key := progress.AwaitingChallengeKey
	if key == "" {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "no challenge awaiting an answer")
	}

	challenge, err := s.narrative.GetChallenge(ctx, key)
	if err != nil {
		if repositories.IsNotFound(err) {
			// The challenge was deactivated mid-flight; just clear the state.
			s.clearAwaiting(ctx, progress)
			return nil, derrors.Wrap(derrors.ErrNotFound, "challenge on %q", key)
		}
		return nil, err
	}

	if s.timedOut(progress, challenge, userID, now) {
		return s.fail(ctx, userID, progress, challenge, "", true, now)
	}

	if err := s.budgets.chargeDailyBudget(ctx, userID, now, budgetChallenges); err != nil {
		return nil, err
	}

	used, err := s.narrative.CountAttempts(ctx, userID, challenge.ID)
	if err != nil {
		return nil, err
	}
	if challenge.AttemptsAllowed > 0 && used >= challenge.AttemptsAllowed {
		return s.fail(ctx, userID, progress, challenge, answer, false, now)
	}

	if AnswerMatches(challenge.CorrectAnswers, answer) {
		return s.succeed(ctx, userID, progress, challenge, answer, now)
	}

	if err := s.narrative.InsertAttempt(ctx, &models.ChallengeAttempt{
		UserID:      userID,
		ChallengeID: challenge.ID,
		Answer:      answer,
		IsCorrect:   false,
		HintsUsed:   progress.ChallengeFailures,
	}); err != nil {
		return nil, err
	}

	progress.ChallengeFailures++
	if err := s.progress.Update(ctx, progress); err != nil {
		return nil, err
	}

	used++
	if challenge.AttemptsAllowed > 0 && used >= challenge.AttemptsAllowed {
		return s.fail(ctx, userID, progress, challenge, "", false, now)
	}

	outcome := &ChallengeOutcome{
		Correct:      false,
		Message:      challenge.FailureMessage,
		Hint:         nextHint(challenge.Hints, progress.ChallengeFailures),
		AttemptsLeft: attemptsLeft(challenge.AttemptsAllowed, used),
	}
	return outcome, nil
}

func (s *ChallengeService) succeed(ctx context.Context, userID int64, progress *models.UserNarrativeProgress, challenge *models.FragmentChallenge, answer string, now time.Time) (*ChallengeOutcome, error) {
	if err := s.narrative.InsertAttempt(ctx, &models.ChallengeAttempt{
		UserID:      userID,
		ChallengeID: challenge.ID,
		Answer:      answer,
		IsCorrect:   true,
		HintsUsed:   progress.ChallengeFailures,
	}); err != nil {
		return nil, err
	}
	if err := s.clearAwaiting(ctx, progress); err != nil {
		return nil, err
	}

	outcome := &ChallengeOutcome{
		Correct:      true,
		Message:      challenge.SuccessMessage,
		RedirectKey:  challenge.SuccessRedirectKey,
		AttemptsLeft: -1,
	}

	if challenge.SuccessBesitos > 0 {
		if _, err := s.ledger.Grant(ctx, userID, challenge.SuccessBesitos,
			models.TxnChallengePrize,
			fmt.Sprintf("Desafío superado: %s", challenge.FragmentKey),
			fmt.Sprintf("challenge:%d", challenge.ID)); err != nil {
			return nil, err
		}
		outcome.BesitosGranted = challenge.SuccessBesitos
	}

	if challenge.SuccessClueSlug != "" {
		if err := s.dispatcher.GrantItemBySlug(ctx, userID, challenge.SuccessClueSlug, models.ViaChallenge); err != nil {
			return nil, err
		}
		outcome.ClueSlug = challenge.SuccessClueSlug
	}

	if _, err := s.missions.RecordEvent(ctx, userID, models.EventChallengeSolved, now); err != nil {
		return nil, err
	}
	return outcome, nil
}

// fail closes the challenge after exhausted attempts or a timeout: sets the
// CHALLENGE cooldown and hands back the failure redirect.
func (s *ChallengeService) fail(ctx context.Context, userID int64, progress *models.UserNarrativeProgress, challenge *models.FragmentChallenge, answer string, expired bool, now time.Time) (*ChallengeOutcome, error) {
	if answer != "" {
		if err := s.narrative.InsertAttempt(ctx, &models.ChallengeAttempt{
			UserID:      userID,
			ChallengeID: challenge.ID,
			Answer:      answer,
			IsCorrect:   false,
			HintsUsed:   progress.ChallengeFailures,
		}); err != nil {
			return nil, err
		}
	}
	if err := s.clearAwaiting(ctx, progress); err != nil {
		return nil, err
	}

	if challenge.CooldownSeconds > 0 {
		if err := s.engagement.SetCooldown(ctx, &models.NarrativeCooldown{
			UserID:       userID,
			CooldownType: models.CooldownChallenge,
			TargetKey:    challenge.FragmentKey,
			StartedAt:    now,
			ExpiresAt:    now.Add(time.Duration(challenge.CooldownSeconds) * time.Second),
		}); err != nil {
			return nil, err
		}
	}

	return &ChallengeOutcome{
		Correct:      false,
		Expired:      expired,
		Message:      challenge.FailureMessage,
		RedirectKey:  challenge.FailureRedirectKey,
		AttemptsLeft: 0,
	}, nil
}

func (s *ChallengeService) clearAwaiting(ctx context.Context, progress *models.UserNarrativeProgress) error {
	progress.AwaitingChallengeKey = ""
	progress.ChallengeAskedAt = nil
	progress.ChallengeFailures = 0
	s.sessions.Disarm(progress.UserID)
	return s.progress.Update(ctx, progress)
}

func (s *ChallengeService) timedOut(progress *models.UserNarrativeProgress, challenge *models.FragmentChallenge, userID int64, now time.Time) bool {
	if challenge.TimeoutSeconds == nil || *challenge.TimeoutSeconds <= 0 {
		return false
	}
	if s.sessions != nil && s.sessions.Expired(userID, now) {
		return true
	}
	if progress.ChallengeAskedAt == nil {
		return false
	}
	deadline := progress.ChallengeAskedAt.Add(time.Duration(*challenge.TimeoutSeconds) * time.Second)
	return now.After(deadline)
}

// AnswerMatches compares a submission against the accepted answers,
// case-insensitive and trim-normalized.
func AnswerMatches(accepted []string, answer string) bool {
	normalized := NormalizeAnswer(answer)
	for _, a := range accepted {
		if NormalizeAnswer(a) == normalized {
			return true
		}
	}
	return false
}

func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// nextHint releases one hint per failure, clamped to the last one.
func nextHint(hints []string, failures int) string {
	if len(hints) == 0 || failures <= 0 {
		return ""
	}
	idx := failures - 1
	if idx >= len(hints) {
		idx = len(hints) - 1
	}
	return hints[idx]
}

func attemptsLeft(allowed, used int) int {
	if allowed == 0 {
		return -1
	}
	left := allowed - used
	if left < 0 {
		left = 0
	}
	return left
}
