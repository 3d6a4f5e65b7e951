package handlers

import (
	"github.com/dianabot/dianabot/dianabot/conversion"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/lifecycle"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/shop"
	"github.com/dianabot/dianabot/dianabot/subscription"
	"github.com/dianabot/dianabot/dianabot/transport"
	"github.com/uptrace/bun"
)

// env bundles the services for one chat event. Every member shares the same
// transaction handle, so whatever the handler touches commits or rolls back
// as one unit.
type env struct {
	users      repositories.UserRepository
	prefs      repositories.PreferencesRepository
	sets       repositories.ContentSetRepository
	besitos    repositories.BesitosRepository
	progress   repositories.ProgressRepository
	ledger     *economy.LedgerService
	missions   *economy.MissionService
	gift       *economy.DailyGiftService
	streaks    *economy.StreakService
	engine     *narrative.Engine
	challenges *narrative.ChallengeService
	onboarding *narrative.OnboardingService
	shop       *shop.Service
	delivery   *shop.DeliveryService
	subs       *subscription.Service
	lifecycle  *lifecycle.Service
	offers     *conversion.Engine
	gateway    transport.Gateway
}

func newEnv(db bun.IDB, gateway transport.Gateway, sessions *narrative.SessionManager, cache *narrative.FragmentCache) *env {
	engine := narrative.NewEngine(db, sessions, cache)
	return &env{
		users:      repositories.NewUserRepository(db),
		prefs:      repositories.NewPreferencesRepository(db),
		sets:       repositories.NewContentSetRepository(db),
		besitos:    repositories.NewBesitosRepository(db),
		progress:   repositories.NewProgressRepository(db),
		ledger:     economy.NewLedgerService(db),
		missions:   economy.NewMissionService(db),
		gift:       economy.NewDailyGiftService(db),
		streaks:    economy.NewStreakService(db),
		engine:     engine,
		challenges: narrative.NewChallengeService(db, sessions, engine),
		onboarding: narrative.NewOnboardingService(db),
		shop:       shop.NewService(db),
		delivery:   shop.NewDeliveryService(db, gateway),
		subs:       subscription.NewService(db),
		lifecycle:  lifecycle.NewService(db),
		offers:     conversion.NewEngine(db),
		gateway:    gateway,
	}
}
