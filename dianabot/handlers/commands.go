package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/transport"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (r *Router) dispatchCommand(ctx context.Context, e *env, user *models.User, msg *tgbotapi.Message, now time.Time) error {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		return r.cmdStart(ctx, e, user, chatID, msg.CommandArguments(), now)
	case "historia":
		return r.cmdStory(ctx, e, user.TelegramID, chatID, now)
	case "regalo":
		return r.cmdDailyGift(ctx, e, user.TelegramID, chatID, now)
	case "misiones":
		return r.showMissions(ctx, e, user.TelegramID, chatID, 0)
	case "tienda":
		return r.showCatalog(ctx, e, chatID, 0)
	case "mochila":
		return r.showBackpack(ctx, e, user.TelegramID, chatID, "", 0)
	case "perfil":
		return r.showProfile(ctx, e, user, chatID, 0, now)
	case "preferencias":
		return r.showPreferences(ctx, e, user.TelegramID, chatID, 0)
	case "buscar":
		return r.cmdSearch(ctx, e, chatID, msg.CommandArguments())
	case "ayuda":
		_, err := e.gateway.SendMessage(ctx, chatID, helpText, nil)
		return err
	case "token":
		return r.cmdGenerateToken(ctx, e, user, chatID, msg.CommandArguments(), now)
	case "enviarset":
		return r.cmdSendContentSet(ctx, e, user, chatID, msg.CommandArguments(), now)
	default:
		_, err := e.gateway.SendMessage(ctx, chatID,
			"Ese comando no lo conozco... prueba con /ayuda. 🌙", nil)
		return err
	}
}

const helpText = `*Qué puedes hacer conmigo*

/historia — entrar o seguir en la historia
/regalo — reclamar tu regalo diario
/misiones — ver y reclamar misiones
/tienda — gastar tus besitos
/mochila — lo que ya es tuyo
/perfil — tu nivel, racha y besitos
/buscar — buscar algo en la tienda
/preferencias — cuándo y cuánto te escribo

Si tienes un pase VIP: /start SEGUIDO-DEL-CÓDIGO. 💋`

// cmdStart handles the entry point. A deep-link payload is a VIP token; a
// fresh user goes through the presentation first.
func (r *Router) cmdStart(ctx context.Context, e *env, user *models.User, chatID int64, payload string, now time.Time) error {
	if payload = strings.TrimSpace(payload); payload != "" {
		return r.redeemToken(ctx, e, user.TelegramID, chatID, payload, now)
	}

	done, err := e.onboarding.HasCompleted(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	if !done {
		step, err := e.onboarding.Start(ctx, user.TelegramID, now)
		if err != nil {
			return err
		}
		text, kb := onboardingView(step)
		_, err = e.gateway.SendMessage(ctx, chatID, text, kb)
		return err
	}

	isVIP, err := e.subs.IsVIPActive(ctx, user.TelegramID, now)
	if err != nil {
		return err
	}
	text, kb := mainMenu(user.FirstName, isVIP)
	_, err = e.gateway.SendMessage(ctx, chatID, text, kb)
	return err
}

func (r *Router) redeemToken(ctx context.Context, e *env, userID, chatID int64, raw string, now time.Time) error {
	res, err := e.subs.Redeem(ctx, userID, raw, now)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(transport.VoiceTokenRedeemed, res.Subscriber.ExpiryDate.Format("02/01/2006"))
	if _, err := e.gateway.SendMessage(ctx, chatID, text, nil); err != nil {
		return err
	}

	if r.bot.Cfg.Bot.VIPChannelID != 0 {
		link, err := e.gateway.CreateInviteLink(ctx, r.bot.Cfg.Bot.VIPChannelID, config.InviteLinkExpiry)
		if err != nil {
			return err
		}
		if _, err := e.gateway.SendMessage(ctx, chatID, fmt.Sprintf(transport.VoiceInviteLink, link), nil); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) cmdStory(ctx context.Context, e *env, userID, chatID int64, now time.Time) error {
	done, err := e.onboarding.HasCompleted(ctx, userID)
	if err != nil {
		return err
	}
	if !done {
		step, err := e.onboarding.Start(ctx, userID, now)
		if err != nil {
			return err
		}
		text, kb := onboardingView(step)
		_, err = e.gateway.SendMessage(ctx, chatID, text, kb)
		return err
	}

	rendered, err := e.engine.StartStory(ctx, userID, now)
	if err != nil {
		return err
	}
	return r.sendFragment(ctx, e, userID, chatID, rendered, now)
}

func (r *Router) cmdDailyGift(ctx context.Context, e *env, userID, chatID int64, now time.Time) error {
	claimed, err := e.gift.ClaimedToday(ctx, userID, now)
	if err != nil {
		return err
	}
	if claimed {
		_, err := e.gateway.SendMessage(ctx, chatID, giftCountdown(now), nil)
		return err
	}

	res, err := e.gift.Claim(ctx, userID, now)
	if err != nil {
		return err
	}
	text := fmt.Sprintf(transport.VoiceDailyGift, res.Txn.Amount) + levelLine(res)
	_, err = e.gateway.SendMessage(ctx, chatID, text, nil)
	return err
}

func (r *Router) cmdSearch(ctx context.Context, e *env, chatID int64, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		_, err := e.gateway.SendMessage(ctx, chatID, "Dime qué buscas: /buscar llave 🌙", nil)
		return err
	}
	items, err := e.shop.Search(ctx, query, 5)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := e.gateway.SendMessage(ctx, chatID, "No tengo nada que se parezca a eso... 🌙", nil)
		return err
	}
	text, kb := categoryView(fmt.Sprintf("Resultados para %q", query), items)
	_, err = e.gateway.SendMessage(ctx, chatID, text, kb)
	return err
}

// cmdGenerateToken mints an invitation token. Admin only. Arguments:
// [plan_id] [hours], both optional.
func (r *Router) cmdGenerateToken(ctx context.Context, e *env, user *models.User, chatID int64, args string, now time.Time) error {
	if !r.bot.IsAdmin(user.TelegramID) {
		return derrors.Wrap(derrors.ErrPermissionDenied, "token generation is admin only")
	}

	fields := strings.Fields(args)
	var planID int64
	hours := 48
	if len(fields) > 0 {
		v, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return derrors.Wrap(derrors.ErrInvalidInput, "plan id %q", fields[0])
		}
		planID = v
	}
	if len(fields) > 1 {
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return derrors.Wrap(derrors.ErrInvalidInput, "hours %q", fields[1])
		}
		hours = v
	}
	if planID == 0 {
		plans, err := e.subs.Plans(ctx)
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			return derrors.Wrap(derrors.ErrNotConfigured, "no subscription plans defined")
		}
		planID = plans[0].ID
	}

	token, err := e.subs.GenerateToken(ctx, user.TelegramID, planID, hours)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("https://t.me/%s?start=%s", r.bot.Gateway.API().Self.UserName, token.Token)
	text := fmt.Sprintf("Token creado (plan %d, %dh):\n`%s`\n\n%s", planID, hours, token.Token, link)
	_, err = e.gateway.SendMessage(ctx, chatID, text, nil)
	return err
}

// cmdSendContentSet pushes a content set to a user. Admin only. Arguments:
// <telegram_id> <set_slug>.
func (r *Router) cmdSendContentSet(ctx context.Context, e *env, user *models.User, chatID int64, args string, now time.Time) error {
	if !r.bot.IsAdmin(user.TelegramID) {
		return derrors.Wrap(derrors.ErrPermissionDenied, "content push is admin only")
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		return derrors.Wrap(derrors.ErrInvalidInput, "usage: /enviarset <telegram_id> <slug>")
	}
	targetID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return derrors.Wrap(derrors.ErrInvalidInput, "telegram id %q", fields[0])
	}
	set, err := e.sets.GetBySlug(ctx, fields[1])
	if err != nil {
		return err
	}

	if err := e.delivery.SendContentSet(ctx, targetID, set.ID, models.AccessAdmin, now); err != nil {
		return err
	}
	_, err = e.gateway.SendMessage(ctx, chatID,
		fmt.Sprintf("Set %q enviado a %d.", set.Slug, targetID), nil)
	return err
}

// claimMission pays out a completed mission window.
func (r *Router) claimMission(ctx context.Context, e *env, userID, chatID, missionID int64, windowStart time.Time) error {
	res, err := e.missions.Claim(ctx, userID, missionID, windowStart)
	if err != nil {
		return err
	}
	name := "misión"
	if res.Txn != nil && res.Txn.Description != "" {
		name = res.Txn.Description
	}
	text := fmt.Sprintf(transport.VoiceMissionDone, name) + levelLine(res)
	if _, err := e.gateway.SendMessage(ctx, chatID, text, nil); err != nil {
		return err
	}
	return r.showMissions(ctx, e, userID, chatID, 0)
}
