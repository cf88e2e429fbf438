package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lumipay/agent-console/internal/i18n"
	"github.com/lumipay/agent-console/internal/logger"
	"github.com/lumipay/agent-console/internal/panel"
	"github.com/lumipay/agent-console/internal/stats"
	"github.com/lumipay/agent-console/internal/storage"
)

// Bot is the thin controller wiring user actions to the
// fetch → build → render → safe-update pipeline. The initial /stats open and
// a refresh callback run the identical pipeline; only the message delivery
// differs (send vs edit).
type Bot struct {
	api        *tgbotapi.BotAPI
	transport  *Transport
	repo       *storage.Repository
	builder    *stats.Builder
	renderer   *panel.Renderer
	dispatcher *panel.Dispatcher
	tracker    *panel.Tracker
	defaultLoc i18n.Locale
	logger     *logger.Logger
}

func NewBot(
	api *tgbotapi.BotAPI,
	repo *storage.Repository,
	builder *stats.Builder,
	defaultLocale i18n.Locale,
	log *logger.Logger,
) *Bot {
	transport := NewTransport(api)
	return &Bot{
		api:        api,
		transport:  transport,
		repo:       repo,
		builder:    builder,
		renderer:   panel.NewRenderer(),
		dispatcher: panel.NewDispatcher(transport, log),
		tracker:    panel.NewTracker(),
		defaultLoc: defaultLocale,
		logger:     log,
	}
}

// locale resolves a Telegram language_code, falling back to the configured
// deployment default when the user has none set.
func (b *Bot) locale(languageCode string) i18n.Locale {
	if strings.TrimSpace(languageCode) == "" {
		return b.defaultLoc
	}
	return i18n.Match(languageCode)
}

func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot loop started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot loop stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// One short-lived task per interaction; concurrent refreshes of
			// the same panel converge via the dispatcher's diff.
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in update handler", "panic", fmt.Sprint(r))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	agentID := msg.From.ID
	loc := b.locale(msg.From.LanguageCode)

	var content panel.Content
	switch msg.Command() {
	case "stats":
		snap, err := b.builder.Build(ctx, agentID, time.Now())
		if err != nil {
			b.replyError(msg.Chat.ID, loc, err)
			return
		}
		content = b.renderer.SalesStats(snap, loc)
	case "panel", "start":
		agent, err := b.repo.GetAgent(ctx, agentID)
		if err != nil {
			b.replyError(msg.Chat.ID, loc, err)
			return
		}
		content = b.renderer.AgentHome(agent, loc)
	default:
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, content.Text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = toMarkup(content)

	sent, err := b.api.Send(out)
	if err != nil {
		b.logger.Error("send panel", "agent_id", agentID, "error", err)
		return
	}
	b.tracker.Set(panel.MessageRef{ChatID: msg.Chat.ID, MessageID: sent.MessageID}, content)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	ia := panel.NewInteraction(b.transport, cb.ID, b.logger)
	defer ia.Ack(ctx)

	action, agentID, ok := parseCallback(cb.Data)
	if !ok || cb.Message == nil {
		return
	}

	loc := b.locale(cb.From.LanguageCode)
	if cb.From.ID != agentID {
		ia.Alert(ctx, i18n.T(loc, "alert.forbidden"))
		return
	}

	var next panel.Content
	switch action {
	case panel.CallbackStats, panel.CallbackStatsRefresh:
		snap, err := b.builder.Build(ctx, agentID, time.Now())
		if err != nil {
			b.alertError(ctx, ia, loc, agentID, err)
			return
		}
		next = b.renderer.SalesStats(snap, loc)
	case panel.CallbackHome:
		agent, err := b.repo.GetAgent(ctx, agentID)
		if err != nil {
			b.alertError(ctx, ia, loc, agentID, err)
			return
		}
		next = b.renderer.AgentHome(agent, loc)
	default:
		return
	}

	ref := panel.MessageRef{ChatID: cb.Message.Chat.ID, MessageID: cb.Message.MessageID}
	prev, _ := b.tracker.Get(ref)

	outcome, err := b.dispatcher.Update(ctx, ref, prev, next, ia)
	if err != nil {
		b.logger.Error("panel update failed",
			"agent_id", agentID, "action", action, "error", err)
		return
	}
	b.tracker.Set(ref, next)

	b.logger.Debug("panel interaction handled",
		"agent_id", agentID, "action", action, "outcome", outcome.String())
}

func (b *Bot) alertError(ctx context.Context, ia *panel.Interaction, loc i18n.Locale, agentID int64, err error) {
	if errors.Is(err, storage.ErrAgentNotFound) {
		ia.Alert(ctx, i18n.T(loc, "alert.no_agent"))
		return
	}
	b.logger.Error("build panel content", "agent_id", agentID, "error", err)
	ia.Alert(ctx, i18n.T(loc, "alert.transient"))
}

func (b *Bot) replyError(chatID int64, loc i18n.Locale, err error) {
	text := i18n.T(loc, "alert.transient")
	if errors.Is(err, storage.ErrAgentNotFound) {
		text = i18n.T(loc, "alert.no_agent")
	} else {
		b.logger.Error("build panel content", "error", err)
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("send error reply", "error", err)
	}
}

// parseCallback splits callback data into an action prefix and the agent id.
// Longest prefixes are checked first; agent_stats_refresh_ would otherwise
// match agent_stats_.
func parseCallback(data string) (action string, agentID int64, ok bool) {
	for _, prefix := range []string{panel.CallbackStatsRefresh, panel.CallbackStats, panel.CallbackHome} {
		if !strings.HasPrefix(data, prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
		if err != nil {
			return "", 0, false
		}
		return prefix, id, true
	}
	return "", 0, false
}
