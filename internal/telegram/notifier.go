package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lumipay/agent-console/internal/config"
	"github.com/lumipay/agent-console/internal/logger"
)

// Notifier posts operational status messages to the ops chat. When no ops
// chat is configured it degrades to a no-op.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

func NewNotifier(api *tgbotapi.BotAPI, cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Telegram.OpsEnabled || cfg.Telegram.OpsChatID == 0 {
		return &Notifier{enabled: false, logger: log}
	}
	return &Notifier{
		api:     api,
		chatID:  cfg.Telegram.OpsChatID,
		enabled: true,
		logger:  log,
	}
}

func (n *Notifier) NotifyAgentUp(agentID int64, username string) {
	n.send(fmt.Sprintf("🟢 agent bot up: %d (@%s)", agentID, username))
}

func (n *Notifier) NotifyAgentDown(agentID int64) {
	n.send(fmt.Sprintf("🔴 agent bot down: %d", agentID))
}

func (n *Notifier) NotifyError(context string, err error) {
	n.send(fmt.Sprintf("⚠️ error [%s]\n%v", context, err))
}

func (n *Notifier) NotifyStatus(message string) {
	n.send(message)
}

func (n *Notifier) send(text string) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("send ops message", "error", err)
	}
}
