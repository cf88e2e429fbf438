package panel

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lumipay/agent-console/internal/buyermsg"
	"github.com/lumipay/agent-console/internal/i18n"
	"github.com/lumipay/agent-console/internal/stats"
	"github.com/lumipay/agent-console/internal/storage"
)

// Callback data prefixes routed by the bot controller.
const (
	CallbackStats        = "agent_stats_"
	CallbackStatsRefresh = "agent_stats_refresh_"
	CallbackHome         = "agent_home_"
)

var hundred = decimal.NewFromInt(100)

// Renderer turns snapshots and agent records into panel content. Every
// method is a pure function of its arguments: equal inputs yield
// byte-identical text, which is what makes the dispatcher's diff reliable.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// SalesStats renders the statistics panel. Channels appear in the fixed
// enum order regardless of map iteration order.
func (r *Renderer) SalesStats(s *stats.SalesSnapshot, loc i18n.Locale) Content {
	var b strings.Builder

	b.WriteString("<b>" + i18n.T(loc, "stats.title") + "</b>\n\n")

	status := i18n.T(loc, "stats.status_inactive")
	if s.BotStatus == stats.BotStatusActive {
		status = i18n.T(loc, "stats.status_active")
	}
	run := i18n.T(loc, "stats.stopped")
	if s.IsRunning {
		run = i18n.T(loc, "stats.running")
	}
	fmt.Fprintf(&b, "%s: %s (%s)\n", i18n.T(loc, "stats.bot_status"), status, run)
	fmt.Fprintf(&b, "%s: %s%%  |  %s: %s%%\n\n",
		i18n.T(loc, "stats.margin_usdt"), s.MarginUSDT.Mul(hundred).String(),
		i18n.T(loc, "stats.margin_rmb"), s.MarginRMB.Mul(hundred).String())

	fmt.Fprintf(&b, "%s: <b>%s</b>\n", i18n.T(loc, "stats.profit_total"), s.ProfitTotal.StringFixed(2))
	fmt.Fprintf(&b, "%s: %s\n", i18n.T(loc, "stats.profit_24h"), s.Profit24h.StringFixed(2))
	fmt.Fprintf(&b, "%s: %s\n\n", i18n.T(loc, "stats.profit_7d"), s.Profit7d.StringFixed(2))

	fmt.Fprintf(&b, "%s: %d (%s: %d)\n", i18n.T(loc, "stats.users_total"), s.UserTotal,
		i18n.T(loc, "stats.users_new_24h"), s.UserNew24h)
	fmt.Fprintf(&b, "%s: %d  |  %s: %d\n", i18n.T(loc, "stats.orders_total"), s.OrderTotal,
		i18n.T(loc, "stats.orders_done"), s.OrderCompleted)
	fmt.Fprintf(&b, "%s: %s\n\n", i18n.T(loc, "stats.completion_rate"), stats.FormatRate(s.CompletionRate))

	b.WriteString("<b>" + i18n.T(loc, "stats.channels") + "</b>\n")
	for _, ch := range storage.AllChannels {
		cs := s.Channels[ch]
		fmt.Fprintf(&b, "· %s: %d / %s\n", i18n.T(loc, "channel."+string(ch)), cs.Count, cs.Amount.StringFixed(2))
	}

	fmt.Fprintf(&b, "\n%s: %s", i18n.T(loc, "stats.computed_at"), s.ComputedAt.UTC().Format("2006-01-02 15:04:05"))

	return Content{
		Text: b.String(),
		Keyboard: [][]Button{{
			{Label: i18n.T(loc, "stats.btn_refresh"), Data: fmt.Sprintf("%s%d", CallbackStatsRefresh, s.AgentID)},
			{Label: i18n.T(loc, "stats.btn_back"), Data: fmt.Sprintf("%s%d", CallbackHome, s.AgentID)},
		}},
	}
}

// AgentHome renders the agent's main panel: a sanitized preview of the
// welcome message the sub-bot shows buyers, plus the agent's own contacts.
func (r *Renderer) AgentHome(a *storage.Agent, loc i18n.Locale) Content {
	var b strings.Builder

	b.WriteString("<b>" + i18n.T(loc, "home.title") + "</b>\n\n")

	status := i18n.T(loc, "stats.status_inactive")
	if a.IsActive() {
		status = i18n.T(loc, "stats.status_active")
	}
	fmt.Fprintf(&b, "%s: %s\n\n", i18n.T(loc, "home.status_line"), status)

	b.WriteString("<b>" + i18n.T(loc, "home.welcome") + "</b>\n")
	welcome := buyermsg.Sanitize(a.WelcomeTemplate)
	if welcome == "" {
		welcome = i18n.T(loc, "home.no_welcome")
	}
	b.WriteString(welcome + "\n")

	contacts := buyermsg.ContactsBlock(buyermsg.Contacts{
		CustomerService: a.CustomerService,
		OfficialChannel: a.OfficialChannel,
		RestockGroup:    a.RestockGroup,
		TutorialLink:    a.TutorialLink,
	}, loc)
	if contacts != "" {
		b.WriteString("\n<b>" + i18n.T(loc, "home.contacts") + "</b>\n")
		b.WriteString(contacts)
	}

	return Content{
		Text: b.String(),
		Keyboard: [][]Button{{
			{Label: i18n.T(loc, "home.btn_stats"), Data: fmt.Sprintf("%s%d", CallbackStats, a.ID)},
		}},
	}
}
