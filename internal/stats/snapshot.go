package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumipay/agent-console/internal/storage"
)

type BotStatus string

const (
	BotStatusActive   BotStatus = "active"
	BotStatusInactive BotStatus = "inactive"
)

// ChannelStat is one payment rail's slice of an agent's order book. Count
// covers every order placed through the channel; Amount is settled turnover
// only, in the channel's own currency.
type ChannelStat struct {
	Count  int64
	Amount decimal.Decimal
}

// SalesSnapshot is a freshly computed view of one agent's sales figures.
// It is never persisted and never cached: every request rebuilds it from
// source data, so two snapshots built against the same rows and the same
// clock are identical.
type SalesSnapshot struct {
	AgentID   int64
	BotStatus BotStatus
	IsRunning bool

	MarginUSDT decimal.Decimal
	MarginRMB  decimal.Decimal

	ProfitTotal decimal.Decimal
	Profit24h   decimal.Decimal
	Profit7d    decimal.Decimal

	UserTotal  int64
	UserNew24h int64

	OrderTotal     int64
	OrderCompleted int64
	CompletionRate float64 // 0.0–1.0

	Channels map[storage.Channel]ChannelStat

	ComputedAt time.Time
}
