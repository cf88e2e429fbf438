package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumipay/agent-console/internal/logger"
	"github.com/lumipay/agent-console/internal/storage"
)

// Source is the read surface the builder aggregates over. *storage.Repository
// satisfies it; tests plug in fakes.
type Source interface {
	GetAgent(ctx context.Context, id int64) (*storage.Agent, error)
	ListOrders(ctx context.Context, agentID int64, since *time.Time) ([]storage.Order, error)
	CountUsers(ctx context.Context, agentID int64, since *time.Time) (int64, error)
}

// Runtime reports whether an agent's sub-bot is currently reachable.
type Runtime interface {
	IsRunning(agentID int64) bool
}

// RuntimeFunc adapts a plain function to the Runtime interface.
type RuntimeFunc func(agentID int64) bool

func (f RuntimeFunc) IsRunning(agentID int64) bool { return f(agentID) }

type Builder struct {
	source  Source
	runtime Runtime
	logger  *logger.Logger
}

func NewBuilder(source Source, runtime Runtime, log *logger.Logger) *Builder {
	return &Builder{source: source, runtime: runtime, logger: log}
}

// Build computes one agent's sales snapshot as of now.
//
// Orders are fetched once (all-time) and folded in a single pass: the
// 24h/7d figures come from running accumulators keyed by window membership,
// not from repeated filtered fetches. Windows are half-open [now-w, now) on
// created_at. A suspended agent still gets its history computed; only the
// status fields differ.
func (b *Builder) Build(ctx context.Context, agentID int64, now time.Time) (*SalesSnapshot, error) {
	agent, err := b.source.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	snap := &SalesSnapshot{
		AgentID:     agentID,
		BotStatus:   BotStatusInactive,
		MarginUSDT:  agent.MarkupUSDT,
		MarginRMB:   agent.MarkupRMB,
		ProfitTotal: decimal.Zero,
		Profit24h:   decimal.Zero,
		Profit7d:    decimal.Zero,
		Channels:    make(map[storage.Channel]ChannelStat, len(storage.AllChannels)),
		ComputedAt:  now,
	}
	for _, ch := range storage.AllChannels {
		snap.Channels[ch] = ChannelStat{Amount: decimal.Zero}
	}
	if agent.IsActive() {
		snap.BotStatus = BotStatusActive
		snap.IsRunning = b.runtime.IsRunning(agentID)
	}

	orders, err := b.source.ListOrders(ctx, agentID, nil)
	if err != nil {
		return nil, err
	}

	cut24h := now.Add(-24 * time.Hour)
	cut7d := now.Add(-7 * 24 * time.Hour)

	for i := range orders {
		o := &orders[i]
		snap.OrderTotal++

		cs := snap.Channels[o.Channel]
		cs.Count++

		if o.Status == storage.OrderStatusCompleted {
			snap.OrderCompleted++

			var profit decimal.Decimal
			if o.Channel == storage.ChannelUSDT {
				profit = o.AmountUSDT.Mul(agent.MarkupUSDT)
				cs.Amount = cs.Amount.Add(o.AmountUSDT)
			} else {
				profit = o.AmountRMB.Mul(agent.MarkupRMB)
				cs.Amount = cs.Amount.Add(o.AmountRMB)
			}

			snap.ProfitTotal = snap.ProfitTotal.Add(profit)
			if inWindow(o.CreatedAt, cut7d, now) {
				snap.Profit7d = snap.Profit7d.Add(profit)
			}
			if inWindow(o.CreatedAt, cut24h, now) {
				snap.Profit24h = snap.Profit24h.Add(profit)
			}
		}

		snap.Channels[o.Channel] = cs
	}

	if snap.OrderTotal > 0 {
		snap.CompletionRate = float64(snap.OrderCompleted) / float64(snap.OrderTotal)
	}

	snap.UserTotal, err = b.source.CountUsers(ctx, agentID, nil)
	if err != nil {
		return nil, err
	}
	snap.UserNew24h, err = b.source.CountUsers(ctx, agentID, &cut24h)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("sales snapshot built",
		"agent_id", agentID, "orders", snap.OrderTotal, "completed", snap.OrderCompleted)

	return snap, nil
}

// inWindow reports membership in the half-open interval [from, to).
func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// FormatRate renders a 0–1 rate as a percentage with one decimal place.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
