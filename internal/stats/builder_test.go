package stats

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipay/agent-console/internal/logger"
	"github.com/lumipay/agent-console/internal/storage"
)

type fakeSource struct {
	agent      *storage.Agent
	agentErr   error
	orders     []storage.Order
	ordersErr  error
	usersTotal int64
	usersNew   int64
}

func (f *fakeSource) GetAgent(ctx context.Context, id int64) (*storage.Agent, error) {
	if f.agentErr != nil {
		return nil, f.agentErr
	}
	return f.agent, nil
}

func (f *fakeSource) ListOrders(ctx context.Context, agentID int64, since *time.Time) ([]storage.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return f.orders, nil
}

func (f *fakeSource) CountUsers(ctx context.Context, agentID int64, since *time.Time) (int64, error) {
	if since != nil {
		return f.usersNew, nil
	}
	return f.usersTotal, nil
}

func activeAgent() *storage.Agent {
	return &storage.Agent{
		ID:         42,
		Status:     storage.AgentStatusActive,
		MarkupUSDT: decimal.NewFromFloat(0.02),
		MarkupRMB:  decimal.NewFromFloat(0.05),
	}
}

func alwaysRunning() Runtime {
	return RuntimeFunc(func(int64) bool { return true })
}

func newTestBuilder(src Source) *Builder {
	return NewBuilder(src, alwaysRunning(), logger.New("error"))
}

func usdtOrder(createdAt time.Time, amount float64, status string) storage.Order {
	o := storage.Order{
		AgentID:    42,
		Channel:    storage.ChannelUSDT,
		Status:     status,
		AmountUSDT: decimal.NewFromFloat(amount),
		CreatedAt:  createdAt,
	}
	if status == storage.OrderStatusCompleted {
		done := createdAt.Add(time.Minute)
		o.CompletedAt = &done
	}
	return o
}

func rmbOrder(createdAt time.Time, amount float64, channel storage.Channel, status string) storage.Order {
	o := storage.Order{
		AgentID:   42,
		Channel:   channel,
		Status:    status,
		AmountRMB: decimal.NewFromFloat(amount),
		CreatedAt: createdAt,
	}
	if status == storage.OrderStatusCompleted {
		done := createdAt.Add(time.Minute)
		o.CompletedAt = &done
	}
	return o
}

func TestBuild_ZeroOrders(t *testing.T) {
	b := newTestBuilder(&fakeSource{agent: activeAgent()})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	snap, err := b.Build(context.Background(), 42, now)
	require.NoError(t, err)

	assert.Equal(t, int64(0), snap.OrderTotal)
	assert.Equal(t, int64(0), snap.OrderCompleted)
	assert.Equal(t, 0.0, snap.CompletionRate)
	assert.True(t, snap.ProfitTotal.IsZero())
	assert.True(t, snap.Profit24h.IsZero())
	assert.True(t, snap.Profit7d.IsZero())

	require.Len(t, snap.Channels, len(storage.AllChannels))
	for _, ch := range storage.AllChannels {
		assert.Equal(t, int64(0), snap.Channels[ch].Count)
		assert.True(t, snap.Channels[ch].Amount.IsZero())
	}
	assert.Equal(t, now, snap.ComputedAt)
}

func TestBuild_CompletedUSDTOrders(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{agent: activeAgent()}
	for i := 0; i < 3; i++ {
		src.orders = append(src.orders, usdtOrder(now.Add(-time.Duration(i+1)*time.Hour), 100, storage.OrderStatusCompleted))
	}

	snap, err := newTestBuilder(src).Build(context.Background(), 42, now)
	require.NoError(t, err)

	assert.True(t, snap.ProfitTotal.Equal(decimal.NewFromInt(6)), "got %s", snap.ProfitTotal)
	assert.Equal(t, int64(3), snap.OrderCompleted)
	assert.Equal(t, 1.0, snap.CompletionRate)
	assert.Equal(t, int64(3), snap.Channels[storage.ChannelUSDT].Count)
	assert.True(t, snap.Channels[storage.ChannelUSDT].Amount.Equal(decimal.NewFromInt(300)))
}

func TestBuild_PendingOrdersDiluteRate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{agent: activeAgent(), orders: []storage.Order{
		usdtOrder(now.Add(-2*time.Hour), 100, storage.OrderStatusCompleted),
		usdtOrder(now.Add(-1*time.Hour), 50, storage.OrderStatusPending),
	}}

	snap, err := newTestBuilder(src).Build(context.Background(), 42, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), snap.OrderTotal)
	assert.Equal(t, int64(1), snap.OrderCompleted)
	assert.Equal(t, 0.5, snap.CompletionRate)
	// The pending order must not leak into profit or settled turnover.
	assert.True(t, snap.ProfitTotal.Equal(decimal.NewFromInt(2)))
	assert.True(t, snap.Channels[storage.ChannelUSDT].Amount.Equal(decimal.NewFromInt(100)))
}

func TestBuild_ChannelCountsCoverEveryOrder(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{agent: activeAgent(), orders: []storage.Order{
		usdtOrder(now.Add(-1*time.Hour), 100, storage.OrderStatusCompleted),
		usdtOrder(now.Add(-2*time.Hour), 100, storage.OrderStatusFailed),
		rmbOrder(now.Add(-3*time.Hour), 200, storage.ChannelAlipay, storage.OrderStatusCompleted),
		rmbOrder(now.Add(-4*time.Hour), 300, storage.ChannelWechat, storage.OrderStatusPending),
	}}

	snap, err := newTestBuilder(src).Build(context.Background(), 42, now)
	require.NoError(t, err)

	var sum int64
	for _, ch := range storage.AllChannels {
		sum += snap.Channels[ch].Count
	}
	assert.Equal(t, snap.OrderTotal, sum)
	assert.LessOrEqual(t, snap.OrderCompleted, snap.OrderTotal)

	// RMB channels use the RMB markup: 200 * 0.05 = 10, plus USDT 100 * 0.02 = 2.
	assert.True(t, snap.ProfitTotal.Equal(decimal.NewFromInt(12)), "got %s", snap.ProfitTotal)
	assert.True(t, snap.Channels[storage.ChannelWechat].Amount.IsZero())
}

func TestBuild_WindowMonotonicity(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{agent: activeAgent(), orders: []storage.Order{
		usdtOrder(now.Add(-1*time.Hour), 100, storage.OrderStatusCompleted),     // in 24h and 7d
		usdtOrder(now.Add(-3*24*time.Hour), 100, storage.OrderStatusCompleted),  // in 7d only
		usdtOrder(now.Add(-30*24*time.Hour), 100, storage.OrderStatusCompleted), // all-time only
	}}

	snap, err := newTestBuilder(src).Build(context.Background(), 42, now)
	require.NoError(t, err)

	assert.True(t, snap.Profit24h.Equal(decimal.NewFromInt(2)))
	assert.True(t, snap.Profit7d.Equal(decimal.NewFromInt(4)))
	assert.True(t, snap.ProfitTotal.Equal(decimal.NewFromInt(6)))
	assert.True(t, snap.Profit24h.LessThanOrEqual(snap.Profit7d))
	assert.True(t, snap.Profit7d.LessThanOrEqual(snap.ProfitTotal))
}

func TestBuild_HalfOpenWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{agent: activeAgent(), orders: []storage.Order{
		// Exactly at now-24h: inside the window.
		usdtOrder(now.Add(-24*time.Hour), 100, storage.OrderStatusCompleted),
		// Exactly at now: outside every window, still all-time.
		usdtOrder(now, 100, storage.OrderStatusCompleted),
	}}

	snap, err := newTestBuilder(src).Build(context.Background(), 42, now)
	require.NoError(t, err)

	assert.True(t, snap.Profit24h.Equal(decimal.NewFromInt(2)), "got %s", snap.Profit24h)
	assert.True(t, snap.Profit7d.Equal(decimal.NewFromInt(2)))
	assert.True(t, snap.ProfitTotal.Equal(decimal.NewFromInt(4)))
}

func TestBuild_SuspendedAgentKeepsHistory(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	agent := activeAgent()
	agent.Status = storage.AgentStatusSuspended
	src := &fakeSource{agent: agent, orders: []storage.Order{
		usdtOrder(now.Add(-time.Hour), 100, storage.OrderStatusCompleted),
	}, usersTotal: 10, usersNew: 3}

	snap, err := newTestBuilder(src).Build(context.Background(), 42, now)
	require.NoError(t, err)

	assert.Equal(t, BotStatusInactive, snap.BotStatus)
	assert.False(t, snap.IsRunning)
	assert.True(t, snap.ProfitTotal.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, int64(10), snap.UserTotal)
	assert.Equal(t, int64(3), snap.UserNew24h)
}

func TestBuild_AgentNotFoundPropagates(t *testing.T) {
	b := newTestBuilder(&fakeSource{agentErr: storage.ErrAgentNotFound})

	snap, err := b.Build(context.Background(), 42, time.Now())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, storage.ErrAgentNotFound)
}

func TestBuild_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{agent: activeAgent(), orders: []storage.Order{
		usdtOrder(now.Add(-time.Hour), 100, storage.OrderStatusCompleted),
		rmbOrder(now.Add(-2*time.Hour), 88, storage.ChannelAlipay, storage.OrderStatusCompleted),
	}, usersTotal: 7, usersNew: 2}
	b := newTestBuilder(src)

	first, err := b.Build(context.Background(), 42, now)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), 42, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
