package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrAgentNotFound is returned when no agent row exists for the requested id.
var ErrAgentNotFound = errors.New("agent not found")

// Repository is the read surface the statistics core depends on. The order
// and user tables are written by the transaction subsystem; nothing here
// mutates persisted state.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAgent(ctx context.Context, id int64) (*Agent, error) {
	var agent Agent
	err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get agent %d: %w", id, err)
	}
	return &agent, nil
}

// ListOrders returns one agent's orders in created_at ascending order.
// A nil since means all-time.
func (r *Repository) ListOrders(ctx context.Context, agentID int64, since *time.Time) ([]Order, error) {
	q := r.db.WithContext(ctx).Where("agent_id = ?", agentID)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var orders []Order
	if err := q.Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders for agent %d: %w", agentID, err)
	}
	return orders, nil
}

// CountUsers counts one agent's buyers, optionally only those first seen
// at or after since.
func (r *Repository) CountUsers(ctx context.Context, agentID int64, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&BotUser{}).Where("agent_id = ?", agentID)
	if since != nil {
		q = q.Where("first_seen_at >= ?", *since)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users for agent %d: %w", agentID, err)
	}
	return count, nil
}

func (r *Repository) ListAgents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

func (r *Repository) ListActiveAgents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	err := r.db.WithContext(ctx).
		Where("status = ?", AgentStatusActive).
		Order("id ASC").Find(&agents).Error
	if err != nil {
		return nil, fmt.Errorf("list active agents: %w", err)
	}
	return agents, nil
}
