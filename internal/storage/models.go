package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Channel is a payment rail an order was placed through.
type Channel string

const (
	ChannelUSDT   Channel = "usdt-trc20"
	ChannelAlipay Channel = "alipay"
	ChannelWechat Channel = "wechat"
)

// AllChannels is the fixed display order used everywhere channels are rendered.
var AllChannels = []Channel{ChannelUSDT, ChannelAlipay, ChannelWechat}

const (
	AgentStatusActive    = "active"
	AgentStatusSuspended = "suspended"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

// Agent is a reseller operating a branded sub-bot. The primary key is the
// reseller's Telegram user id.
type Agent struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Status     string          `gorm:"not null;default:'active'" json:"status"` // active, suspended
	BotToken   string          `json:"-"`
	MarkupUSDT decimal.Decimal `gorm:"type:decimal(10,4)" json:"markup_usdt"`
	MarkupRMB  decimal.Decimal `gorm:"type:decimal(10,4)" json:"markup_rmb"`

	CustomerService string `json:"customer_service"`
	OfficialChannel string `json:"official_channel"`
	RestockGroup    string `json:"restock_group"`
	TutorialLink    string `json:"tutorial_link"`

	WelcomeTemplate string `gorm:"type:text" json:"welcome_template"`
}

func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}

// Order is written by the transaction subsystem; this process only reads it.
type Order struct {
	ID        string    `gorm:"primarykey" json:"id"`
	AgentID   int64     `gorm:"index;not null" json:"agent_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	AmountUSDT  decimal.Decimal `gorm:"type:decimal(20,8)" json:"amount_usdt"`
	AmountRMB   decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount_rmb"`
	Channel     Channel         `gorm:"not null" json:"channel"`
	Status      string          `gorm:"not null;default:'pending'" json:"status"` // pending, completed, failed
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// BotUser is a buyer who has opened an agent's sub-bot at least once.
type BotUser struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AgentID     int64     `gorm:"index;not null" json:"agent_id"`
	TelegramID  int64     `gorm:"index" json:"telegram_id"`
	Username    string    `json:"username"`
	Language    string    `json:"language"`
	FirstSeenAt time.Time `gorm:"index" json:"first_seen_at"`
}
