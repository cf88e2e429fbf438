package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lumipay/agent-console/internal/logger"
)

// Prober checks whether a sub-bot token is live. The production
// implementation calls the Bot API; tests substitute fakes.
type Prober interface {
	Probe(ctx context.Context, token string) (*BotIdentity, error)
}

// BotIdentity is what a successful probe learns about the sub-bot.
type BotIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type getMeResponse struct {
	OK     bool        `json:"ok"`
	Result BotIdentity `json:"result"`
}

// BotAPIProber probes tokens with a bare getMe call. It deliberately avoids
// the full bot library: a probe must not start an update session for a token
// another process long-polls.
type BotAPIProber struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

func NewBotAPIProber(log *logger.Logger) *BotAPIProber {
	return &BotAPIProber{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.telegram.org",
		logger:     log,
	}
}

func (p *BotAPIProber) Probe(ctx context.Context, token string) (*BotIdentity, error) {
	url := fmt.Sprintf("%s/bot%s/getMe", p.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build getMe request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getMe: %w", err)
	}
	defer resp.Body.Close()

	var body getMeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode getMe response: %w", err)
	}
	if !body.OK {
		p.logger.Debug("getMe rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("getMe rejected: status %d", resp.StatusCode)
	}
	return &body.Result, nil
}
