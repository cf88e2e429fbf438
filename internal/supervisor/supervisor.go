package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lumipay/agent-console/internal/logger"
	"github.com/lumipay/agent-console/internal/storage"
)

// Notifier receives up/down transition notices. *telegram.Notifier
// satisfies it.
type Notifier interface {
	NotifyAgentUp(agentID int64, username string)
	NotifyAgentDown(agentID int64)
	NotifyError(context string, err error)
}

// Supervisor keeps a liveness registry of active agents' sub-bots by probing
// their tokens on an interval. It implements stats.Runtime.
type Supervisor struct {
	repo     *storage.Repository
	prober   Prober
	notifier Notifier
	interval time.Duration
	logger   *logger.Logger

	mu      sync.RWMutex
	running map[int64]bool
}

func New(repo *storage.Repository, prober Prober, notifier Notifier, interval time.Duration, log *logger.Logger) *Supervisor {
	return &Supervisor{
		repo:     repo,
		prober:   prober,
		notifier: notifier,
		interval: interval,
		logger:   log,
		running:  make(map[int64]bool),
	}
}

func (s *Supervisor) IsRunning(agentID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running[agentID]
}

func (s *Supervisor) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("supervisor started", "interval", s.interval.String())

	// Run immediately on start
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("supervisor stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Supervisor) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in supervisor cycle", "panic", fmt.Sprint(r))
			s.notifier.NotifyError("supervisor panic", fmt.Errorf("%v", r))
		}
	}()

	agents, err := s.repo.ListActiveAgents(ctx)
	if err != nil {
		s.logger.Error("list active agents", "error", err)
		return
	}

	seen := make(map[int64]bool, len(agents))
	for _, agent := range agents {
		seen[agent.ID] = true
		up, username := s.probe(ctx, agent)
		s.record(agent.ID, up, username)
	}

	// Agents no longer active drop out of the registry entirely.
	s.mu.Lock()
	for id := range s.running {
		if !seen[id] {
			delete(s.running, id)
		}
	}
	s.mu.Unlock()
}

func (s *Supervisor) probe(ctx context.Context, agent storage.Agent) (bool, string) {
	if agent.BotToken == "" {
		return false, ""
	}
	identity, err := s.prober.Probe(ctx, agent.BotToken)
	if err != nil {
		s.logger.Debug("probe failed", "agent_id", agent.ID, "error", err)
		return false, ""
	}
	return true, identity.Username
}

func (s *Supervisor) record(agentID int64, up bool, username string) {
	s.mu.Lock()
	was, known := s.running[agentID]
	s.running[agentID] = up
	s.mu.Unlock()

	if !known && !up {
		return
	}
	if up && (!known || !was) {
		s.logger.Info("agent bot up", "agent_id", agentID, "username", username)
		s.notifier.NotifyAgentUp(agentID, username)
	}
	if !up && was {
		s.logger.Info("agent bot down", "agent_id", agentID)
		s.notifier.NotifyAgentDown(agentID)
	}
}

// Check probes one agent once, outside the ticker loop. Used by the ops CLI.
func (s *Supervisor) Check(ctx context.Context, agentID int64) (bool, error) {
	agent, err := s.repo.GetAgent(ctx, agentID)
	if err != nil {
		return false, err
	}
	if !agent.IsActive() || agent.BotToken == "" {
		return false, nil
	}
	if _, err := s.prober.Probe(ctx, agent.BotToken); err != nil {
		return false, nil
	}
	return true, nil
}
