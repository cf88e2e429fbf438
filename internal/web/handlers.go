package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/lumipay/agent-console/internal/stats"
)

// AgentCard is one agent's freshly built snapshot for the dashboard. There
// is deliberately no cross-agent roll-up; each card stands alone.
type AgentCard struct {
	ID             int64
	Status         string
	Running        bool
	ProfitTotal    string
	Profit24h      string
	Profit7d       string
	UserTotal      int64
	UserNew24h     int64
	OrderTotal     int64
	OrderCompleted int64
	CompletionRate string
	Error          string
}

type DashboardData struct {
	Agents      []AgentCard
	GeneratedAt time.Time
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	now := time.Now()
	data := DashboardData{GeneratedAt: now}

	agents, err := s.repo.ListAgents(ctx)
	if err != nil {
		s.logger.Error("list agents for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	for _, agent := range agents {
		card := AgentCard{ID: agent.ID, Status: agent.Status}

		snap, err := s.builder.Build(ctx, agent.ID, now)
		if err != nil {
			s.logger.Error("build snapshot for dashboard", "agent_id", agent.ID, "error", err)
			card.Error = "snapshot unavailable"
			data.Agents = append(data.Agents, card)
			continue
		}

		card.Running = snap.IsRunning
		card.ProfitTotal = snap.ProfitTotal.StringFixed(2)
		card.Profit24h = snap.Profit24h.StringFixed(2)
		card.Profit7d = snap.Profit7d.StringFixed(2)
		card.UserTotal = snap.UserTotal
		card.UserNew24h = snap.UserNew24h
		card.OrderTotal = snap.OrderTotal
		card.OrderCompleted = snap.OrderCompleted
		card.CompletionRate = stats.FormatRate(snap.CompletionRate)
		data.Agents = append(data.Agents, card)
	}

	tmpl, err := template.ParseFiles("templates/dashboard.html")
	if err != nil {
		s.logger.Error("parse template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("execute template", "error", err)
	}
}
