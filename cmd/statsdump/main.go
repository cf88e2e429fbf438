// statsdump computes one agent's sales snapshot and prints the rendered
// panel text. Handy for checking figures without opening the bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lumipay/agent-console/internal/config"
	"github.com/lumipay/agent-console/internal/i18n"
	"github.com/lumipay/agent-console/internal/logger"
	"github.com/lumipay/agent-console/internal/panel"
	"github.com/lumipay/agent-console/internal/stats"
	"github.com/lumipay/agent-console/internal/storage"
	"github.com/lumipay/agent-console/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "", "path to SQLite database (overrides config)")
	agentID := flag.Int64("agent", 0, "agent id")
	locale := flag.String("locale", "zh", "panel locale (zh or en)")
	probe := flag.Bool("probe", false, "probe the agent's sub-bot token for liveness")
	flag.Parse()

	if *agentID == 0 {
		fmt.Fprintln(os.Stderr, "-agent is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := logger.New(cfg.Logging.Level)

	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database error: %v\n", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	ctx := context.Background()

	runtime := stats.Runtime(stats.RuntimeFunc(func(int64) bool { return false }))
	if *probe {
		sup := supervisor.New(repo, supervisor.NewBotAPIProber(log), nopNotifier{}, time.Minute, log)
		up, err := sup.Check(ctx, *agentID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "probe error: %v\n", err)
			os.Exit(1)
		}
		runtime = stats.RuntimeFunc(func(int64) bool { return up })
	}

	builder := stats.NewBuilder(repo, runtime, log)
	snap, err := builder.Build(ctx, *agentID, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "build snapshot error: %v\n", err)
		os.Exit(1)
	}

	content := panel.NewRenderer().SalesStats(snap, i18n.Locale(*locale))
	fmt.Println(content.Text)
}

type nopNotifier struct{}

func (nopNotifier) NotifyAgentUp(int64, string) {}
func (nopNotifier) NotifyAgentDown(int64)       {}
func (nopNotifier) NotifyError(string, error)   {}
