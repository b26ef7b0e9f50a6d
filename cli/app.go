// Application wiring for CLI commands.
//
// Information Hiding:
// - Store, feature catalog, tool registry and orchestrator construction hidden
// - Collaborator lifetimes tied to App.Close

package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/richinex/nexus/agent"
	"github.com/richinex/nexus/api"
	"github.com/richinex/nexus/config"
	"github.com/richinex/nexus/features"
	"github.com/richinex/nexus/storage"
	"github.com/richinex/nexus/tools"
)

// App is the assembled content engine.
type App struct {
	Settings     config.Settings
	Store        storage.ClientStore
	Catalog      *features.Catalog
	Orchestrator *agent.Orchestrator
	logger       zerolog.Logger
}

// NewApp builds every collaborator from settings.
func NewApp(settings config.Settings, logger zerolog.Logger) (*App, error) {
	store, err := storage.Open(settings.StoreDriver, settings.DataDir, settings.SqlitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	catalog, err := features.Load(settings.FeaturesFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load features: %w", err)
	}

	firecrawl := tools.NewFirecrawlClient(settings.FirecrawlCredential(), settings.FirecrawlBaseURL)
	if !firecrawl.Configured() {
		logger.Warn().Msg("FIRECRAWL_API_KEY is not set; retrieval tools will report a configuration error")
	}
	registry, err := tools.NewFirecrawlRegistry(firecrawl)
	if err != nil {
		store.Close()
		return nil, err
	}
	executor := tools.NewExecutor(registry, tools.ToolConfig{TimeoutSecs: settings.ToolTimeoutSecs}).
		WithLogger(logger.With().Str("component", "tools").Logger())

	agentConfig, err := agent.ConfigFromSettings(settings)
	if err != nil {
		store.Close()
		return nil, err
	}
	orchestrator := agent.New(agentConfig, store, catalog, executor,
		agent.WithLogger(logger.With().Str("component", "orchestrator").Logger()))

	return &App{
		Settings:     settings,
		Store:        store,
		Catalog:      catalog,
		Orchestrator: orchestrator,
		logger:       logger,
	}, nil
}

// Server returns the HTTP server for this app.
func (a *App) Server(addr string) *api.Server {
	if addr == "" {
		addr = a.Settings.ServerAddr
	}
	cfg := api.Config{
		Addr:         addr,
		DefaultModel: a.Settings.DefaultModel,
		Heartbeat:    a.Settings.SSEHeartbeat(),
		Metrics:      a.Settings.MetricsEnabled,
	}
	return api.NewServer(cfg, a.Orchestrator, a.Store, a.Catalog).
		WithLogger(a.logger.With().Str("component", "http").Logger())
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
