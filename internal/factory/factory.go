package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/taggamecreator/tag-echobound-servers/internal/dependencies/clock"
	"github.com/taggamecreator/tag-echobound-servers/internal/dependencies/random"
	"github.com/taggamecreator/tag-echobound-servers/internal/gateway"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/control"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/match"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/party"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage/memory"
	"github.com/taggamecreator/tag-echobound-servers/internal/ws"
)

// DefaultControlSecret is used when no secret is configured. It is for
// local development only and MUST be overridden in any real deployment;
// the authorization check itself is never disabled.
const DefaultControlSecret = "echobound-dev-secret"

// App contains all wired application components. Registries are
// explicitly owned and dependency-passed, never ambient singletons, and
// Shutdown is the defined teardown path for the match loops.
type App struct {
	Store    storage.PartyStore
	Clock    clock.Clock
	Random   random.Random
	Registry *connection.Registry
	Gateway  *gateway.Gateway
	Engine   *match.Engine

	PartyController *party.Controller
	ControlService  *control.Service
	Dispatcher      *ws.Dispatcher
	WSHandler       *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional; defaults to no-op)
	Logger *slog.Logger
	// ControlSecret gates the privileged controller command (optional;
	// defaults to DefaultControlSecret, which is documented as
	// non-production only)
	ControlSecret string
	// Countdown overrides the match start delay (optional)
	Countdown time.Duration
	// DefaultMaxPlayers overrides the default party size (optional)
	DefaultMaxPlayers int
}

// New creates a new application with all dependencies wired
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	secret := cfg.ControlSecret
	if secret == "" {
		secret = DefaultControlSecret
	}

	clk := clock.New()
	rnd := random.New()
	store := memory.New()

	return newWithDependencies(store, clk, rnd, secret, party.Config{
		Countdown:         cfg.Countdown,
		DefaultMaxPlayers: cfg.DefaultMaxPlayers,
	}, logger)
}

// newWithDependencies wires an App from explicit dependencies
func newWithDependencies(
	store storage.PartyStore,
	clk clock.Clock,
	rnd random.Random,
	controlSecret string,
	partyCfg party.Config,
	logger *slog.Logger,
) *App {
	registry := connection.NewRegistry(logger)
	gw := gateway.New(registry, store, logger)
	engine := match.NewEngine(gw, logger)
	partyController := party.NewController(store, registry, engine, gw, rnd, partyCfg, logger)
	controlService := control.New(controlSecret, gw, clk, logger)
	dispatcher := ws.NewDispatcher(registry, partyController, engine, controlService, gw, logger)
	wsHandler := ws.NewHandler(registry, dispatcher, logger)

	return &App{
		Store:           store,
		Clock:           clk,
		Random:          rnd,
		Registry:        registry,
		Gateway:         gw,
		Engine:          engine,
		PartyController: partyController,
		ControlService:  controlService,
		Dispatcher:      dispatcher,
		WSHandler:       wsHandler,
	}
}

// Shutdown stops all running match loops
func (a *App) Shutdown() {
	a.Engine.Shutdown()
}
