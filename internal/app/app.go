package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/handlers"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/services/backend"
	"github.com/tripscout/tripscout/internal/services/chat"
	"github.com/tripscout/tripscout/internal/services/feedback"
	"github.com/tripscout/tripscout/internal/services/geo"
	"github.com/tripscout/tripscout/internal/services/orchestrator"
	"github.com/tripscout/tripscout/internal/services/prefs"
	"github.com/tripscout/tripscout/internal/services/reconcile"
	"github.com/tripscout/tripscout/internal/services/render"
	"github.com/tripscout/tripscout/internal/services/scheduler"
	"github.com/tripscout/tripscout/internal/services/session"
	"github.com/tripscout/tripscout/internal/storage/badger"
	"github.com/tripscout/tripscout/internal/storage/memory"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	// Engine state
	SessionService  interfaces.SessionService
	PreferenceStore interfaces.PreferenceStore

	// Backend transport (implements recommend, chat and feedback clients)
	BackendService *backend.Service

	// Engine services
	Locator             interfaces.Locator
	FormReconciler      *reconcile.Form
	LocationReconciler  *reconcile.Location
	ChatReconciler      *reconcile.Chat
	OrchestratorService *orchestrator.Service
	ChatService         *chat.Service
	FeedbackEmitter     interfaces.FeedbackEmitter
	SchedulerService    *scheduler.Service

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	WSHandler     *handlers.WebSocketHandler
	EngineHandler *handlers.EngineHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.initStorage()

	// WebSocket handler first: it is the render surface everything pushes to.
	app.WSHandler = handlers.NewWebSocketHandler(logger)

	app.initServices()
	app.initHandlers()

	if err := app.SchedulerService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Seed the surface so the first client sees current state.
	app.ChatService.Welcome()
	app.OrchestratorService.Rerender()

	logger.Info().
		Str("session_id", app.SessionService.ID()).
		Str("backend", cfg.Backend.BaseURL).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage opens the durable store. Session identity and language survive
// restarts only when it opens; an unopenable store degrades to an in-memory
// one instead of failing the boot.
func (a *App) initStorage() {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Str("path", a.Config.Storage.Badger.Path).
			Msg("Durable storage unavailable, degrading to in-memory store")
		a.StorageManager = memory.NewManager()
		return
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")
}

func (a *App) initServices() {
	kv := a.StorageManager.KeyValueStorage()

	a.SessionService = session.NewService(kv, a.Logger)
	a.PreferenceStore = prefs.NewStore(a.Logger)

	// Durable language preference seeds the in-memory snapshot.
	lang := a.SessionService.Language()
	a.PreferenceStore.Apply(models.PreferenceUpdate{Language: &lang})

	a.BackendService = backend.NewService(&a.Config.Backend, a.Logger)

	provider := geo.NewIPProvider(a.Config.Geo.ProviderURL, a.Logger)
	a.Locator = geo.NewLocator(provider, &a.Config.Geo, a.Logger)

	a.FormReconciler = reconcile.NewForm(a.PreferenceStore, a.Logger)
	a.LocationReconciler = reconcile.NewLocation(a.Locator, a.PreferenceStore, a.Logger)
	a.ChatReconciler = reconcile.NewChat(a.PreferenceStore, a.Logger)

	builder := render.NewBuilder(a.Logger)
	a.OrchestratorService = orchestrator.NewService(
		a.PreferenceStore,
		a.SessionService,
		a.BackendService,
		builder,
		a.WSHandler,
		a.Logger,
	)

	a.ChatService = chat.NewService(
		a.BackendService,
		a.ChatReconciler,
		a.PreferenceStore,
		a.SessionService,
		a.OrchestratorService,
		a.WSHandler,
		a.Logger,
	)

	a.FeedbackEmitter = feedback.NewEmitter(
		a.BackendService,
		a.SessionService.ID(),
		a.OrchestratorService.RequestID,
		&a.Config.Feedback,
		kv,
		a.Logger,
	)

	a.SchedulerService = scheduler.NewService(&a.Config.Maintenance, a.StorageManager, a.Locator, a.Logger)
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.EngineHandler = handlers.NewEngineHandler(
		a.FormReconciler,
		a.LocationReconciler,
		a.ChatService,
		a.OrchestratorService,
		a.PreferenceStore,
		a.SessionService,
		a.FeedbackEmitter,
		a.WSHandler,
		a.Logger,
	)
}

// Close shuts down background work and the storage layer.
func (a *App) Close() error {
	a.SchedulerService.Stop()

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
			return err
		}
	}
	return nil
}
