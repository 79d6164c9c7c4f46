package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Produccion-api/docs"
	"github.com/jhoicas/Produccion-api/internal/application/analytics"
	"github.com/jhoicas/Produccion-api/internal/application/calendar"
	"github.com/jhoicas/Produccion-api/internal/application/catalog"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/application/scheduling"
	"github.com/jhoicas/Produccion-api/internal/application/timesheet"
	"github.com/jhoicas/Produccion-api/internal/application/workflow"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/catalogfile"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// backend piezas que dependen de STORE_BACKEND.
type backend struct {
	source    repository.CatalogSource
	state     repository.StateLoader // nil en memory
	committer scheduling.Committer
	projects  repository.ProjectRepository
	entries   repository.EntryRepository
	movements repository.InventoryMovementRepository
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		committer := postgres.NewTxCommitter(pool)
		return &backend{
			source:    postgres.NewCatalogLoader(pool),
			state:     committer,
			committer: committer,
			projects:  postgres.NewProjectRepository(pool),
			entries:   postgres.NewEntryRepository(pool),
			movements: postgres.NewInventoryMovementRepository(pool),
			close:     pool.Close,
		}, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", store.Path()).Msg("snapshot sqlite abierto")
		return &backend{
			source:    catalogfile.New(cfg.Store.CatalogPath),
			state:     store,
			committer: store,
			projects:  memory.NewProjectRepository(),
			entries:   memory.NewEntryRepository(),
			movements: memory.NewInventoryMovementRepository(),
			close: func() {
				if err := store.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar sqlite")
				}
			},
		}, nil
	default:
		return &backend{
			source:    catalogfile.New(cfg.Store.CatalogPath),
			committer: scheduling.NopCommitter{},
			projects:  memory.NewProjectRepository(),
			entries:   memory.NewEntryRepository(),
			movements: memory.NewInventoryMovementRepository(),
			close:     func() {},
		}, nil
	}
}

// writeSwaggerSpec vuelca la especificación registrada para el handler de Swagger UI.
func writeSwaggerSpec() (string, error) {
	path := filepath.Join(os.TempDir(), "produccion-api-swagger.json")
	if err := os.WriteFile(path, []byte(docs.SwaggerInfo.ReadDoc()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Backend).Msg("abrir backend de persistencia")
	}
	defer be.close()

	lm := locks.NewManager(cfg.Scheduling.LockTimeout)
	store := memory.NewCatalog()
	ledger := inventory.NewLedger(lm, be.movements, log.Named("ledger"))
	cal := calendar.New(lm, log.Named("calendar"))
	orders := memory.NewWorkOrderRepository()

	seed, err := be.source.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	var state *repository.PersistedState
	if be.state != nil {
		if state, err = be.state.LoadState(ctx); err != nil {
			log.Fatal().Err(err).Msg("cargar estado persistido")
		}
	}
	var stock map[string]int64
	if state != nil {
		stock = state.StockLevels
	}
	if _, err := catalog.Apply(ctx, seed, store, ledger, cal, stock, log); err != nil {
		log.Fatal().Err(err).Msg("aplicar catálogo")
	}

	scheduler := scheduling.NewScheduler(store, ledger, cal, lm, orders, be.committer, log)
	if state != nil {
		if _, err := scheduler.Recover(ctx, state.WorkOrders); err != nil {
			log.Fatal().Err(err).Msg("recuperar órdenes de trabajo")
		}
	}

	tracker := workflow.NewTracker(store, be.projects, lm, log)
	timesheetSvc := timesheet.NewService(store, be.projects, orders, be.entries, log)
	metricsUC := analytics.NewProjectMetricsUseCase(tracker, store, orders, be.entries, cfg.Scheduling.LaborRate)
	reportUC := analytics.NewReportUseCase(tracker, metricsUC, infrapdf.NewMarotoReportGenerator())
	replenishmentUC := inventory.NewReplenishmentUseCase(ledger, be.movements)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerEnable {
		specPath, err := writeSwaggerSpec()
		if err != nil {
			log.Warn().Err(err).Msg("swagger deshabilitado")
		} else {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: specPath,
				Path:     "docs",
				Title:    "Produccion API",
			}))
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Scheduler:     scheduler,
		Replenishment: replenishmentUC,
		Tracker:       tracker,
		Timesheet:     timesheetSvc,
		Metrics:       metricsUC,
		Report:        reportUC,
		JWTSecret:     cfg.JWT.Secret,
		AppName:       cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
