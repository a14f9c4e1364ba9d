package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velmart/supplyline-backend/api/controllers"
	"github.com/velmart/supplyline-backend/api/middleware"
	"github.com/velmart/supplyline-backend/internal/launchers"
	"github.com/velmart/supplyline-backend/internal/ledger"
	"github.com/velmart/supplyline-backend/internal/reconciler"
	"github.com/velmart/supplyline-backend/internal/supplyhistory"
	"github.com/velmart/supplyline-backend/pkg/config"
	"github.com/velmart/supplyline-backend/pkg/logger"
)

// Pingers carries the dependency health checks exposed under /health/ready.
// Nil entries are reported as skipped.
type Pingers struct {
	DB     controllers.Pinger
	Redis  controllers.Pinger
	PubSub controllers.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers Pingers,
	registry *prometheus.Registry,
	ledgerService ledger.Service,
	launcherService launchers.Service,
	historyService supplyhistory.Service,
	reconcilerService reconciler.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers.Deps()))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/import", controllers.LedgerImport(ledgerService, logg))
		r.Post("/buy", controllers.LedgerBuy(ledgerService, logg))
		r.Get("/contract/{aid}", controllers.GetContract(ledgerService, logg))

		r.Get("/supply/{retailer_pid}/history", controllers.SupplyHistory(historyService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireManufacturer(logg))

			r.Post("/supply/{retailer_pid}", controllers.TriggerSupply(reconcilerService, logg))

			r.Route("/launchers", func(r chi.Router) {
				r.Post("/", controllers.CreateLauncher(launcherService, logg))
				r.Get("/", controllers.ListLaunchers(launcherService, logg))
				r.Get("/{aid}", controllers.GetLauncher(launcherService, logg))
				r.Get("/{aid}/history", controllers.LauncherHistory(launcherService, historyService, logg))
				r.Patch("/{aid}", controllers.UpdateLauncher(launcherService, logg))
				r.Delete("/{aid}", controllers.DeleteLauncher(launcherService, logg))
			})
		})
	})

	return r
}

// Deps maps the pingers by dependency name for the readiness handler.
func (p Pingers) Deps() map[string]controllers.Pinger {
	return map[string]controllers.Pinger{
		"db":     p.DB,
		"redis":  p.Redis,
		"pubsub": p.PubSub,
	}
}
