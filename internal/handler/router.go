package handler

import (
	"net/http"

	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router needs.
type Services struct {
	Auth      *service.AuthService
	Finance   *service.FinanceService
	Dashboard *service.DashboardService
	Invoices  *service.InvoiceService
	Budgets   *service.BudgetService
	Goals     *service.GoalService
	Health    *service.HealthService
	Metrics   *observability.Metrics
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(svcs.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Auth (public)
		r.Post("/auth/register", registerHandler(svcs.Auth, logger))
		r.Post("/auth/login", loginHandler(svcs.Auth, logger))
		r.Post("/auth/refresh", refreshHandler(svcs.Auth, logger))

		// Everything else needs a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(svcs.Auth, logger))

			r.Post("/auth/logout", logoutHandler(svcs.Auth, logger))
			r.Get("/auth/me", profileHandler(svcs.Auth, logger))

			// Cards
			r.Get("/cards", listCardsHandler(svcs.Finance, logger))
			r.Post("/cards", createCardHandler(svcs.Finance, logger))
			r.Get("/cards/{cardId}", getCardHandler(svcs.Finance, logger))
			r.Put("/cards/{cardId}", updateCardHandler(svcs.Finance, logger))
			r.Delete("/cards/{cardId}", archiveCardHandler(svcs.Finance, logger))

			// Invoices
			r.Get("/cards/{cardId}/invoices", invoiceHistoryHandler(svcs.Invoices, logger))
			r.Get("/cards/{cardId}/invoices/{year}/{month}", invoiceByMonthHandler(svcs.Invoices, logger))

			// Wallets
			r.Get("/wallets", listWalletsHandler(svcs.Finance, logger))
			r.Post("/wallets", createWalletHandler(svcs.Finance, logger))
			r.Get("/wallets/{walletId}", getWalletHandler(svcs.Finance, logger))
			r.Delete("/wallets/{walletId}", archiveWalletHandler(svcs.Finance, logger))

			// Transactions
			r.Get("/transactions", listTransactionsHandler(svcs.Finance, logger))
			r.Post("/transactions", recordTransactionHandler(svcs.Finance, logger))
			r.Get("/transactions/{txId}", getTransactionHandler(svcs.Finance, logger))
			r.Delete("/transactions/{txId}", deleteTransactionHandler(svcs.Finance, logger))

			// Dashboard
			r.Get("/dashboard/{year}/{month}", dashboardHandler(svcs.Dashboard, logger))
			r.Get("/dashboard/{year}/{month}/trend", trendHandler(svcs.Dashboard, logger))

			// Budgets
			r.Get("/budgets", listBudgetsHandler(svcs.Budgets, logger))
			r.Post("/budgets", createBudgetHandler(svcs.Budgets, logger))
			r.Put("/budgets/{budgetId}", updateBudgetHandler(svcs.Budgets, logger))
			r.Delete("/budgets/{budgetId}", deleteBudgetHandler(svcs.Budgets, logger))
			r.Get("/budgets/status/{year}/{month}", budgetStatusHandler(svcs.Budgets, logger))

			// Goals
			r.Get("/goals", listGoalsHandler(svcs.Goals, logger))
			r.Post("/goals", createGoalHandler(svcs.Goals, logger))
			r.Get("/goals/{goalId}", getGoalHandler(svcs.Goals, logger))
			r.Put("/goals/{goalId}", updateGoalHandler(svcs.Goals, logger))
			r.Delete("/goals/{goalId}", deleteGoalHandler(svcs.Goals, logger))
			r.Post("/goals/{goalId}/contribute", contributeHandler(svcs.Goals, logger))
			r.Get("/goals/{goalId}/contributions", listContributionsHandler(svcs.Goals, logger))

			// Health score
			r.Get("/health-score/{year}/{month}", healthScoreHandler(svcs.Health, logger))

			// Notifications
			r.Get("/notifications", listNotificationsHandler(svcs.Finance, logger))
			r.Post("/notifications/{notifId}/read", markNotificationReadHandler(svcs.Finance, logger))

			// Reporting metrics
			r.Get("/metrics/reporting", reportingMetricsHandler(svcs.Metrics, logger))
		})
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
