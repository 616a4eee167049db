package handler

import (
	"net/http"
	"strconv"

	"github.com/mana-finance/mana-backend-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Dashboard, invoices, budgets, health score
// ============================================================

func dashboardHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/{year}/{month}")
		defer span.End()

		year, month, err := parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("year", year), attribute.Int("month", int(month)))

		stats, err := svc.MonthlyStats(ctx, UserIDFromContext(ctx), year, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func trendHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/{year}/{month}/trend")
		defer span.End()

		year, month, err := parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		months := 6
		if v := r.URL.Query().Get("months"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 24 {
				months = n
			}
		}

		points, err := svc.Trend(ctx, UserIDFromContext(ctx), year, month, months)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"trend": points})
	}
}

func invoiceHistoryHandler(svc *service.InvoiceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/cards/{cardId}/invoices")
		defer span.End()

		hist, err := svc.History(ctx, UserIDFromContext(ctx), chi.URLParam(r, "cardId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, hist)
	}
}

func invoiceByMonthHandler(svc *service.InvoiceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/cards/{cardId}/invoices/{year}/{month}")
		defer span.End()

		year, month, err := parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		inv, err := svc.Invoice(ctx, UserIDFromContext(ctx), chi.URLParam(r, "cardId"), year, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	}
}

func healthScoreHandler(svc *service.HealthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/health-score/{year}/{month}")
		defer span.End()

		year, month, err := parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		health, err := svc.Score(ctx, UserIDFromContext(ctx), year, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, health)
	}
}
