package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/velmart/supplyline-backend/api/middleware"
	"github.com/velmart/supplyline-backend/api/responses"
	"github.com/velmart/supplyline-backend/api/validators"
	"github.com/velmart/supplyline-backend/internal/reconciler"
	"github.com/velmart/supplyline-backend/internal/supplyhistory"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/logger"
	"github.com/velmart/supplyline-backend/pkg/pagination"
)

// TriggerSupply runs one reconciliation cycle synchronously for the calling
// manufacturer and one retailer.
func TriggerSupply(svc reconciler.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerPid := strings.TrimSpace(chi.URLParam(r, "retailer_pid"))
		if retailerPid == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "retailer pid is required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithRetailerPid(ctx, retailerPid)
		}

		result, err := svc.RunCycle(ctx, middleware.ManufacturerPid(ctx), retailerPid)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SupplyHistory lists the attempt log for one retailer, newest first.
func SupplyHistory(svc supplyhistory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerPid := strings.TrimSpace(chi.URLParam(r, "retailer_pid"))
		if retailerPid == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "retailer pid is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithRetailerPid(ctx, retailerPid)
		}

		page, err := svc.ListForRetailer(ctx, retailerPid, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
