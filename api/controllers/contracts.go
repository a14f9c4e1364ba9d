package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/velmart/supplyline-backend/api/responses"
	"github.com/velmart/supplyline-backend/api/validators"
	"github.com/velmart/supplyline-backend/internal/ledger"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/logger"
)

type importBody struct {
	RetailerPid string         `json:"retailer_pid" validate:"required"`
	Products    map[string]int `json:"products" validate:"required"`
}

type buyBody struct {
	RetailerPid string         `json:"retailer_pid" validate:"required"`
	Products    map[string]int `json:"products" validate:"required"`
	PayMethod   string         `json:"pay_method" validate:"required"`
}

// LedgerImport accepts one inbound supply batch for a retailer.
func LedgerImport(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body importBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithRetailerPid(ctx, body.RetailerPid)
		}

		result, err := svc.Import(ctx, ledger.ImportInput{
			RetailerPid: body.RetailerPid,
			Products:    body.Products,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// LedgerBuy accepts one outbound sale batch for a retailer.
func LedgerBuy(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body buyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithRetailerPid(ctx, body.RetailerPid)
		}

		result, err := svc.Buy(ctx, ledger.BuyInput{
			RetailerPid: body.RetailerPid,
			Products:    body.Products,
			PayMethod:   body.PayMethod,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetContract returns one contract with its transactions.
func GetContract(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aid := strings.TrimSpace(chi.URLParam(r, "aid"))
		if aid == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "contract aid is required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithContractAid(ctx, aid)
		}

		view, err := svc.GetContract(ctx, aid)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
