package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/velmart/supplyline-backend/api/middleware"
	"github.com/velmart/supplyline-backend/api/responses"
	"github.com/velmart/supplyline-backend/api/validators"
	"github.com/velmart/supplyline-backend/internal/launchers"
	"github.com/velmart/supplyline-backend/internal/supplyhistory"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/logger"
	"github.com/velmart/supplyline-backend/pkg/pagination"
)

type createLauncherBody struct {
	RetailerPid  string `json:"retailer_pid" validate:"required"`
	ProductPid   string `json:"product_pid" validate:"required"`
	TargetAmount int    `json:"target_amount" validate:"required"`
	IsActive     *bool  `json:"is_active"`
}

type updateLauncherBody struct {
	TargetAmount *int  `json:"target_amount"`
	IsActive     *bool `json:"is_active"`
}

func CreateLauncher(svc launchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createLauncherBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if body.IsActive != nil {
			active = *body.IsActive
		}

		ctx := r.Context()
		view, err := svc.Create(ctx, launchers.CreateInput{
			ManufacturerPid: middleware.ManufacturerPid(ctx),
			RetailerPid:     body.RetailerPid,
			ProductPid:      body.ProductPid,
			TargetAmount:    body.TargetAmount,
			IsActive:        active,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func GetLauncher(svc launchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		aid, err := launcherAid(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Get(ctx, middleware.ManufacturerPid(ctx), aid)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func ListLaunchers(svc launchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		views, err := svc.List(ctx, middleware.ManufacturerPid(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func UpdateLauncher(svc launchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		aid, err := launcherAid(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body updateLauncherBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Update(ctx, middleware.ManufacturerPid(ctx), aid, launchers.UpdateInput{
			TargetAmount: body.TargetAmount,
			IsActive:     body.IsActive,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func DeleteLauncher(svc launchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		aid, err := launcherAid(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.ManufacturerPid(ctx), aid); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// LauncherHistory lists the attempt log for one launcher, newest first. The
// ownership check runs first so a foreign launcher reads as forbidden, not as
// an empty page.
func LauncherHistory(launcherSvc launchers.Service, historySvc supplyhistory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		aid, err := launcherAid(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if _, err := launcherSvc.Get(ctx, middleware.ManufacturerPid(ctx), aid); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := historySvc.ListForLauncher(ctx, aid, pagination.Params{
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

func launcherAid(r *http.Request) (string, error) {
	aid := strings.TrimSpace(chi.URLParam(r, "aid"))
	if aid == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "launcher aid is required")
	}
	return aid, nil
}
