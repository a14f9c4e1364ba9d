package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/velmart/supplyline-backend/api/responses"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/logger"
)

const manufacturerHeader = "X-Manufacturer-Pid"

type manufacturerKey struct{}

// RequireManufacturer guards the manufacturer surface. Identity arrives as a
// header set by the edge proxy; requests without it never reach the handlers.
func RequireManufacturer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pid := strings.TrimSpace(r.Header.Get(manufacturerHeader))
			if pid == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "Manufacturer identity required."))
				return
			}

			ctx := context.WithValue(r.Context(), manufacturerKey{}, pid)
			if logg != nil {
				ctx = logg.WithManufacturerPid(ctx, pid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ManufacturerPid returns the identity set by RequireManufacturer.
func ManufacturerPid(ctx context.Context) string {
	pid, _ := ctx.Value(manufacturerKey{}).(string)
	return pid
}
