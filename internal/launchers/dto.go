package launchers

import (
	"time"

	"github.com/velmart/supplyline-backend/pkg/db/models"
)

// CreateInput describes a new launcher for one retailer/product pair.
type CreateInput struct {
	ManufacturerPid string
	RetailerPid     string
	ProductPid      string
	TargetAmount    int
	IsActive        bool
}

// UpdateInput carries the mutable launcher fields. Nil means keep.
type UpdateInput struct {
	TargetAmount *int
	IsActive     *bool
}

// View is the wire shape of one launcher.
type View struct {
	Aid          string    `json:"aid"`
	RetailerPid  string    `json:"retailer_pid"`
	ProductPid   string    `json:"product_pid"`
	TargetAmount int       `json:"target_amount"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func newView(launcher *models.Launcher) *View {
	return &View{
		Aid:          launcher.Aid,
		RetailerPid:  launcher.RetailerPid,
		ProductPid:   launcher.ProductPid,
		TargetAmount: launcher.TargetAmount,
		IsActive:     launcher.IsActive,
		CreatedAt:    launcher.CreatedAt,
	}
}

func newViews(launchers []models.Launcher) []View {
	views := make([]View, 0, len(launchers))
	for i := range launchers {
		views = append(views, *newView(&launchers[i]))
	}
	return views
}
