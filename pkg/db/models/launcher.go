package models

import (
	"time"

	"github.com/velmart/supplyline-backend/pkg/publicid"
)

// Launcher is a manufacturer's standing intent to keep one retailer stocked
// with one product. The reconciler only reads launchers; administration
// happens through the manufacturer endpoints.
type Launcher struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Aid             string    `gorm:"column:aid;size:32;not null;uniqueIndex"`
	ManufacturerPid string    `gorm:"column:manufacturer_pid;size:32;not null;index"`
	RetailerPid     string    `gorm:"column:retailer_pid;size:32;not null;uniqueIndex:idx_launchers_retailer_product,priority:1"`
	ProductPid      string    `gorm:"column:product_pid;size:32;not null;uniqueIndex:idx_launchers_retailer_product,priority:2"`
	TargetAmount    int       `gorm:"column:target_amount;not null"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`

	Attempts []SupplyAttempt `gorm:"foreignKey:LauncherAid;references:Aid;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// NewLauncher builds an unsaved launcher with a fresh public id.
func NewLauncher(manufacturerPid, retailerPid, productPid string, targetAmount int, isActive bool) *Launcher {
	return &Launcher{
		Aid:             publicid.New(publicid.Length),
		ManufacturerPid: manufacturerPid,
		RetailerPid:     retailerPid,
		ProductPid:      productPid,
		TargetAmount:    targetAmount,
		IsActive:        isActive,
	}
}
