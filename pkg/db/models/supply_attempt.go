package models

import (
	"time"

	"github.com/velmart/supplyline-backend/pkg/publicid"
)

// SupplyAttempt records the outcome of one reconciliation cycle for one
// launcher. Exactly one row is appended per launcher per cycle, whatever the
// remote outcome was. ContractAid is set only on success.
type SupplyAttempt struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Aid         string    `gorm:"column:aid;size:32;not null;uniqueIndex"`
	LauncherAid string    `gorm:"column:launcher_aid;size:32;not null;index"`
	AmountSent  int       `gorm:"column:amount_sent;not null"`
	Success     bool      `gorm:"column:success;not null"`
	ContractAid *string   `gorm:"column:contract_aid;size:32"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// NewSupplyAttempt builds an unsaved attempt row with a fresh public id.
func NewSupplyAttempt(launcherAid string, amountSent int, success bool, contractAid *string) *SupplyAttempt {
	return &SupplyAttempt{
		Aid:         publicid.New(publicid.Length),
		LauncherAid: launcherAid,
		AmountSent:  amountSent,
		Success:     success,
		ContractAid: contractAid,
	}
}
