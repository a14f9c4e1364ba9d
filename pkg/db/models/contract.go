package models

import (
	"time"

	"github.com/velmart/supplyline-backend/pkg/enums"
	"github.com/velmart/supplyline-backend/pkg/publicid"
)

// Contract groups the stock transactions created by one import or one
// purchase. A nil PayMethod marks an import; purchases always carry one.
// Contracts are immutable once created.
type Contract struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	Aid         string           `gorm:"column:aid;size:32;not null;uniqueIndex"`
	RetailerPid string           `gorm:"column:retailer_pid;size:32;not null;index"`
	PayMethod   *enums.PayMethod `gorm:"column:pay_method;size:32"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`

	Transactions []StockTransaction `gorm:"foreignKey:ContractAid;references:Aid;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// NewContract builds an unsaved contract with a fresh public id.
func NewContract(retailerPid string, payMethod *enums.PayMethod) *Contract {
	return &Contract{
		Aid:         publicid.New(publicid.Length),
		RetailerPid: retailerPid,
		PayMethod:   payMethod,
	}
}
