package models

import "github.com/velmart/supplyline-backend/pkg/publicid"

// SoldAtNotASale is the sold_at sentinel for import transactions, which have
// no sale price.
const SoldAtNotASale = 0

// StockTransaction is one signed quantity change for one product under one
// contract. Positive amounts are inbound supply, negative amounts are sales.
// Rows are append-only; they are never updated and only disappear when their
// owning contract cascades away.
type StockTransaction struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Aid         string `gorm:"column:aid;size:32;not null;uniqueIndex"`
	ContractAid string `gorm:"column:contract_aid;size:32;not null;index"`
	ProductPid  string `gorm:"column:product_pid;size:32;not null;index"`
	Amount      int    `gorm:"column:amount;not null"`
	SoldAtCents int    `gorm:"column:sold_at_cents;not null;default:0"`
}

// NewStockTransaction builds an unsaved transaction with a fresh public id.
func NewStockTransaction(contractAid, productPid string, amount, soldAtCents int) *StockTransaction {
	return &StockTransaction{
		Aid:         publicid.New(publicid.Length),
		ContractAid: contractAid,
		ProductPid:  productPid,
		Amount:      amount,
		SoldAtCents: soldAtCents,
	}
}
