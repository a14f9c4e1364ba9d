package ledger

import (
	"time"

	"github.com/velmart/supplyline-backend/pkg/db/models"
)

// ImportInput is one inbound supply batch for a retailer.
type ImportInput struct {
	RetailerPid string
	Products    map[string]int
}

// BuyInput is one outbound sale batch for a retailer.
type BuyInput struct {
	RetailerPid string
	Products    map[string]int
	PayMethod   string
}

// ContractResult is returned by the mutating operations.
type ContractResult struct {
	ContractAid string `json:"contract_aid"`
}

// TransactionView is the wire shape of one transaction under a contract.
type TransactionView struct {
	Aid         string `json:"aid"`
	ProductPid  string `json:"product_pid"`
	Amount      int    `json:"amount"`
	SoldAtCents int    `json:"sold_at_cents"`
}

// ContractView is the wire shape of one contract with its transactions.
type ContractView struct {
	Aid          string            `json:"aid"`
	RetailerPid  string            `json:"retailer_pid"`
	PayMethod    *string           `json:"pay_method"`
	CreatedAt    time.Time         `json:"created_at"`
	Transactions []TransactionView `json:"transactions"`
}

func newContractView(contract *models.Contract) *ContractView {
	view := &ContractView{
		Aid:          contract.Aid,
		RetailerPid:  contract.RetailerPid,
		CreatedAt:    contract.CreatedAt,
		Transactions: make([]TransactionView, 0, len(contract.Transactions)),
	}
	if contract.PayMethod != nil {
		method := contract.PayMethod.String()
		view.PayMethod = &method
	}
	for _, txn := range contract.Transactions {
		view.Transactions = append(view.Transactions, TransactionView{
			Aid:         txn.Aid,
			ProductPid:  txn.ProductPid,
			Amount:      txn.Amount,
			SoldAtCents: txn.SoldAtCents,
		})
	}
	return view
}
