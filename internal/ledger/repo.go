package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/velmart/supplyline-backend/pkg/db/models"
)

// Repository manages persistence for contracts and their stock transactions.
// Transactions are append-only; stock is always derived, never stored.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateContract(ctx context.Context, contract *models.Contract, transactions []models.StockTransaction) error
	FindContractByAid(ctx context.Context, aid string) (*models.Contract, error)
	StockFor(ctx context.Context, productPid string) (int, error)
	StocksFor(ctx context.Context, productPids []string) (map[string]int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateContract(ctx context.Context, contract *models.Contract, transactions []models.StockTransaction) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Create(contract).Error; err != nil {
		return err
	}
	if len(transactions) == 0 {
		return nil
	}
	return conn.Create(&transactions).Error
}

func (r *repository) FindContractByAid(ctx context.Context, aid string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Preload("Transactions").
		Where("aid = ?", aid).
		First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repository) StockFor(ctx context.Context, productPid string) (int, error) {
	var stock int
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("product_pid = ?", productPid).
		Scan(&stock).Error
	if err != nil {
		return 0, err
	}
	return stock, nil
}

func (r *repository) StocksFor(ctx context.Context, productPids []string) (map[string]int, error) {
	stocks := make(map[string]int, len(productPids))
	if len(productPids) == 0 {
		return stocks, nil
	}

	type row struct {
		ProductPid string
		Stock      int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Select("product_pid, COALESCE(SUM(amount), 0) AS stock").
		Where("product_pid IN ?", productPids).
		Group("product_pid").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, pid := range productPids {
		stocks[pid] = 0
	}
	for _, r := range rows {
		stocks[r.ProductPid] = r.Stock
	}
	return stocks, nil
}
