package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velmart/supplyline-backend/pkg/db/models"
)

// Repository exposes the read surface the ledger needs from the catalog.
// Catalog administration is owned by another service; nothing here mutates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	RetailerExists(ctx context.Context, retailerPid string) (bool, error)
	FindProductsByPids(ctx context.Context, pids []string) (map[string]models.Product, error)
	// FindProductsByPidsForUpdate behaves like FindProductsByPids but takes
	// row locks so concurrent buys against the same products serialize.
	FindProductsByPidsForUpdate(ctx context.Context, pids []string) (map[string]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) RetailerExists(ctx context.Context, retailerPid string) (bool, error) {
	var retailer models.Retailer
	err := r.db.WithContext(ctx).
		Select("id").
		Where("pid = ?", retailerPid).
		First(&retailer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) FindProductsByPids(ctx context.Context, pids []string) (map[string]models.Product, error) {
	return r.findProducts(ctx, pids, false)
}

func (r *repository) FindProductsByPidsForUpdate(ctx context.Context, pids []string) (map[string]models.Product, error) {
	return r.findProducts(ctx, pids, true)
}

func (r *repository) findProducts(ctx context.Context, pids []string, forUpdate bool) (map[string]models.Product, error) {
	if len(pids) == 0 {
		return map[string]models.Product{}, nil
	}

	query := r.db.WithContext(ctx).Preload("Section")
	if forUpdate && r.db.Dialector.Name() == "postgres" {
		// sqlite (tests) has no row locks; the in-memory db is single-writer.
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var products []models.Product
	if err := query.Where("pid IN ?", pids).Find(&products).Error; err != nil {
		return nil, err
	}

	byPid := make(map[string]models.Product, len(products))
	for _, p := range products {
		byPid[p.Pid] = p
	}
	return byPid, nil
}
