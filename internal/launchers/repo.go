package launchers

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/velmart/supplyline-backend/pkg/db/models"
)

// Repository manages persistence for launchers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, launcher *models.Launcher) error
	FindByAid(ctx context.Context, aid string) (*models.Launcher, error)
	ListByManufacturer(ctx context.Context, manufacturerPid string) ([]models.Launcher, error)
	ListActive(ctx context.Context, manufacturerPid, retailerPid string) ([]models.Launcher, error)
	Update(ctx context.Context, launcher *models.Launcher) error
	Delete(ctx context.Context, launcher *models.Launcher) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a launcher repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, launcher *models.Launcher) error {
	return r.db.WithContext(ctx).Create(launcher).Error
}

func (r *repository) FindByAid(ctx context.Context, aid string) (*models.Launcher, error) {
	var launcher models.Launcher
	err := r.db.WithContext(ctx).
		Where("aid = ?", aid).
		First(&launcher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &launcher, nil
}

func (r *repository) ListByManufacturer(ctx context.Context, manufacturerPid string) ([]models.Launcher, error) {
	var launchers []models.Launcher
	err := r.db.WithContext(ctx).
		Where("manufacturer_pid = ?", manufacturerPid).
		Order("id ASC").
		Find(&launchers).Error
	if err != nil {
		return nil, err
	}
	return launchers, nil
}

func (r *repository) ListActive(ctx context.Context, manufacturerPid, retailerPid string) ([]models.Launcher, error) {
	var launchers []models.Launcher
	err := r.db.WithContext(ctx).
		Where("manufacturer_pid = ? AND retailer_pid = ? AND is_active = ?", manufacturerPid, retailerPid, true).
		Order("id ASC").
		Find(&launchers).Error
	if err != nil {
		return nil, err
	}
	return launchers, nil
}

func (r *repository) Update(ctx context.Context, launcher *models.Launcher) error {
	return r.db.WithContext(ctx).Save(launcher).Error
}

func (r *repository) Delete(ctx context.Context, launcher *models.Launcher) error {
	return r.db.WithContext(ctx).Delete(launcher).Error
}
