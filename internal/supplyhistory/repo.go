package supplyhistory

import (
	"context"

	"gorm.io/gorm"

	"github.com/velmart/supplyline-backend/pkg/db/models"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/pagination"
)

// Repository manages the append-only supply attempt log. Attempts are never
// updated or deleted; the latest row per launcher drives carry-forward.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, attempt *models.SupplyAttempt) error
	AppendAll(ctx context.Context, attempts []models.SupplyAttempt) error
	LatestByLauncher(ctx context.Context, launcherAid string) (*models.SupplyAttempt, error)
	ListByLauncher(ctx context.Context, launcherAid string, params pagination.Params) ([]models.SupplyAttempt, string, error)
	ListByRetailer(ctx context.Context, retailerPid string, params pagination.Params) ([]models.SupplyAttempt, string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a history repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, attempt *models.SupplyAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *repository) AppendAll(ctx context.Context, attempts []models.SupplyAttempt) error {
	if len(attempts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&attempts).Error
}

func (r *repository) LatestByLauncher(ctx context.Context, launcherAid string) (*models.SupplyAttempt, error) {
	var attempts []models.SupplyAttempt
	err := r.db.WithContext(ctx).
		Where("launcher_aid = ?", launcherAid).
		Order("id DESC").
		Limit(1).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, nil
	}
	return &attempts[0], nil
}

func (r *repository) ListByLauncher(ctx context.Context, launcherAid string, params pagination.Params) ([]models.SupplyAttempt, string, error) {
	query := r.db.WithContext(ctx).Where("launcher_aid = ?", launcherAid)
	return r.paginate(query, params)
}

func (r *repository) ListByRetailer(ctx context.Context, retailerPid string, params pagination.Params) ([]models.SupplyAttempt, string, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN launchers ON launchers.aid = supply_attempts.launcher_aid").
		Where("launchers.retailer_pid = ?", retailerPid)
	return r.paginate(query, params)
}

func (r *repository) paginate(query *gorm.DB, params pagination.Params) ([]models.SupplyAttempt, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where(
			"(supply_attempts.created_at, supply_attempts.aid) < (?, ?)",
			cursor.CreatedAt, cursor.Aid,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var attempts []models.SupplyAttempt
	err = query.
		Order("supply_attempts.created_at DESC, supply_attempts.aid DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&attempts).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(attempts) > limit {
		attempts = attempts[:limit]
		last := attempts[len(attempts)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, Aid: last.Aid})
	}
	return attempts, next, nil
}
