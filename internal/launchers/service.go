package launchers

import (
	"context"
	"fmt"

	"github.com/velmart/supplyline-backend/internal/catalog"
	"github.com/velmart/supplyline-backend/pkg/db"
	"github.com/velmart/supplyline-backend/pkg/db/models"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
)

// MaxTargetAmount is the exclusive upper bound for a launcher target.
const MaxTargetAmount = 10000

// Service exposes launcher administration for manufacturers. Every operation
// is scoped to the calling manufacturer; a launcher owned by someone else is
// off limits even for reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, manufacturerPid, aid string) (*View, error)
	List(ctx context.Context, manufacturerPid string) ([]View, error)
	Update(ctx context.Context, manufacturerPid, aid string, input UpdateInput) (*View, error)
	Delete(ctx context.Context, manufacturerPid, aid string) error
}

type service struct {
	repo    Repository
	catalog catalog.Repository
}

// NewService wires a launcher service with its repositories.
func NewService(repo Repository, catalogRepo catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("launcher repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, catalog: catalogRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if err := validateTarget(input.TargetAmount); err != nil {
		return nil, err
	}

	exists, err := s.catalog.RetailerExists(ctx, input.RetailerPid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking retailer")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Retailer not found.")
	}

	launcher := models.NewLauncher(
		input.ManufacturerPid,
		input.RetailerPid,
		input.ProductPid,
		input.TargetAmount,
		input.IsActive,
	)
	if err := s.repo.Create(ctx, launcher); err != nil {
		if db.IsUniqueViolation(err, "idx_launchers_retailer_product") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				"A launcher for this retailer and product already exists.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting launcher")
	}
	return newView(launcher), nil
}

func (s *service) Get(ctx context.Context, manufacturerPid, aid string) (*View, error) {
	launcher, err := s.owned(ctx, manufacturerPid, aid)
	if err != nil {
		return nil, err
	}
	return newView(launcher), nil
}

func (s *service) List(ctx context.Context, manufacturerPid string) ([]View, error) {
	launchers, err := s.repo.ListByManufacturer(ctx, manufacturerPid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing launchers")
	}
	return newViews(launchers), nil
}

func (s *service) Update(ctx context.Context, manufacturerPid, aid string, input UpdateInput) (*View, error) {
	launcher, err := s.owned(ctx, manufacturerPid, aid)
	if err != nil {
		return nil, err
	}

	if input.TargetAmount != nil {
		if err := validateTarget(*input.TargetAmount); err != nil {
			return nil, err
		}
		launcher.TargetAmount = *input.TargetAmount
	}
	if input.IsActive != nil {
		launcher.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, launcher); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating launcher")
	}
	return newView(launcher), nil
}

func (s *service) Delete(ctx context.Context, manufacturerPid, aid string) error {
	launcher, err := s.owned(ctx, manufacturerPid, aid)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, launcher); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting launcher")
	}
	return nil
}

func (s *service) owned(ctx context.Context, manufacturerPid, aid string) (*models.Launcher, error) {
	launcher, err := s.repo.FindByAid(ctx, aid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading launcher")
	}
	if launcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Launcher not found.")
	}
	if launcher.ManufacturerPid != manufacturerPid {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Launcher belongs to another manufacturer.")
	}
	return launcher, nil
}

func validateTarget(amount int) error {
	if amount <= 0 || amount >= MaxTargetAmount {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("Target amount must be in range 0 < amount < %d, got %d.", MaxTargetAmount, amount))
	}
	return nil
}
