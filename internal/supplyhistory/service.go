package supplyhistory

import (
	"context"
	"fmt"
	"time"

	"github.com/velmart/supplyline-backend/internal/catalog"
	"github.com/velmart/supplyline-backend/pkg/db/models"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/pagination"
)

// AttemptView is the wire shape of one supply attempt.
type AttemptView struct {
	Aid         string    `json:"aid"`
	LauncherAid string    `json:"launcher_aid"`
	AmountSent  int       `json:"amount_sent"`
	Success     bool      `json:"success"`
	ContractAid *string   `json:"contract_aid"`
	CreatedAt   time.Time `json:"created_at"`
}

// Page is one page of supply attempts with the cursor for the next one.
type Page struct {
	Attempts   []AttemptView `json:"attempts"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service exposes read access to the supply attempt log.
type Service interface {
	ListForRetailer(ctx context.Context, retailerPid string, params pagination.Params) (*Page, error)
	ListForLauncher(ctx context.Context, launcherAid string, params pagination.Params) (*Page, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
}

// NewService wires a history service with its repositories.
func NewService(repo Repository, catalogRepo catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, catalog: catalogRepo}, nil
}

func (s *service) ListForRetailer(ctx context.Context, retailerPid string, params pagination.Params) (*Page, error) {
	exists, err := s.catalog.RetailerExists(ctx, retailerPid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking retailer")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Retailer not found.")
	}

	attempts, next, err := s.repo.ListByRetailer(ctx, retailerPid, params)
	if err != nil {
		return nil, listError(err)
	}
	return newPage(attempts, next), nil
}

func (s *service) ListForLauncher(ctx context.Context, launcherAid string, params pagination.Params) (*Page, error) {
	attempts, next, err := s.repo.ListByLauncher(ctx, launcherAid, params)
	if err != nil {
		return nil, listError(err)
	}
	return newPage(attempts, next), nil
}

// listError keeps typed errors (bad cursor) and wraps everything else as
// internal.
func listError(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing supply history")
}

func newPage(attempts []models.SupplyAttempt, next string) *Page {
	page := &Page{
		Attempts:   make([]AttemptView, 0, len(attempts)),
		NextCursor: next,
	}
	for _, a := range attempts {
		page.Attempts = append(page.Attempts, AttemptView{
			Aid:         a.Aid,
			LauncherAid: a.LauncherAid,
			AmountSent:  a.AmountSent,
			Success:     a.Success,
			ContractAid: a.ContractAid,
			CreatedAt:   a.CreatedAt,
		})
	}
	return page
}
