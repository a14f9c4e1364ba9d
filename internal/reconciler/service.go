package reconciler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/velmart/supplyline-backend/internal/launchers"
	"github.com/velmart/supplyline-backend/internal/supplyhistory"
	"github.com/velmart/supplyline-backend/pkg/db/models"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/logger"
	"github.com/velmart/supplyline-backend/pkg/metrics"
)

// MaxCarryAmount is the cap on a failed amount eligible for carry-forward.
// A failed send at or above the cap is dropped and the next cycle restarts
// from the launcher target alone.
const MaxCarryAmount = 10000

// CycleResult summarizes one reconciliation cycle.
type CycleResult struct {
	RetailerPid string         `json:"retailer_pid"`
	ContractAid *string        `json:"contract_aid"`
	Products    map[string]int `json:"products"`
}

// Service drives supply reconciliation cycles for a manufacturer.
type Service interface {
	RunCycle(ctx context.Context, manufacturerPid, retailerPid string) (*CycleResult, error)
}

type service struct {
	launchers launchers.Repository
	history   supplyhistory.Repository
	client    ImportClient
	locker    Locker
	metrics   *metrics.SupplyCycleMetrics
	logger    *logger.Logger
}

// NewService wires a reconciler with its collaborators. Metrics may be nil.
func NewService(
	launcherRepo launchers.Repository,
	historyRepo supplyhistory.Repository,
	client ImportClient,
	locker Locker,
	cycleMetrics *metrics.SupplyCycleMetrics,
	logg *logger.Logger,
) (Service, error) {
	if launcherRepo == nil {
		return nil, fmt.Errorf("launcher repository required")
	}
	if historyRepo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("import client required")
	}
	if locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	return &service{
		launchers: launcherRepo,
		history:   historyRepo,
		client:    client,
		locker:    locker,
		metrics:   cycleMetrics,
		logger:    logg,
	}, nil
}

// RunCycle computes the corrected amount for every active launcher of the
// retailer, sends one import batch, and appends one attempt row per launcher
// whatever the remote outcome was. The attempt write is unconditional: it
// survives a cancelled request context and its own failure joins the
// returned error instead of replacing it.
func (s *service) RunCycle(ctx context.Context, manufacturerPid, retailerPid string) (result *CycleResult, err error) {
	started := time.Now()
	log := s.logger
	if log != nil {
		ctx = log.WithManufacturerPid(log.WithRetailerPid(ctx, retailerPid), manufacturerPid)
	}

	active, err := s.launchers.ListActive(ctx, manufacturerPid, retailerPid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing launchers")
	}
	if len(active) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Launcher with this retailer not found.")
	}

	release, ok, err := s.locker.Acquire(ctx, retailerPid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring supply lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"A supply cycle for this retailer is already running.")
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil && log != nil {
			log.Error(ctx, "releasing supply lock failed", rerr)
		}
	}()

	products := make(map[string]int, len(active))
	amounts := make(map[string]int, len(active))
	for _, launcher := range active {
		amount, cerr := s.correctedAmount(ctx, &launcher)
		if cerr != nil {
			return nil, cerr
		}
		products[launcher.ProductPid] = amount
		amounts[launcher.Aid] = amount
	}

	// The attempt log records every send from here on, success or not.
	var contractAid *string
	defer func() {
		attempts := make([]models.SupplyAttempt, 0, len(active))
		outcome := "failure"
		if err == nil {
			outcome = "success"
		}
		for _, launcher := range active {
			attempts = append(attempts, *models.NewSupplyAttempt(
				launcher.Aid, amounts[launcher.Aid], err == nil, contractAid,
			))
		}
		if herr := s.history.AppendAll(context.WithoutCancel(ctx), attempts); herr != nil {
			err = multierr.Append(err, pkgerrors.Wrap(pkgerrors.CodeInternal, herr, "recording supply attempts"))
			if log != nil {
				log.Error(ctx, "supply attempt log write failed", herr)
			}
			return
		}
		s.metrics.AddAttempts(outcome, len(attempts))
	}()

	aid, err := s.client.Import(ctx, retailerPid, products)
	s.metrics.ObserveDuration(retailerPid, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(retailerPid)
		if log != nil {
			log.Warn(log.WithField(ctx, "reason", err.Error()), "supply import rejected")
		}
		return nil, err
	}
	contractAid = &aid
	s.metrics.IncSuccess(retailerPid)
	if log != nil {
		log.Info(log.WithContractAid(ctx, aid), "supply cycle completed")
	}

	return &CycleResult{
		RetailerPid: retailerPid,
		ContractAid: contractAid,
		Products:    products,
	}, nil
}

// correctedAmount folds the previous failure into this cycle's send. A prior
// failed amount rides along only while it stays under MaxCarryAmount; at or
// past the cap the backlog is dropped rather than compounded forever against
// a retailer that keeps refusing it.
func (s *service) correctedAmount(ctx context.Context, launcher *models.Launcher) (int, error) {
	prev, err := s.history.LatestByLauncher(ctx, launcher.Aid)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading last attempt")
	}
	if prev == nil || prev.Success {
		return launcher.TargetAmount, nil
	}
	if prev.AmountSent >= MaxCarryAmount {
		return launcher.TargetAmount, nil
	}
	return launcher.TargetAmount + prev.AmountSent, nil
}
