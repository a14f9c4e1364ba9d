package ledger

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/velmart/supplyline-backend/internal/catalog"
	"github.com/velmart/supplyline-backend/pkg/db/models"
	"github.com/velmart/supplyline-backend/pkg/enums"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
)

const (
	// MaxBatchSize caps how many products one import or buy may carry.
	MaxBatchSize = 999
	// MaxImportAmount is the exclusive upper bound for one import entry.
	MaxImportAmount = 1000
	// MaxBuyAmount is the exclusive upper bound for one buy entry.
	MaxBuyAmount = 100
)

// Service exposes the ledger-mutating operations. Every batch commits or
// rolls back as one unit: a single invalid product rejects the whole request
// and the caller gets the complete per-product error set.
type Service interface {
	Import(ctx context.Context, input ImportInput) (*ContractResult, error)
	Buy(ctx context.Context, input BuyInput) (*ContractResult, error)
	GetContract(ctx context.Context, aid string) (*ContractView, error)
	StockFor(ctx context.Context, productPid string) (int, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	catalog catalog.Repository
}

// NewService wires a ledger service with its repositories.
func NewService(db *gorm.DB, repo Repository, catalogRepo catalog.Repository) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection required")
	}
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{db: db, repo: repo, catalog: catalogRepo}, nil
}

func (s *service) Import(ctx context.Context, input ImportInput) (*ContractResult, error) {
	if err := s.checkBatchShape(ctx, input.RetailerPid, input.Products); err != nil {
		return nil, err
	}

	var result *ContractResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)

		products, err := catalogRepo.FindProductsByPids(ctx, pidsOf(input.Products))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
		}

		contract := models.NewContract(input.RetailerPid, nil)
		transactions := make([]models.StockTransaction, 0, len(input.Products))
		reasons := map[string]string{}

		for _, pid := range sortedPids(input.Products) {
			amount := input.Products[pid]
			product, ok := products[pid]
			if !ok {
				reasons[pid] = "Product not found."
				continue
			}
			if product.Section == nil || product.Section.RetailerPid != input.RetailerPid {
				reasons[pid] = "Product belongs to another retailer."
				continue
			}
			// Imports restock inactive products too; only sales check activity.
			if amount <= 0 || amount >= MaxImportAmount {
				reasons[pid] = fmt.Sprintf("Amount must be in range 0 < amount < %d, got %d.", MaxImportAmount, amount)
				continue
			}
			transactions = append(transactions, *models.NewStockTransaction(
				contract.Aid, product.Pid, amount, models.SoldAtNotASale,
			))
		}

		if len(reasons) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "import rejected").WithDetails(reasons)
		}

		if err := s.repo.WithTx(tx).CreateContract(ctx, contract, transactions); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting import contract")
		}
		result = &ContractResult{ContractAid: contract.Aid}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Buy(ctx context.Context, input BuyInput) (*ContractResult, error) {
	if err := s.checkBatchShape(ctx, input.RetailerPid, input.Products); err != nil {
		return nil, err
	}

	payMethod, err := enums.ParsePayMethod(input.PayMethod)
	if err != nil {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("Pay method must be one of %v.", enums.PayMethods()),
		)
	}

	var result *ContractResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)
		ledgerRepo := s.repo.WithTx(tx)

		// Row locks on the products serialize concurrent buys so the stock
		// check below cannot be invalidated before this batch commits.
		products, err := catalogRepo.FindProductsByPidsForUpdate(ctx, pidsOf(input.Products))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
		}
		stocks, err := ledgerRepo.StocksFor(ctx, pidsOf(input.Products))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing stock")
		}

		contract := models.NewContract(input.RetailerPid, &payMethod)
		transactions := make([]models.StockTransaction, 0, len(input.Products))
		reasons := map[string]string{}

		for _, pid := range sortedPids(input.Products) {
			amount := input.Products[pid]
			product, ok := products[pid]
			if !ok {
				reasons[pid] = "Product not found."
				continue
			}
			if product.Section == nil || product.Section.RetailerPid != input.RetailerPid {
				reasons[pid] = "Product belongs to another retailer."
				continue
			}
			if !product.IsActive || !product.Section.IsActive {
				reasons[pid] = "Product is unavailable."
				continue
			}
			if amount <= 0 || amount >= MaxBuyAmount {
				reasons[pid] = fmt.Sprintf("Amount must be in range 0 < amount < %d, got %d.", MaxBuyAmount, amount)
				continue
			}
			if stock := stocks[pid]; amount > stock {
				reasons[pid] = fmt.Sprintf("Demand is too high (got %d, asked for %d).", stock, amount)
				continue
			}
			transactions = append(transactions, *models.NewStockTransaction(
				contract.Aid, product.Pid, -amount, product.PriceCents,
			))
		}

		if len(reasons) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "buy rejected").WithDetails(reasons)
		}

		if err := ledgerRepo.CreateContract(ctx, contract, transactions); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting buy contract")
		}
		result = &ContractResult{ContractAid: contract.Aid}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetContract(ctx context.Context, aid string) (*ContractView, error) {
	contract, err := s.repo.FindContractByAid(ctx, aid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading contract")
	}
	if contract == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Contract not found.")
	}
	return newContractView(contract), nil
}

func (s *service) StockFor(ctx context.Context, productPid string) (int, error) {
	return s.repo.StockFor(ctx, productPid)
}

func (s *service) checkBatchShape(ctx context.Context, retailerPid string, products map[string]int) error {
	exists, err := s.catalog.RetailerExists(ctx, retailerPid)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking retailer")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Retailer not found.")
	}
	if len(products) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Product list can not be empty.")
	}
	if len(products) > MaxBatchSize {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("Product list can not contain more than %d items.", MaxBatchSize))
	}
	return nil
}

func pidsOf(products map[string]int) []string {
	pids := make([]string, 0, len(products))
	for pid := range products {
		pids = append(pids, pid)
	}
	return pids
}

func sortedPids(products map[string]int) []string {
	pids := pidsOf(products)
	sort.Strings(pids)
	return pids
}
