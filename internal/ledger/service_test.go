package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velmart/supplyline-backend/internal/catalog"
	"github.com/velmart/supplyline-backend/pkg/db/models"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Retailer{},
		&models.Section{},
		&models.Product{},
		&models.Contract{},
		&models.StockTransaction{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(db, NewRepository(db), catalog.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func seedCatalog(t *testing.T, db *gorm.DB) (retailerPid string, productPids []string) {
	t.Helper()
	retailer := &models.Retailer{Pid: "hott_pizza", Name: "Hott Pizza"}
	if err := db.Create(retailer).Error; err != nil {
		t.Fatalf("create retailer: %v", err)
	}
	section := &models.Section{Pid: "sec_main", RetailerPid: retailer.Pid, Name: "Main", IsActive: true}
	if err := db.Create(section).Error; err != nil {
		t.Fatalf("create section: %v", err)
	}
	for _, p := range []models.Product{
		{Pid: "prod_dough", SectionPid: section.Pid, Name: "Dough", About: "pizza dough", PriceCents: 500, IsActive: true},
		{Pid: "prod_sauce", SectionPid: section.Pid, Name: "Sauce", About: "tomato sauce", PriceCents: 300, IsActive: true},
	} {
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("create product: %v", err)
		}
	}
	return retailer.Pid, []string{"prod_dough", "prod_sauce"}
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestImportCreatesContractAndStock(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	result, err := svc.Import(ctx, ImportInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{pids[0]: 30, pids[1]: 5},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.ContractAid) != 32 {
		t.Fatalf("expected 32-char contract aid, got %q", result.ContractAid)
	}

	for pid, want := range map[string]int{pids[0]: 30, pids[1]: 5} {
		stock, err := svc.StockFor(ctx, pid)
		if err != nil {
			t.Fatalf("stock: %v", err)
		}
		if stock != want {
			t.Fatalf("expected stock %d for %s, got %d", want, pid, stock)
		}
	}

	view, err := svc.GetContract(ctx, result.ContractAid)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if view.PayMethod != nil {
		t.Fatalf("import contract must not carry a pay method, got %v", *view.PayMethod)
	}
	if len(view.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(view.Transactions))
	}
	for _, txn := range view.Transactions {
		if txn.Amount <= 0 {
			t.Fatalf("import transactions must be positive, got %d", txn.Amount)
		}
		if txn.SoldAtCents != models.SoldAtNotASale {
			t.Fatalf("import transactions carry the not-a-sale sentinel, got %d", txn.SoldAtCents)
		}
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	_, err := svc.Import(ctx, ImportInput{
		RetailerPid: retailerPid,
		Products: map[string]int{
			pids[0]:   30,
			"missing": 10,
			pids[1]:   5000, // out of range
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	reasons, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected per-product reasons, got %T", typed.Details())
	}
	if reasons["missing"] != "Product not found." {
		t.Fatalf("unexpected reason for missing product: %q", reasons["missing"])
	}
	if reasons[pids[1]] == "" {
		t.Fatalf("expected out-of-range reason for %s", pids[1])
	}
	if _, ok := reasons[pids[0]]; ok {
		t.Fatalf("valid product must not appear in the error set")
	}

	if n := countRows(t, db, &models.Contract{}); n != 0 {
		t.Fatalf("expected no contracts after rejected batch, got %d", n)
	}
	if n := countRows(t, db, &models.StockTransaction{}); n != 0 {
		t.Fatalf("expected no transactions after rejected batch, got %d", n)
	}
}

func TestImportUnknownRetailer(t *testing.T) {
	svc, db := newTestService(t)
	seedCatalog(t, db)

	_, err := svc.Import(context.Background(), ImportInput{
		RetailerPid: "ghost",
		Products:    map[string]int{"prod_dough": 1},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestImportEmptyBatch(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, _ := seedCatalog(t, db)

	_, err := svc.Import(context.Background(), ImportInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportRejectsForeignProduct(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, _ := seedCatalog(t, db)

	other := &models.Retailer{Pid: "other_shop", Name: "Other"}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("create retailer: %v", err)
	}
	section := &models.Section{Pid: "sec_other", RetailerPid: other.Pid, Name: "Other", IsActive: true}
	if err := db.Create(section).Error; err != nil {
		t.Fatalf("create section: %v", err)
	}
	foreign := &models.Product{Pid: "prod_foreign", SectionPid: section.Pid, Name: "Foreign", About: "x", PriceCents: 100, IsActive: true}
	if err := db.Create(foreign).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err := svc.Import(context.Background(), ImportInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{foreign.Pid: 10},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	reasons := typed.Details().(map[string]string)
	if reasons[foreign.Pid] != "Product belongs to another retailer." {
		t.Fatalf("unexpected reason: %q", reasons[foreign.Pid])
	}
}

func TestBuyHappyPathRecordsNegativeAmounts(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	if _, err := svc.Import(ctx, ImportInput{RetailerPid: retailerPid, Products: map[string]int{pids[0]: 30}}); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	result, err := svc.Buy(ctx, BuyInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{pids[0]: 4},
		PayMethod:   "cash",
	})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}

	stock, err := svc.StockFor(ctx, pids[0])
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	if stock != 26 {
		t.Fatalf("expected stock 26 after sale, got %d", stock)
	}

	view, err := svc.GetContract(ctx, result.ContractAid)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if view.PayMethod == nil || *view.PayMethod != "cash" {
		t.Fatalf("expected cash pay method, got %v", view.PayMethod)
	}
	if len(view.Transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(view.Transactions))
	}
	txn := view.Transactions[0]
	if txn.Amount != -4 {
		t.Fatalf("sales record negative amounts, got %d", txn.Amount)
	}
	if txn.SoldAtCents != 500 {
		t.Fatalf("expected sale price 500, got %d", txn.SoldAtCents)
	}
}

func TestBuyRejectsOversell(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	if _, err := svc.Import(ctx, ImportInput{RetailerPid: retailerPid, Products: map[string]int{pids[0]: 3}}); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	_, err := svc.Buy(ctx, BuyInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{pids[0]: 5},
		PayMethod:   "online",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	reasons := typed.Details().(map[string]string)
	if reasons[pids[0]] != "Demand is too high (got 3, asked for 5)." {
		t.Fatalf("unexpected oversell reason: %q", reasons[pids[0]])
	}

	if stock, _ := svc.StockFor(ctx, pids[0]); stock != 3 {
		t.Fatalf("stock must be unchanged after rejected buy, got %d", stock)
	}
}

func TestBuyIsAllOrNothing(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	if _, err := svc.Import(ctx, ImportInput{RetailerPid: retailerPid, Products: map[string]int{pids[0]: 10, pids[1]: 10}}); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	before := countRows(t, db, &models.StockTransaction{})

	_, err := svc.Buy(ctx, BuyInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{pids[0]: 2, pids[1]: 50},
		PayMethod:   "online",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if after := countRows(t, db, &models.StockTransaction{}); after != before {
		t.Fatalf("rejected buy must write nothing: before=%d after=%d", before, after)
	}
}

func TestBuyRejectsInactiveProductAndSection(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	if _, err := svc.Import(ctx, ImportInput{RetailerPid: retailerPid, Products: map[string]int{pids[0]: 10}}); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("pid = ?", pids[0]).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	_, err := svc.Buy(ctx, BuyInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{pids[0]: 1},
		PayMethod:   "cash",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	reasons := typed.Details().(map[string]string)
	if reasons[pids[0]] != "Product is unavailable." {
		t.Fatalf("unexpected reason: %q", reasons[pids[0]])
	}
}

func TestBuyRejectsUnknownPayMethod(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)

	_, err := svc.Buy(context.Background(), BuyInput{
		RetailerPid: retailerPid,
		Products:    map[string]int{pids[0]: 1},
		PayMethod:   "barter",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStockConservationAcrossMixedOperations(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	steps := []struct {
		buy    bool
		amount int
	}{
		{false, 50}, {true, 7}, {false, 12}, {true, 30}, {true, 1},
	}
	want := 0
	for _, step := range steps {
		if step.buy {
			if _, err := svc.Buy(ctx, BuyInput{RetailerPid: retailerPid, Products: map[string]int{pids[0]: step.amount}, PayMethod: "cash"}); err != nil {
				t.Fatalf("buy %d: %v", step.amount, err)
			}
			want -= step.amount
		} else {
			if _, err := svc.Import(ctx, ImportInput{RetailerPid: retailerPid, Products: map[string]int{pids[0]: step.amount}}); err != nil {
				t.Fatalf("import %d: %v", step.amount, err)
			}
			want += step.amount
		}
	}

	stock, err := svc.StockFor(ctx, pids[0])
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	if stock != want {
		t.Fatalf("stock drifted from transaction sum: want %d got %d", want, stock)
	}

	// cross-check the fold directly against the raw rows
	var sum int
	if err := db.Model(&models.StockTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("product_pid = ?", pids[0]).
		Scan(&sum).Error; err != nil {
		t.Fatalf("raw sum: %v", err)
	}
	if sum != stock {
		t.Fatalf("derived stock %d disagrees with raw sum %d", stock, sum)
	}
}

func TestStockForUnknownProductIsZero(t *testing.T) {
	svc, _ := newTestService(t)
	stock, err := svc.StockFor(context.Background(), "never_seen")
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	if stock != 0 {
		t.Fatalf("unknown product must report zero stock, got %d", stock)
	}
}

func TestGetContractUnknownAid(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetContract(context.Background(), "nope")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetContractIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	retailerPid, pids := seedCatalog(t, db)
	ctx := context.Background()

	result, err := svc.Import(ctx, ImportInput{RetailerPid: retailerPid, Products: map[string]int{pids[0]: 9}})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	first, err := svc.GetContract(ctx, result.ContractAid)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := svc.GetContract(ctx, result.ContractAid)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if first.Aid != second.Aid || len(first.Transactions) != len(second.Transactions) {
		t.Fatalf("repeated reads must agree: %+v vs %+v", first, second)
	}
}
