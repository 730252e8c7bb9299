package billing_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/vyaparsoft/backoffice_backend/billing"
	"bitbucket.org/vyaparsoft/backoffice_backend/config"
	"bitbucket.org/vyaparsoft/backoffice_backend/inventory"
	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// setupCoordinator spins up a throwaway MySQL container, migrates the schema
// and returns a Coordinator wired against it.
func setupCoordinator(t *testing.T) (*gorm.DB, *billing.Coordinator) {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "backoffice_test")

	db := config.ConnectDatabaseWithRetry()
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := models.MigrateTable(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ledger := inventory.NewLedger(db)
	coord := billing.NewCoordinator(db, ledger, billing.NewRepository(db), config.GetLogger())
	return db, coord
}

func seedProduct(t *testing.T, db *gorm.DB, code string, qty int, unitPrice, gstPct string) *models.Product {
	t.Helper()
	p := &models.Product{
		ProductCode:   code,
		ProductName:   "Product " + code,
		Quantity:      qty,
		UnitPrice:     mustDecimal(t, unitPrice),
		GstPercentage: mustDecimal(t, gstPct),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product %s: %v", code, err)
	}
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, code string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		CustomerCode: code,
		Name:         "Customer " + code,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed customer %s: %v", code, err)
	}
	return c
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func productQty(t *testing.T, db *gorm.DB, id int) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("fetch product %d: %v", id, err)
	}
	return p.Quantity
}

func billCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Bill{}).Count(&n).Error; err != nil {
		t.Fatalf("count bills: %v", err)
	}
	return n
}

func TestBillLifecycleRestoresStockExactly(t *testing.T) {
	db, coord := setupCoordinator(t)
	ctx := context.Background()

	cust := seedCustomer(t, db, "CUST-1")
	soap := seedProduct(t, db, "SOAP-1", 100, "50", "18")
	oil := seedProduct(t, db, "OIL-1", 40, "120.50", "12")

	created, err := coord.CreateBill(ctx, &models.NewBill{
		CustomerID: cust.ID,
		BillDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Items: []models.NewBillItem{
			{ProductID: soap.ID, Quantity: 5},
			{ProductID: oil.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if created.BillNumber == "" || !strings.HasPrefix(created.BillNumber, "ST") {
		t.Fatalf("unexpected bill number %q", created.BillNumber)
	}
	if got := productQty(t, db, soap.ID); got != 95 {
		t.Fatalf("soap quantity after create = %d, want 95", got)
	}
	if got := productQty(t, db, oil.ID); got != 38 {
		t.Fatalf("oil quantity after create = %d, want 38", got)
	}
	// 5*50 + 2*120.50 = 491; gst 45 + 28.92 = 73.92; total 564.92
	if !created.Subtotal.Equal(mustDecimal(t, "491")) {
		t.Fatalf("subtotal = %s, want 491", created.Subtotal)
	}
	if !created.GstAmount.Equal(mustDecimal(t, "73.92")) {
		t.Fatalf("gst = %s, want 73.92", created.GstAmount)
	}
	if !created.TotalAmount.Equal(created.Subtotal.Add(created.GstAmount)) {
		t.Fatalf("total %s is not exactly subtotal+gst", created.TotalAmount)
	}

	// Re-saving the same items must leave quantities untouched: the edit
	// first restores the old reservations, then re-takes them.
	for i := 0; i < 2; i++ {
		_, err := coord.UpdateBill(ctx, created.ID, &models.NewBill{
			CustomerID: cust.ID,
			BillDate:   created.BillDate,
			Items: []models.NewBillItem{
				{ProductID: soap.ID, Quantity: 5},
				{ProductID: oil.ID, Quantity: 2},
			},
		})
		if err != nil {
			t.Fatalf("UpdateBill (round %d): %v", i+1, err)
		}
		if got := productQty(t, db, soap.ID); got != 95 {
			t.Fatalf("soap quantity after no-op edit = %d, want 95", got)
		}
		if got := productQty(t, db, oil.ID); got != 38 {
			t.Fatalf("oil quantity after no-op edit = %d, want 38", got)
		}
	}

	// An edit may consume the stock the bill itself holds: bump soap from 5
	// to 100 while only 95 remain on the shelf.
	updated, err := coord.UpdateBill(ctx, created.ID, &models.NewBill{
		CustomerID: cust.ID,
		BillDate:   created.BillDate,
		Items: []models.NewBillItem{
			{ProductID: soap.ID, Quantity: 100},
		},
	})
	if err != nil {
		t.Fatalf("UpdateBill to full stock: %v", err)
	}
	if got := productQty(t, db, soap.ID); got != 0 {
		t.Fatalf("soap quantity after full reservation = %d, want 0", got)
	}
	if got := productQty(t, db, oil.ID); got != 40 {
		t.Fatalf("oil quantity after item removal = %d, want 40", got)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("updated bill has %d items, want 1", len(updated.Items))
	}

	if err := coord.DeleteBill(ctx, created.ID); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}
	if got := productQty(t, db, soap.ID); got != 100 {
		t.Fatalf("soap quantity after delete = %d, want 100", got)
	}
	if got := productQty(t, db, oil.ID); got != 40 {
		t.Fatalf("oil quantity after delete = %d, want 40", got)
	}
	if _, err := coord.GetBill(ctx, created.ID); !errors.Is(err, models.ErrRecordNotFound) {
		t.Fatalf("GetBill after delete: err = %v, want ErrRecordNotFound", err)
	}
	var orphanItems int64
	if err := db.Model(&models.BillItem{}).Where("bill_id = ?", created.ID).Count(&orphanItems).Error; err != nil {
		t.Fatalf("count orphan items: %v", err)
	}
	if orphanItems != 0 {
		t.Fatalf("%d bill items survived the delete", orphanItems)
	}
}

func TestCreateBillInsufficientStockRollsBackEverything(t *testing.T) {
	db, coord := setupCoordinator(t)
	ctx := context.Background()

	cust := seedCustomer(t, db, "CUST-1")
	soap := seedProduct(t, db, "SOAP-1", 100, "50", "18")
	oil := seedProduct(t, db, "OIL-1", 3, "120.50", "12")

	_, err := coord.CreateBill(ctx, &models.NewBill{
		CustomerID: cust.ID,
		BillDate:   time.Now().UTC(),
		Items: []models.NewBillItem{
			{ProductID: soap.ID, Quantity: 10},
			{ProductID: oil.ID, Quantity: 5},
		},
	})
	var insufficient *models.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("CreateBill err = %v, want InsufficientStockError", err)
	}
	if insufficient.ProductCode != "OIL-1" || insufficient.Available != 3 || insufficient.Requested != 5 {
		t.Fatalf("error fields = %+v, want OIL-1 available=3 requested=5", insufficient)
	}
	if got := productQty(t, db, soap.ID); got != 100 {
		t.Fatalf("soap quantity after failed create = %d, want 100", got)
	}
	if got := productQty(t, db, oil.ID); got != 3 {
		t.Fatalf("oil quantity after failed create = %d, want 3", got)
	}
	if n := billCount(t, db); n != 0 {
		t.Fatalf("%d bills persisted from a failed create", n)
	}
}

func TestCreateBillDuplicateLinesShareOneStockPool(t *testing.T) {
	db, coord := setupCoordinator(t)
	ctx := context.Background()

	cust := seedCustomer(t, db, "CUST-1")
	soap := seedProduct(t, db, "SOAP-1", 10, "50", "18")

	// 6+6 exceeds the pool of 10 even though each line alone fits.
	_, err := coord.CreateBill(ctx, &models.NewBill{
		CustomerID: cust.ID,
		BillDate:   time.Now().UTC(),
		Items: []models.NewBillItem{
			{ProductID: soap.ID, Quantity: 6},
			{ProductID: soap.ID, Quantity: 6},
		},
	})
	var insufficient *models.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("CreateBill err = %v, want InsufficientStockError", err)
	}
	if insufficient.Available != 4 || insufficient.Requested != 6 {
		t.Fatalf("error fields = %+v, want available=4 requested=6", insufficient)
	}
	if got := productQty(t, db, soap.ID); got != 10 {
		t.Fatalf("quantity after failed create = %d, want 10", got)
	}

	// 6+4 fits exactly.
	bill, err := coord.CreateBill(ctx, &models.NewBill{
		CustomerID: cust.ID,
		BillDate:   time.Now().UTC(),
		Items: []models.NewBillItem{
			{ProductID: soap.ID, Quantity: 6},
			{ProductID: soap.ID, Quantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("CreateBill with exact fit: %v", err)
	}
	if got := productQty(t, db, soap.ID); got != 0 {
		t.Fatalf("quantity = %d, want 0", got)
	}
	if len(bill.Items) != 2 {
		t.Fatalf("bill has %d items, want 2", len(bill.Items))
	}
}

func TestCreateBillUnknownCustomerRejected(t *testing.T) {
	db, coord := setupCoordinator(t)
	ctx := context.Background()

	soap := seedProduct(t, db, "SOAP-1", 10, "50", "18")

	_, err := coord.CreateBill(ctx, &models.NewBill{
		CustomerID: 424242,
		BillDate:   time.Now().UTC(),
		Items:      []models.NewBillItem{{ProductID: soap.ID, Quantity: 1}},
	})
	var invalid *models.InvalidCustomerError
	if !errors.As(err, &invalid) {
		t.Fatalf("CreateBill err = %v, want InvalidCustomerError", err)
	}
	if invalid.CustomerID != 424242 {
		t.Fatalf("error customer id = %d, want 424242", invalid.CustomerID)
	}
	if got := productQty(t, db, soap.ID); got != 10 {
		t.Fatalf("quantity after rejected create = %d, want 10", got)
	}
	if n := billCount(t, db); n != 0 {
		t.Fatalf("%d bills persisted from a rejected create", n)
	}
}

func TestBulkDeleteBillsIsAllOrNothing(t *testing.T) {
	db, coord := setupCoordinator(t)
	ctx := context.Background()

	cust := seedCustomer(t, db, "CUST-1")
	soap := seedProduct(t, db, "SOAP-1", 100, "50", "18")

	makeBill := func(qty int) *models.Bill {
		b, err := coord.CreateBill(ctx, &models.NewBill{
			CustomerID: cust.ID,
			BillDate:   time.Now().UTC(),
			Items:      []models.NewBillItem{{ProductID: soap.ID, Quantity: qty}},
		})
		if err != nil {
			t.Fatalf("CreateBill(qty=%d): %v", qty, err)
		}
		return b
	}
	first := makeBill(10)
	second := makeBill(20)
	if got := productQty(t, db, soap.ID); got != 70 {
		t.Fatalf("quantity after two bills = %d, want 70", got)
	}

	// One unknown id must abort the whole batch.
	err := coord.BulkDeleteBills(ctx, []int{first.ID, 999999, second.ID})
	if !errors.Is(err, models.ErrRecordNotFound) {
		t.Fatalf("BulkDeleteBills with unknown id: err = %v, want ErrRecordNotFound", err)
	}
	if got := productQty(t, db, soap.ID); got != 70 {
		t.Fatalf("quantity after aborted bulk delete = %d, want 70", got)
	}
	if n := billCount(t, db); n != 2 {
		t.Fatalf("bill count after aborted bulk delete = %d, want 2", n)
	}

	if err := coord.BulkDeleteBills(ctx, []int{first.ID, second.ID}); err != nil {
		t.Fatalf("BulkDeleteBills: %v", err)
	}
	if got := productQty(t, db, soap.ID); got != 100 {
		t.Fatalf("quantity after bulk delete = %d, want 100", got)
	}
	if n := billCount(t, db); n != 0 {
		t.Fatalf("bill count after bulk delete = %d, want 0", n)
	}
}

func TestBillItemsSnapshotPriceAtSaleTime(t *testing.T) {
	db, coord := setupCoordinator(t)
	ctx := context.Background()

	cust := seedCustomer(t, db, "CUST-1")
	soap := seedProduct(t, db, "SOAP-1", 100, "50", "18")

	bill, err := coord.CreateBill(ctx, &models.NewBill{
		CustomerID: cust.ID,
		BillDate:   time.Now().UTC(),
		Items:      []models.NewBillItem{{ProductID: soap.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	// A later price change must not touch the stored bill.
	if err := db.Model(&models.Product{}).Where("id = ?", soap.ID).
		Updates(map[string]interface{}{"unit_price": "75", "product_name": "Renamed Soap"}).Error; err != nil {
		t.Fatalf("update product price: %v", err)
	}

	fetched, err := coord.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	if len(fetched.Items) != 1 {
		t.Fatalf("fetched bill has %d items, want 1", len(fetched.Items))
	}
	item := fetched.Items[0]
	if !item.UnitPrice.Equal(mustDecimal(t, "50")) {
		t.Fatalf("stored unit price = %s, want the sale-time 50", item.UnitPrice)
	}
	if item.ProductName != "Product SOAP-1" {
		t.Fatalf("stored product name = %q, want the sale-time name", item.ProductName)
	}
	if !fetched.TotalAmount.Equal(mustDecimal(t, "118")) {
		t.Fatalf("total = %s, want 118", fetched.TotalAmount)
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("backoffice-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=backoffice_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
