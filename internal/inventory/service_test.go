package inventory

import (
	"context"
	"testing"

	"github.com/lcorp/storefront/pkg/enums"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/shopspring/decimal"
)

type stubBackend struct {
	products []models.Product
	bulk     []models.BulkSupplierOrderCreate
	single   []models.SupplierOrderCreate
	created  []models.ProductCreate
	listErr  error
}

func (s *stubBackend) ListProducts(context.Context) ([]models.Product, error) {
	return s.products, s.listErr
}

func (s *stubBackend) GetProduct(_ context.Context, id int) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
}

func (s *stubBackend) CreateProduct(_ context.Context, in models.ProductCreate) (*models.Product, error) {
	s.created = append(s.created, in)
	return &models.Product{ID: 10, Name: in.Name, Stock: in.Stock, ReorderLevel: 50}, nil
}

func (s *stubBackend) UpdateProduct(_ context.Context, id int, _ models.ProductUpdate) (*models.Product, error) {
	return &models.Product{ID: id, Stock: 0, ReorderLevel: 50}, nil
}

func (s *stubBackend) DeleteProduct(context.Context, int) error { return nil }

func (s *stubBackend) ListActiveSuppliers(context.Context) ([]models.SupplierBrief, error) {
	return []models.SupplierBrief{{ID: 1, Code: "LC"}}, nil
}

func (s *stubBackend) CreateSupplierOrder(_ context.Context, in models.SupplierOrderCreate) (*models.SupplierOrder, error) {
	s.single = append(s.single, in)
	return &models.SupplierOrder{ID: 5, Status: enums.SupplierOrderStatusProcessing}, nil
}

func (s *stubBackend) CreateBulkSupplierOrder(_ context.Context, in models.BulkSupplierOrderCreate) ([]models.SupplierOrder, error) {
	s.bulk = append(s.bulk, in)
	return []models.SupplierOrder{{ID: 6}, {ID: 7}}, nil
}

func stockedProduct(id, stock, level, amount int, cost string) models.Product {
	return models.Product{
		ID:            id,
		Name:          "item",
		Stock:         stock,
		ReorderLevel:  level,
		ReorderAmount: amount,
		PurchasePrice: decimal.RequireFromString(cost),
		SellingPrice:  decimal.RequireFromString("99"),
	}
}

func newTestService(t *testing.T, b *stubBackend) Service {
	t.Helper()
	svc, err := NewService(b, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestStockStatusBadges(t *testing.T) {
	cases := []struct {
		stock int
		want  enums.StockStatus
	}{
		{0, enums.StockStatusOutOfStock},
		{-3, enums.StockStatusOutOfStock},
		{1, enums.StockStatusRestockNeeded},
		{49, enums.StockStatusRestockNeeded},
		{50, enums.StockStatusInStock},
	}
	for _, tc := range cases {
		if got := toDTO(models.Product{Stock: tc.stock}).StockStatus; got != tc.want {
			t.Fatalf("stock %d: expected %q got %q", tc.stock, tc.want, got)
		}
	}
}

func TestLowStockUsesProductReorderLevel(t *testing.T) {
	b := &stubBackend{products: []models.Product{
		stockedProduct(1, 10, 20, 100, "1"),
		stockedProduct(2, 20, 20, 100, "1"),
		stockedProduct(3, 60, 80, 100, "1"),
	}}
	got, err := newTestService(t, b).LowStock(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected low stock set: %+v", got)
	}
	if got[1].StockStatus != enums.StockStatusInStock || !got[1].LowStock {
		t.Fatalf("product 3 should be low stock with an IN STOCK badge: %+v", got[1])
	}
}

func TestBuildReorderPlan(t *testing.T) {
	products := []models.Product{
		stockedProduct(1, 5, 50, 100, "2.50"),
		stockedProduct(2, 0, 50, 40, "10.00"),
		stockedProduct(3, 10, 50, 30, "1.00"),
		stockedProduct(4, 500, 50, 100, "3.00"),
	}
	plan := BuildReorderPlan(products, map[int]int{2: 5, 3: 0})

	if len(plan.Lines) != 3 {
		t.Fatalf("expected 3 low-stock lines, got %d", len(plan.Lines))
	}
	if plan.OrderedLines != 2 || plan.TotalUnits != 105 {
		t.Fatalf("unexpected counts: %+v", plan)
	}
	// 100 * 2.50 + 5 * 10.00
	if plan.EstimatedCost.StringFixed(2) != "300.00" {
		t.Fatalf("expected estimated cost 300.00, got %s", plan.EstimatedCost.StringFixed(2))
	}
	items := plan.Items()
	if len(items) != 2 || items[0].ProductID != 1 || items[1].Quantity != 5 {
		t.Fatalf("unexpected submitted items: %+v", items)
	}
}

func TestSubmitBulkReorder(t *testing.T) {
	b := &stubBackend{products: []models.Product{stockedProduct(1, 5, 50, 100, "2.50")}}
	svc := newTestService(t, b)
	employee := 3

	res, err := svc.SubmitBulkReorder(context.Background(), nil, &employee)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(res.Orders) != 2 || len(b.bulk) != 1 {
		t.Fatalf("expected one bulk call, got %+v", b.bulk)
	}
	if *b.bulk[0].EmployeeID != 3 || b.bulk[0].Items[0].Quantity != 100 {
		t.Fatalf("unexpected bulk payload: %+v", b.bulk[0])
	}

	_, err = svc.SubmitBulkReorder(context.Background(), map[int]int{1: 0}, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty plan, got %v", err)
	}
	_, err = svc.SubmitBulkReorder(context.Background(), map[int]int{1: -1}, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for negative quantity, got %v", err)
	}
	if len(b.bulk) != 1 {
		t.Fatalf("rejected plans must not reach the backend")
	}
}

func TestReorderValidatesInput(t *testing.T) {
	b := &stubBackend{}
	svc := newTestService(t, b)

	if _, err := svc.Reorder(context.Background(), models.SupplierOrderCreate{ProductID: 1}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Reorder(context.Background(), models.SupplierOrderCreate{ProductID: 1, Quantity: 12}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(b.single) != 1 {
		t.Fatalf("expected one backend call, got %d", len(b.single))
	}
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	b := &stubBackend{}
	svc := newTestService(t, b)
	input := models.ProductCreate{
		Name:          "Lamp",
		SupplierID:    1,
		Category:      "Home",
		SellingPrice:  decimal.Zero,
		PurchasePrice: decimal.RequireFromString("3"),
	}
	_, err := svc.CreateProduct(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := typed.Details().(map[string]string)["selling_price"]; !ok {
		t.Fatalf("expected selling_price detail, got %+v", typed.Details())
	}

	input.SellingPrice = decimal.RequireFromString("5")
	if _, err := svc.CreateProduct(context.Background(), input); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(b.created) != 1 {
		t.Fatalf("expected product to be created")
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]models.Product{
		stockedProduct(1, 0, 50, 100, "2"),
		stockedProduct(2, 10, 5, 100, "3"),
	})
	if sum.TotalProducts != 2 || sum.LowStock != 1 || sum.OutOfStock != 1 || sum.TotalUnits != 10 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.InventoryValue.StringFixed(2) != "30.00" {
		t.Fatalf("unexpected inventory value %s", sum.InventoryValue)
	}
}
