package inventory

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/shopspring/decimal"
)

// Service exposes product administration and supplier restocking.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input models.ProductCreate) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id int, input models.ProductUpdate) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id int) error
	LowStock(ctx context.Context) ([]ProductDTO, error)
	Summary(ctx context.Context) (*Summary, error)
	ActiveSuppliers(ctx context.Context) ([]models.SupplierBrief, error)
	Reorder(ctx context.Context, input models.SupplierOrderCreate) (*models.SupplierOrder, error)
	PlanReorder(ctx context.Context, overrides map[int]int) (*ReorderPlan, error)
	SubmitBulkReorder(ctx context.Context, overrides map[int]int, employeeID *int) (*BulkReorderResult, error)
}

type backend interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductCreate) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, in models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListActiveSuppliers(ctx context.Context) ([]models.SupplierBrief, error)
	CreateSupplierOrder(ctx context.Context, in models.SupplierOrderCreate) (*models.SupplierOrder, error)
	CreateBulkSupplierOrder(ctx context.Context, in models.BulkSupplierOrderCreate) ([]models.SupplierOrder, error)
}

type service struct {
	backend  backend
	validate *validator.Validate
	logg     *logger.Logger
}

func NewService(b backend, logg *logger.Logger) (Service, error) {
	if b == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: b, validate: validator.New(), logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(products), nil
}

func (s *service) GetProduct(ctx context.Context, id int) (*ProductDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	p, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*p)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, input models.ProductCreate) (*ProductDTO, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	if err := checkPrices(&input.SellingPrice, &input.PurchasePrice); err != nil {
		return nil, err
	}
	p, err := s.backend.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", p.ID), "product created")
	dto := toDTO(*p)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int, input models.ProductUpdate) (*ProductDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	if err := checkPrices(input.SellingPrice, input.PurchasePrice); err != nil {
		return nil, err
	}
	p, err := s.backend.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*p)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product deleted")
	return nil
}

// LowStock returns products whose stock fell below their own reorder level.
func (s *service) LowStock(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(FilterLowStock(products)), nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(products), nil
}

func (s *service) ActiveSuppliers(ctx context.Context) ([]models.SupplierBrief, error) {
	return s.backend.ListActiveSuppliers(ctx)
}

// Reorder places a supplier order for a single product.
func (s *service) Reorder(ctx context.Context, input models.SupplierOrderCreate) (*models.SupplierOrder, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	order, err := s.backend.CreateSupplierOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"supplier_order_id": order.ID,
		"product_id":        input.ProductID,
		"quantity":          input.Quantity,
	}), "supplier order created")
	return order, nil
}

func (s *service) PlanReorder(ctx context.Context, overrides map[int]int) (*ReorderPlan, error) {
	if err := checkOverrides(overrides); err != nil {
		return nil, err
	}
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	plan := BuildReorderPlan(products, overrides)
	return &plan, nil
}

// SubmitBulkReorder rebuilds the plan from current stock and sends every
// non-zero line in one bulk supplier order call.
func (s *service) SubmitBulkReorder(ctx context.Context, overrides map[int]int, employeeID *int) (*BulkReorderResult, error) {
	plan, err := s.PlanReorder(ctx, overrides)
	if err != nil {
		return nil, err
	}
	items := plan.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "enter a quantity for at least one product")
	}
	orders, err := s.backend.CreateBulkSupplierOrder(ctx, models.BulkSupplierOrderCreate{Items: items, EmployeeID: employeeID})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"lines":          len(items),
		"orders":         len(orders),
		"estimated_cost": plan.EstimatedCost.StringFixed(2),
	}), "bulk supplier order created")
	return &BulkReorderResult{Plan: *plan, Orders: orders}, nil
}

// FilterLowStock keeps products with stock below their reorder level.
func FilterLowStock(products []models.Product) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}

// BuildReorderPlan defaults each low-stock product to its reorder amount.
// overrides replaces the quantity for a product id; zero skips it.
func BuildReorderPlan(products []models.Product, overrides map[int]int) ReorderPlan {
	plan := ReorderPlan{Lines: []ReorderLine{}, EstimatedCost: decimal.Zero}
	for _, p := range FilterLowStock(products) {
		qty := p.ReorderAmount
		if override, ok := overrides[p.ID]; ok {
			qty = override
		}
		line := ReorderLine{
			ProductID:    p.ID,
			ProductName:  p.Name,
			SupplierID:   p.SupplierID,
			SupplierName: p.SupplierName,
			Stock:        p.Stock,
			ReorderLevel: p.ReorderLevel,
			Quantity:     qty,
			UnitCost:     p.PurchasePrice,
			LineCost:     p.PurchasePrice.Mul(decimal.NewFromInt(int64(qty))),
		}
		plan.Lines = append(plan.Lines, line)
		if qty > 0 {
			plan.OrderedLines++
			plan.TotalUnits += qty
			plan.EstimatedCost = plan.EstimatedCost.Add(line.LineCost)
		}
	}
	return plan
}

func Summarize(products []models.Product) *Summary {
	sum := &Summary{TotalProducts: len(products), InventoryValue: decimal.Zero}
	for _, p := range products {
		sum.TotalUnits += p.Stock
		if p.IsLowStock() {
			sum.LowStock++
		}
		if p.Stock <= 0 {
			sum.OutOfStock++
		}
		sum.InventoryValue = sum.InventoryValue.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return sum
}

func checkOverrides(overrides map[int]int) error {
	for id, qty := range overrides {
		if qty < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "reorder quantities cannot be negative").
				WithDetail("product_id", id)
		}
	}
	return nil
}

func checkPrices(selling, purchase *decimal.Decimal) error {
	details := map[string]string{}
	if selling != nil && !selling.IsPositive() {
		details["selling_price"] = "must be greater than 0"
	}
	if purchase != nil && !purchase.IsPositive() {
		details["purchase_price"] = "must be greater than 0"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product prices").WithDetails(details)
	}
	return nil
}

func validationError(err error) error {
	details := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid input").WithDetails(details)
}
