package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/lcorp/storefront/pkg/enums"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/lcorp/storefront/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

// summaryFanout bounds concurrent payment summary lookups per history page.
const summaryFanout = 4

// Service runs supplier-order and customer-order workflows against the backend.
type Service interface {
	ListSupplierOrders(ctx context.Context, filter ListFilter) (pagination.Page[models.SupplierOrder], error)
	PendingSupplierOrders(ctx context.Context) ([]models.SupplierOrder, error)
	GetSupplierOrder(ctx context.Context, id int) (*models.SupplierOrder, error)
	ArriveSupplierOrder(ctx context.Context, id int) (*models.SupplierOrder, error)
	CompleteSupplierOrder(ctx context.Context, id int) (*models.SupplierOrderCompletion, error)
	CancelSupplierOrder(ctx context.Context, id int) error

	ListCustomerOrders(ctx context.Context, filter ListFilter) (pagination.Page[models.CustomerOrderListItem], error)
	PendingCustomerOrders(ctx context.Context) ([]models.CustomerOrder, error)
	GetCustomerOrder(ctx context.Context, id int) (*models.CustomerOrder, error)
	ProcessCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error)
	CompleteCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error)
	CancelCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error)
	AssignEmployee(ctx context.Context, orderID, employeeID int) (*models.ActionResult, error)
	AssignToSelf(ctx context.Context, orderID, userID int) (*models.ActionResult, error)
	OrderPayments(ctx context.Context, orderID int) (*OrderPayments, error)
	ListPayments(ctx context.Context, page pagination.Params) (pagination.Page[models.Payment], error)

	TransactionHistory(ctx context.Context, userID int, page pagination.Params) (pagination.Page[Transaction], error)
	Transaction(ctx context.Context, userID, orderID int) (*TransactionDetail, error)
}

type backend interface {
	ListSupplierOrders(ctx context.Context) ([]models.SupplierOrder, error)
	ListPendingSupplierOrders(ctx context.Context) ([]models.SupplierOrder, error)
	GetSupplierOrder(ctx context.Context, id int) (*models.SupplierOrder, error)
	MarkSupplierOrderArrived(ctx context.Context, id int) error
	CompleteSupplierOrder(ctx context.Context, id int) (*models.SupplierOrderCompletion, error)
	CancelSupplierOrder(ctx context.Context, id int) error

	ListCustomerOrders(ctx context.Context) ([]models.CustomerOrderListItem, error)
	ListOrdersByCustomer(ctx context.Context, customerID int) ([]models.CustomerOrderListItem, error)
	ListPendingCustomerOrders(ctx context.Context) ([]models.CustomerOrder, error)
	GetCustomerOrder(ctx context.Context, id int) (*models.CustomerOrder, error)
	ProcessCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error)
	CompleteCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error)
	CancelCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error)
	AssignEmployee(ctx context.Context, orderID, employeeID int) (*models.ActionResult, error)

	ListPayments(ctx context.Context) ([]models.Payment, error)
	ListPaymentsForOrder(ctx context.Context, orderID int) ([]models.Payment, error)
	GetPaymentSummary(ctx context.Context, orderID int) (*models.PaymentSummary, error)

	GetCustomerByUserID(ctx context.Context, userID int) (*models.Customer, error)
	GetEmployeeByUserID(ctx context.Context, userID int) (*models.Employee, error)
}

type service struct {
	backend backend
	logg    *logger.Logger
}

func NewService(b backend, logg *logger.Logger) (Service, error) {
	if b == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: b, logg: logg}, nil
}

func (s *service) ListSupplierOrders(ctx context.Context, filter ListFilter) (pagination.Page[models.SupplierOrder], error) {
	var status enums.SupplierOrderStatus
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		parsed, err := enums.ParseSupplierOrderStatus(raw)
		if err != nil {
			return pagination.Page[models.SupplierOrder]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		status = parsed
	}
	all, err := s.backend.ListSupplierOrders(ctx)
	if err != nil {
		return pagination.Page[models.SupplierOrder]{}, err
	}
	if status != "" {
		filtered := make([]models.SupplierOrder, 0, len(all))
		for _, o := range all {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		all = filtered
	}
	return page(all, filter.Page, supplierOrderCursor)
}

func (s *service) PendingSupplierOrders(ctx context.Context) ([]models.SupplierOrder, error) {
	return s.backend.ListPendingSupplierOrders(ctx)
}

func (s *service) GetSupplierOrder(ctx context.Context, id int) (*models.SupplierOrder, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.backend.GetSupplierOrder(ctx, id)
}

// ArriveSupplierOrder moves a processing order to arrived and returns the
// refreshed record.
func (s *service) ArriveSupplierOrder(ctx context.Context, id int) (*models.SupplierOrder, error) {
	order, err := s.GetSupplierOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanArrive() {
		return nil, supplierConflict(order, "arrive")
	}
	if err := s.backend.MarkSupplierOrderArrived(ctx, id); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "supplier_order_id", id), "supplier order arrived")
	return s.backend.GetSupplierOrder(ctx, id)
}

// CompleteSupplierOrder books an arrived order's stock.
func (s *service) CompleteSupplierOrder(ctx context.Context, id int) (*models.SupplierOrderCompletion, error) {
	order, err := s.GetSupplierOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanComplete() {
		return nil, supplierConflict(order, "complete")
	}
	res, err := s.backend.CompleteSupplierOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"supplier_order_id": id,
		"stock_updates":     len(res.StockUpdates),
	}), "supplier order completed")
	return res, nil
}

func (s *service) CancelSupplierOrder(ctx context.Context, id int) error {
	order, err := s.GetSupplierOrder(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.CanCancel() {
		return supplierConflict(order, "cancel")
	}
	if err := s.backend.CancelSupplierOrder(ctx, id); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "supplier_order_id", id), "supplier order cancelled")
	return nil
}

func (s *service) ListCustomerOrders(ctx context.Context, filter ListFilter) (pagination.Page[models.CustomerOrderListItem], error) {
	var status enums.CustomerOrderStatus
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		parsed, err := enums.ParseCustomerOrderStatus(raw)
		if err != nil {
			return pagination.Page[models.CustomerOrderListItem]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		status = parsed
	}
	all, err := s.backend.ListCustomerOrders(ctx)
	if err != nil {
		return pagination.Page[models.CustomerOrderListItem]{}, err
	}
	assignment := strings.ToLower(strings.TrimSpace(filter.Assignment))
	switch assignment {
	case "", AssignmentAll, AssignmentAssigned, AssignmentUnassigned:
	default:
		return pagination.Page[models.CustomerOrderListItem]{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid assignment filter").
			WithDetail("assignment", filter.Assignment)
	}
	filtered := make([]models.CustomerOrderListItem, 0, len(all))
	for _, o := range all {
		if status != "" && o.Status != status {
			continue
		}
		if assignment == AssignmentAssigned && o.EmployeeID == nil {
			continue
		}
		if assignment == AssignmentUnassigned && o.EmployeeID != nil {
			continue
		}
		filtered = append(filtered, o)
	}
	return page(filtered, filter.Page, customerOrderCursor)
}

func (s *service) PendingCustomerOrders(ctx context.Context) ([]models.CustomerOrder, error) {
	return s.backend.ListPendingCustomerOrders(ctx)
}

func (s *service) GetCustomerOrder(ctx context.Context, id int) (*models.CustomerOrder, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.backend.GetCustomerOrder(ctx, id)
}

func (s *service) ProcessCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error) {
	return s.transition(ctx, id, enums.CustomerOrderStatusProcessing, s.backend.ProcessCustomerOrder)
}

func (s *service) CompleteCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error) {
	return s.transition(ctx, id, enums.CustomerOrderStatusCompleted, s.backend.CompleteCustomerOrder)
}

func (s *service) CancelCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error) {
	return s.transition(ctx, id, enums.CustomerOrderStatusCancelled, s.backend.CancelCustomerOrder)
}

// AssignEmployee hands an open order to employeeID.
func (s *service) AssignEmployee(ctx context.Context, orderID, employeeID int) (*models.ActionResult, error) {
	if err := checkID(employeeID); err != nil {
		return nil, err
	}
	order, err := s.GetCustomerOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending or processing orders can be assigned").
			WithDetails(map[string]any{"order_id": order.ID, "status": order.Status})
	}
	res, err := s.backend.AssignEmployee(ctx, orderID, employeeID)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "employee_id": employeeID}), "order assigned")
	return res, nil
}

// AssignToSelf assigns the order to the employee record of the signed-in
// user.
func (s *service) AssignToSelf(ctx context.Context, orderID, userID int) (*models.ActionResult, error) {
	employee, err := s.backend.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "no employee profile is linked to this account")
		}
		return nil, err
	}
	return s.AssignEmployee(ctx, orderID, employee.ID)
}

func (s *service) OrderPayments(ctx context.Context, orderID int) (*OrderPayments, error) {
	if err := checkID(orderID); err != nil {
		return nil, err
	}
	payments, err := s.backend.ListPaymentsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	summary, err := s.backend.GetPaymentSummary(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderPayments{Payments: payments, Summary: summary}, nil
}

func (s *service) ListPayments(ctx context.Context, params pagination.Params) (pagination.Page[models.Payment], error) {
	payments, err := s.backend.ListPayments(ctx)
	if err != nil {
		return pagination.Page[models.Payment]{}, err
	}
	return page(payments, params, paymentCursor)
}

// TransactionHistory lists the orders of the customer linked to userID, each
// with its payment summary. A summary that cannot be loaded is left empty
// rather than failing the page.
func (s *service) TransactionHistory(ctx context.Context, userID int, params pagination.Params) (pagination.Page[Transaction], error) {
	customer, err := s.customerFor(ctx, userID)
	if err != nil {
		return pagination.Page[Transaction]{}, err
	}
	rows, err := s.backend.ListOrdersByCustomer(ctx, customer.ID)
	if err != nil {
		return pagination.Page[Transaction]{}, err
	}
	txns := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, Transaction{CustomerOrderListItem: row})
	}
	result, err := page(txns, params, transactionCursor)
	if err != nil {
		return result, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryFanout)
	for i := range result.Items {
		txn := &result.Items[i]
		g.Go(func() error {
			summary, err := s.backend.GetPaymentSummary(gctx, txn.ID)
			if err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "order_id", txn.ID), "payment summary unavailable")
				return nil
			}
			txn.Payment = summary
			return nil
		})
	}
	_ = g.Wait()
	return result, nil
}

// Transaction returns one order of the customer linked to userID. Orders of
// other customers read as not found.
func (s *service) Transaction(ctx context.Context, userID, orderID int) (*TransactionDetail, error) {
	customer, err := s.customerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	order, err := s.GetCustomerOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customer.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	payments, err := s.backend.ListPaymentsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	summary, err := s.backend.GetPaymentSummary(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &TransactionDetail{Order: order, Payments: payments, Summary: summary}, nil
}

func (s *service) customerFor(ctx context.Context, userID int) (*models.Customer, error) {
	customer, err := s.backend.GetCustomerByUserID(ctx, userID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no customer profile is linked to this account")
		}
		return nil, err
	}
	return customer, nil
}

// transition checks the local state machine before asking the backend to
// move order id to next.
func (s *service) transition(ctx context.Context, id int, next enums.CustomerOrderStatus, call func(context.Context, int) (*models.ActionResult, error)) (*models.ActionResult, error) {
	order, err := s.GetCustomerOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order cannot move from %s to %s", order.Status, next)).
			WithDetails(map[string]any{"order_id": order.ID, "status": order.Status, "target": next})
	}
	res, err := call(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": id, "status": next}), "customer order updated")
	return res, nil
}

func supplierConflict(order *models.SupplierOrder, action string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s a supplier order that is %s", action, order.Status)).
		WithDetails(map[string]any{"supplier_order_id": order.ID, "status": order.Status, "action": action})
}

func checkID(id int) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "id must be positive")
	}
	return nil
}

func page[T any](items []T, params pagination.Params, key func(T) pagination.Cursor) (pagination.Page[T], error) {
	result, err := pagination.Paginate(items, params, key)
	if err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return result, nil
}
