package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/events"
	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderService defines order operations. Every mutation is all-or-nothing.
type OrderService interface {
	PlaceOrder(ctx context.Context, cmd *models.PlaceOrder) (*models.Order, error)
	ReplaceOrderContents(ctx context.Context, cmd *models.ReplaceOrderContents) (*models.Order, error)
	GetOrder(ctx context.Context, userID string, orderID int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, cmd *models.UpdateOrderStatus) (*models.Order, error)
	UpdatePriority(ctx context.Context, cmd *models.UpdateOrderPriority) (*models.Order, error)
	AssignStaff(ctx context.Context, cmd *models.AssignStaff) (*models.Order, error)
}

type orderService struct {
	exec    *Executor
	effects *Effects
}

func NewOrderService(exec *Executor, effects *Effects) OrderService {
	if effects == nil {
		effects = NewEffects(nil, nil)
	}
	return &orderService{exec: exec, effects: effects}
}

func (s *orderService) PlaceOrder(ctx context.Context, cmd *models.PlaceOrder) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:       cmd.UserID,
		RestaurantID: cmd.RestaurantID,
		CheckID:      cmd.CheckID,
		TotalPrice:   models.OrderTotal(cmd.Lines),
		Status:       models.OrderPending,
		Priority:     models.OrderPriority(cmd.Priority),
	}

	err := s.exec.Run(ctx, "place_order", "order",
		func(ctx context.Context, tx pgx.Tx) error {
			if order.CheckID == nil {
				return nil
			}
			return requireOpenCheck(ctx, repositories.NewCheckRepo(tx), *order.CheckID, order.RestaurantID)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			return repositories.NewOrderRepo(tx).Create(ctx, order)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			lines, err := insertLines(ctx, repositories.NewOrderLineRepo(tx), order, cmd.Lines)
			order.Lines = lines
			return err
		},
		func(ctx context.Context, tx pgx.Tx) error {
			if cmd.Payment == nil {
				return nil
			}
			payment := &models.Payment{
				OrderID:   &order.ID,
				Amount:    cmd.Payment.Amount,
				Method:    models.PaymentMethod(cmd.Payment.Method),
				Reference: uuid.New(),
			}
			if err := repositories.NewPaymentRepo(tx).Create(ctx, payment); err != nil {
				return err
			}
			order.Payments = []*models.Payment{payment}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.effects.Committed(ctx, order.RestaurantID, events.New(events.OrderPlaced, map[string]any{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
		"check_id":      order.CheckID,
		"total_price":   order.TotalPrice,
		"lines":         len(order.Lines),
	}))
	return order, nil
}

func (s *orderService) ReplaceOrderContents(ctx context.Context, cmd *models.ReplaceOrderContents) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.exec.Run(ctx, "replace_order_contents", "order",
		func(ctx context.Context, tx pgx.Tx) error {
			var err error
			order, err = repositories.NewOrderRepo(tx).LockOwned(ctx, cmd.OrderID, cmd.UserID)
			if errors.Is(err, pgx.ErrNoRows) {
				return common.NotFound("order")
			}
			return err
		},
		func(ctx context.Context, tx pgx.Tx) error {
			if order.CheckID == nil {
				return nil
			}
			return requireOpenCheck(ctx, repositories.NewCheckRepo(tx), *order.CheckID, order.RestaurantID)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			return requireLinesOnOrderCheck(ctx, repositories.NewOrderLineRepo(tx), order)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			_, err := repositories.NewOrderLineRepo(tx).DeleteByOrder(ctx, order.ID)
			return err
		},
		func(ctx context.Context, tx pgx.Tx) error {
			lines, err := insertLines(ctx, repositories.NewOrderLineRepo(tx), order, cmd.Lines)
			order.Lines = lines
			return err
		},
		func(ctx context.Context, tx pgx.Tx) error {
			order.TotalPrice = models.OrderTotal(cmd.Lines)
			return repositories.NewOrderRepo(tx).UpdateTotal(ctx, order)
		},
	)
	if err != nil {
		return nil, err
	}

	s.effects.Committed(ctx, order.RestaurantID, events.New(events.OrderReplaced, map[string]any{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"lines":       len(order.Lines),
	}))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID string, orderID int64) (*models.Order, error) {
	db := s.exec.DB()
	order, err := repositories.NewOrderRepo(db).GetOwned(ctx, orderID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("order")
	}
	if err != nil {
		return nil, common.Persistence("get_order", err)
	}
	if order.Lines, err = repositories.NewOrderLineRepo(db).ListByOrder(ctx, order.ID); err != nil {
		return nil, common.Persistence("get_order", err)
	}
	if order.Payments, err = repositories.NewPaymentRepo(db).ListByOrder(ctx, order.ID); err != nil {
		return nil, common.Persistence("get_order", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, err
	}
	orders, err := repositories.NewOrderRepo(s.exec.DB()).ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, common.Persistence("list_orders", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, cmd *models.UpdateOrderStatus) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	next := models.OrderStatus(cmd.Status)

	var order *models.Order
	var previous models.OrderStatus
	err := s.exec.Run(ctx, "update_order_status", "order",
		func(ctx context.Context, tx pgx.Tx) error {
			current, err := repositories.NewOrderRepo(tx).Lock(ctx, cmd.OrderID)
			if errors.Is(err, pgx.ErrNoRows) {
				return common.NotFound("order")
			}
			if err != nil {
				return err
			}
			if !current.Status.CanTransitionTo(next) {
				return common.Validation("status", fmt.Sprintf("cannot move order from %s to %s", current.Status, next))
			}
			previous = current.Status
			return nil
		},
		func(ctx context.Context, tx pgx.Tx) error {
			var err error
			order, err = repositories.NewOrderRepo(tx).UpdateStatus(ctx, cmd.OrderID, next)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.effects.Committed(ctx, order.RestaurantID, events.New(events.OrderStatus, map[string]any{
		"order_id": order.ID,
		"from":     previous,
		"to":       order.Status,
	}))
	return order, nil
}

func (s *orderService) UpdatePriority(ctx context.Context, cmd *models.UpdateOrderPriority) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	order, err := repositories.NewOrderRepo(s.exec.DB()).UpdatePriority(ctx, cmd.OrderID, models.OrderPriority(cmd.Priority))
	if err != nil {
		return nil, common.Classify("update_order_priority", "order", err)
	}
	return order, nil
}

func (s *orderService) AssignStaff(ctx context.Context, cmd *models.AssignStaff) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	order, err := repositories.NewOrderRepo(s.exec.DB()).AssignStaff(ctx, cmd.OrderID, cmd.StaffID)
	if err != nil {
		return nil, common.Classify("assign_staff", "order", err)
	}
	return order, nil
}

// insertLines writes lines in request order; they inherit the order's check.
func insertLines(ctx context.Context, repo repositories.OrderLineRepository, order *models.Order, inputs []models.LineInput) ([]*models.OrderLine, error) {
	lines := make([]*models.OrderLine, 0, len(inputs))
	for i, in := range inputs {
		line := &models.OrderLine{
			OrderID:    order.ID,
			CheckID:    order.CheckID,
			MenuItemID: in.MenuItemID,
			Quantity:   in.Quantity,
			Price:      in.Price,
		}
		if err := repo.Create(ctx, line); err != nil {
			return lines, fmt.Errorf("insert line %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// requireOpenCheck locks the check and fails unless it is open and belongs to restaurantID.
func requireOpenCheck(ctx context.Context, repo repositories.CheckRepository, checkID, restaurantID int64) error {
	check, err := repo.Lock(ctx, checkID)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound("check")
	}
	if err != nil {
		return err
	}
	if check.RestaurantID != restaurantID {
		return common.Validation("check_id", "check belongs to another restaurant")
	}
	if check.Status != models.CheckOpen {
		return common.Validation("check_id", fmt.Sprintf("check is %s", check.Status))
	}
	return nil
}

// requireLinesOnOrderCheck fails when a split has moved any of the order's lines
// off the order's own check. Replacing them would rewrite the other check.
func requireLinesOnOrderCheck(ctx context.Context, repo repositories.OrderLineRepository, order *models.Order) error {
	checkIDs, err := repo.CheckIDsByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, id := range checkIDs {
		if order.CheckID == nil || id != *order.CheckID {
			return common.Validation("lines", fmt.Sprintf("order has lines on check %d and cannot be replaced", id))
		}
	}
	return nil
}
