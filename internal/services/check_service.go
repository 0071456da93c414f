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

// CheckService manages the Open → Closed → Paid lifecycle of checks.
type CheckService interface {
	OpenCheck(ctx context.Context, cmd *models.OpenCheck) (*models.Check, error)
	GetCheck(ctx context.Context, checkID int64) (*models.Check, error)
	ListChecks(ctx context.Context, restaurantID int64, status *models.CheckStatus, limit, offset int) ([]*models.Check, error)
	SplitCheck(ctx context.Context, cmd *models.SplitCheck) (*models.SplitResult, error)
	RecordPayment(ctx context.Context, cmd *models.RecordCheckPayment) (*models.Check, *models.Payment, error)
	SettleCheck(ctx context.Context, cmd *models.SettleCheck) (*models.Check, error)
}

type checkService struct {
	exec    *Executor
	effects *Effects
}

func NewCheckService(exec *Executor, effects *Effects) CheckService {
	if effects == nil {
		effects = NewEffects(nil, nil)
	}
	return &checkService{exec: exec, effects: effects}
}

func (s *checkService) OpenCheck(ctx context.Context, cmd *models.OpenCheck) (*models.Check, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	check := &models.Check{
		RestaurantID: cmd.RestaurantID,
		TableLabel:   cmd.TableLabel,
		Status:       models.CheckOpen,
		Lines:        []*models.OrderLine{},
	}
	if err := repositories.NewCheckRepo(s.exec.DB()).Create(ctx, check); err != nil {
		return nil, common.Classify("open_check", "check", err)
	}
	return check, nil
}

func (s *checkService) GetCheck(ctx context.Context, checkID int64) (*models.Check, error) {
	db := s.exec.DB()
	check, err := repositories.NewCheckRepo(db).GetByID(ctx, checkID)
	if err != nil {
		return nil, common.Classify("get_check", "check", err)
	}
	if err := loadLines(ctx, repositories.NewOrderLineRepo(db), check); err != nil {
		return nil, common.Persistence("get_check", err)
	}
	return check, nil
}

func (s *checkService) ListChecks(ctx context.Context, restaurantID int64, status *models.CheckStatus, limit, offset int) ([]*models.Check, error) {
	if err := common.ValidatePositiveID(restaurantID, "restaurant_id"); err != nil {
		return nil, err
	}
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, err
	}
	db := s.exec.DB()
	checks, err := repositories.NewCheckRepo(db).ListByRestaurant(ctx, restaurantID, status, limit, offset)
	if err != nil {
		return nil, common.Persistence("list_checks", err)
	}
	if len(checks) == 0 {
		return checks, nil
	}

	ids := make([]int64, len(checks))
	byID := make(map[int64]*models.Check, len(checks))
	for i, check := range checks {
		ids[i] = check.ID
		check.Lines = []*models.OrderLine{}
		byID[check.ID] = check
	}
	lines, err := repositories.NewOrderLineRepo(db).ListByChecks(ctx, ids)
	if err != nil {
		return nil, common.Persistence("list_checks", err)
	}
	for _, line := range lines {
		if line.CheckID == nil {
			continue
		}
		if check, ok := byID[*line.CheckID]; ok {
			check.Lines = append(check.Lines, line)
		}
	}
	for _, check := range checks {
		check.Total = models.LinesTotal(check.Lines)
	}
	return checks, nil
}

// SplitCheck moves the requested lines of an open check onto a new check.
// Either every listed line moves or none does.
func (s *checkService) SplitCheck(ctx context.Context, cmd *models.SplitCheck) (*models.SplitResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var source, split *models.Check
	err := s.exec.Run(ctx, "split_check", "check",
		func(ctx context.Context, tx pgx.Tx) error {
			var err error
			source, err = lockCheck(ctx, repositories.NewCheckRepo(tx), cmd.SourceCheckID, models.CheckOpen)
			return err
		},
		func(ctx context.Context, tx pgx.Tx) error {
			split = &models.Check{
				RestaurantID: source.RestaurantID,
				TableLabel:   source.TableLabel,
				Status:       models.CheckOpen,
			}
			return repositories.NewCheckRepo(tx).Create(ctx, split)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			moved, err := repositories.NewOrderLineRepo(tx).MoveToCheck(ctx, source.ID, split.ID, cmd.LineIDs)
			if err != nil {
				return err
			}
			if moved != int64(len(cmd.LineIDs)) {
				return &common.Error{
					Kind:    common.KindNotFound,
					Message: fmt.Sprintf("%d of %d lines not found on check %d", int64(len(cmd.LineIDs))-moved, len(cmd.LineIDs), source.ID),
				}
			}
			return nil
		},
		func(ctx context.Context, tx pgx.Tx) error {
			lines := repositories.NewOrderLineRepo(tx)
			if err := loadLines(ctx, lines, source); err != nil {
				return err
			}
			return loadLines(ctx, lines, split)
		},
	)
	if err != nil {
		return nil, err
	}

	s.effects.Committed(ctx, source.RestaurantID, events.New(events.CheckSplit, map[string]any{
		"source_check_id": source.ID,
		"split_check_id":  split.ID,
		"line_ids":        cmd.LineIDs,
	}))
	return &models.SplitResult{Source: source, Split: split}, nil
}

// RecordPayment records a payment against an open check and closes it.
func (s *checkService) RecordPayment(ctx context.Context, cmd *models.RecordCheckPayment) (*models.Check, *models.Payment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	var check *models.Check
	payment := &models.Payment{
		CheckID:   &cmd.CheckID,
		Amount:    cmd.Amount,
		Method:    models.PaymentMethod(cmd.Method),
		Reference: uuid.New(),
	}
	err := s.exec.Run(ctx, "record_check_payment", "check",
		func(ctx context.Context, tx pgx.Tx) error {
			var err error
			check, err = lockCheck(ctx, repositories.NewCheckRepo(tx), cmd.CheckID, models.CheckOpen)
			return err
		},
		func(ctx context.Context, tx pgx.Tx) error {
			return repositories.NewPaymentRepo(tx).Create(ctx, payment)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			check.Status = models.CheckClosed
			if cmd.Tip != nil {
				check.TipAmount = cmd.Tip
			}
			return repositories.NewCheckRepo(tx).UpdateStatus(ctx, check)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			return loadLines(ctx, repositories.NewOrderLineRepo(tx), check)
		},
	)
	if err != nil {
		return nil, nil, err
	}

	s.effects.Committed(ctx, check.RestaurantID, events.New(events.CheckClosed, map[string]any{
		"check_id": check.ID,
		"amount":   payment.Amount,
		"method":   payment.Method,
	}))
	return check, payment, nil
}

// SettleCheck marks a closed check as paid.
func (s *checkService) SettleCheck(ctx context.Context, cmd *models.SettleCheck) (*models.Check, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var check *models.Check
	err := s.exec.Run(ctx, "settle_check", "check",
		func(ctx context.Context, tx pgx.Tx) error {
			var err error
			check, err = lockCheck(ctx, repositories.NewCheckRepo(tx), cmd.CheckID, models.CheckClosed)
			return err
		},
		func(ctx context.Context, tx pgx.Tx) error {
			check.Status = models.CheckPaid
			if cmd.Tip != nil {
				check.TipAmount = cmd.Tip
			}
			return repositories.NewCheckRepo(tx).UpdateStatus(ctx, check)
		},
		func(ctx context.Context, tx pgx.Tx) error {
			return loadLines(ctx, repositories.NewOrderLineRepo(tx), check)
		},
	)
	if err != nil {
		return nil, err
	}

	s.effects.Committed(ctx, check.RestaurantID, events.New(events.CheckPaid, map[string]any{
		"check_id":   check.ID,
		"total":      check.Total,
		"tip_amount": check.TipAmount,
	}))
	return check, nil
}

func lockCheck(ctx context.Context, repo repositories.CheckRepository, checkID int64, want models.CheckStatus) (*models.Check, error) {
	check, err := repo.Lock(ctx, checkID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("check")
	}
	if err != nil {
		return nil, err
	}
	if check.Status != want {
		return nil, common.Validation("status", fmt.Sprintf("check %d is %s, expected %s", check.ID, check.Status, want))
	}
	return check, nil
}

func loadLines(ctx context.Context, repo repositories.OrderLineRepository, check *models.Check) error {
	lines, err := repo.ListByCheck(ctx, check.ID)
	if err != nil {
		return err
	}
	check.Lines = lines
	check.Total = models.LinesTotal(lines)
	return nil
}
