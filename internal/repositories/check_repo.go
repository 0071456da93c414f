package repositories

import (
	"context"
	"fmt"

	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

type CheckRepository interface {
	Create(ctx context.Context, check *models.Check) error
	GetByID(ctx context.Context, id int64) (*models.Check, error)
	Lock(ctx context.Context, id int64) (*models.Check, error)
	UpdateStatus(ctx context.Context, check *models.Check) error
	ListByRestaurant(ctx context.Context, restaurantID int64, status *models.CheckStatus, limit, offset int) ([]*models.Check, error)
}

const checkColumns = `id, restaurant_id, table_label, status, tip_amount, created_at, updated_at`

type checkRepo struct {
	db database.DBTX
}

func NewCheckRepo(db database.DBTX) CheckRepository {
	return &checkRepo{db: db}
}

func scanCheck(row pgx.Row) (*models.Check, error) {
	check := &models.Check{}
	var status string
	err := row.Scan(&check.ID, &check.RestaurantID, &check.TableLabel, &status, &check.TipAmount, &check.CreatedAt, &check.UpdatedAt)
	if err != nil {
		return nil, err
	}
	check.Status = models.CheckStatus(status)
	return check, nil
}

func (r *checkRepo) Create(ctx context.Context, check *models.Check) error {
	query := `
		INSERT INTO checks (restaurant_id, table_label, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, check.RestaurantID, check.TableLabel, string(check.Status)).
		Scan(&check.ID, &check.CreatedAt, &check.UpdatedAt)
}

func (r *checkRepo) GetByID(ctx context.Context, id int64) (*models.Check, error) {
	return scanCheck(r.db.QueryRow(ctx, `SELECT `+checkColumns+` FROM checks WHERE id = $1`, id))
}

// Lock reads a check and row-locks it until the transaction ends.
func (r *checkRepo) Lock(ctx context.Context, id int64) (*models.Check, error) {
	return scanCheck(r.db.QueryRow(ctx, `SELECT `+checkColumns+` FROM checks WHERE id = $1 FOR UPDATE`, id))
}

// UpdateStatus persists check.Status and check.TipAmount.
func (r *checkRepo) UpdateStatus(ctx context.Context, check *models.Check) error {
	query := `
		UPDATE checks
		SET status = $1, tip_amount = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	return r.db.QueryRow(ctx, query, string(check.Status), check.TipAmount, check.ID).Scan(&check.UpdatedAt)
}

func (r *checkRepo) ListByRestaurant(ctx context.Context, restaurantID int64, status *models.CheckStatus, limit, offset int) ([]*models.Check, error) {
	query := `SELECT ` + checkColumns + ` FROM checks WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := []*models.Check{}
	for rows.Next() {
		check, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}
