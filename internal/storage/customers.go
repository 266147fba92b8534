package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
)

type CustomerRepo struct {
	pool *pgxpool.Pool
}

func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// ApplyPaidOrder advances a profile's lifetime stats after a confirmed
// payment. Called only when the paid transition actually happened, so
// replayed webhooks never double-count.
func (r *CustomerRepo) ApplyPaidOrder(ctx context.Context, profileID int64, amount float64, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customer_profiles
		SET total_orders = total_orders + 1,
			total_spent = total_spent + $1,
			last_order_at = $2
		WHERE id = $3`,
		amount, at, profileID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "failed to update customer profile", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("customer profile not found")
	}
	return nil
}

func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*domain.CustomerProfile, error) {
	var p domain.CustomerProfile
	err := r.pool.QueryRow(ctx, `
		SELECT id, phone, customer_name, total_orders, total_spent, last_order_at, created_at
		FROM customer_profiles
		WHERE phone = $1`, phone,
	).Scan(&p.ID, &p.Phone, &p.CustomerName, &p.TotalOrders, &p.TotalSpent, &p.LastOrderAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("customer profile not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to load customer profile", err)
	}
	return &p, nil
}
