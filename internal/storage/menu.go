package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
)

type MenuRepo struct {
	pool *pgxpool.Pool
}

func NewMenuRepo(pool *pgxpool.Pool) *MenuRepo {
	return &MenuRepo{pool: pool}
}

const menuColumns = `
	id, name, description, price, image_url, available,
	stock_quantity, low_stock_threshold, track_inventory`

func (r *MenuRepo) scanItems(rows pgx.Rows) ([]domain.MenuItem, error) {
	defer rows.Close()
	var items []domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.ImageURL,
			&m.Available, &m.StockQuantity, &m.LowStockThreshold, &m.TrackInventory)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to scan menu item", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to read menu items", err)
	}
	return items, nil
}

func (r *MenuRepo) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE available = TRUE ORDER BY id ASC`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to list menu", err)
	}
	return r.scanItems(rows)
}

func (r *MenuRepo) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuColumns+` FROM menu_items ORDER BY id ASC`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to list inventory", err)
	}
	return r.scanItems(rows)
}

// DecrementStock lowers the stock of a tracked item, never below zero.
// Items without inventory tracking are left alone.
func (r *MenuRepo) DecrementStock(ctx context.Context, menuItemID int64, quantity int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE menu_items
		SET stock_quantity = GREATEST(0, stock_quantity - $1)
		WHERE id = $2 AND track_inventory = TRUE`,
		quantity, menuItemID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "failed to decrement stock", err)
	}
	return nil
}

// AdjustStock applies a manual delta (positive or negative), floored at zero,
// and returns the new quantity.
func (r *MenuRepo) AdjustStock(ctx context.Context, menuItemID int64, adjustment int) (int, error) {
	var newQuantity int
	err := r.pool.QueryRow(ctx, `
		UPDATE menu_items
		SET stock_quantity = GREATEST(0, stock_quantity + $1)
		WHERE id = $2
		RETURNING stock_quantity`,
		adjustment, menuItemID,
	).Scan(&newQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.NotFound("menu item not found")
	}
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "failed to adjust stock", err)
	}
	return newQuantity, nil
}

func (r *MenuRepo) UpdateInventory(ctx context.Context, menuItemID int64, stockQuantity, lowStockThreshold int, trackInventory bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE menu_items
		SET stock_quantity = GREATEST(0, $1),
			low_stock_threshold = $2,
			track_inventory = $3
		WHERE id = $4`,
		stockQuantity, lowStockThreshold, trackInventory, menuItemID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "failed to update inventory", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("menu item not found")
	}
	return nil
}

func (r *MenuRepo) SetAvailability(ctx context.Context, menuItemID int64, available bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE menu_items SET available = $1 WHERE id = $2`, available, menuItemID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "failed to toggle availability", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("menu item not found")
	}
	return nil
}
