package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `
	id, tracking_id, customer_name, phone, delivery_address,
	delivery_instructions, total, payment_status, payment_reference,
	order_status, kitchen_status, customer_profile_id, created_at,
	preparation_started_at, preparation_completed_at,
	assigned_to_delivery_at, delivered_at, estimated_delivery_minutes`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.TrackingID, &o.CustomerName, &o.Phone, &o.DeliveryAddress,
		&o.DeliveryInstructions, &o.Total, &o.PaymentStatus, &o.PaymentReference,
		&o.OrderStatus, &o.KitchenStatus, &o.CustomerProfileID, &o.CreatedAt,
		&o.PreparationStartedAt, &o.PreparationCompletedAt,
		&o.AssignedToDeliveryAt, &o.DeliveredAt, &o.EstimatedDeliveryMinutes,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateWithProfile inserts the order and its items in one transaction,
// resolving or creating the customer profile for the order's phone first.
// A failure at any step rolls the whole sequence back.
func (r *OrderRepo) CreateWithProfile(ctx context.Context, order *domain.Order, items []domain.OrderItem) (orderID, profileID int64, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.KindPersistence, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	profileID, err = getOrCreateProfile(ctx, tx, order.Phone, order.CustomerName)
	if err != nil {
		return 0, 0, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			tracking_id, customer_name, phone, delivery_address,
			delivery_instructions, total, payment_status, payment_reference,
			order_status, kitchen_status, customer_profile_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		order.TrackingID, order.CustomerName, order.Phone, order.DeliveryAddress,
		order.DeliveryInstructions, order.Total, order.PaymentStatus,
		order.PaymentReference, order.OrderStatus, order.KitchenStatus, profileID,
	).Scan(&orderID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, 0, apperrors.Wrap(apperrors.KindConflict, "duplicate payment reference", err)
		}
		return 0, 0, apperrors.Wrap(apperrors.KindPersistence, "failed to create order", err)
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (
				order_id, menu_item_id, menu_item_name, quantity, price, total
			) VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, item.MenuItemID, item.MenuItemName, item.Quantity, item.Price, item.Total,
		)
		if err != nil {
			return 0, 0, apperrors.Wrap(apperrors.KindPersistence, "failed to insert order item", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, apperrors.Wrap(apperrors.KindPersistence, "failed to commit order", err)
	}

	return orderID, profileID, nil
}

func getOrCreateProfile(ctx context.Context, q Querier, phone, customerName string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM customer_profiles WHERE phone = $1`, phone).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "failed to look up customer profile", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO customer_profiles (phone, customer_name)
		VALUES ($1, $2)
		RETURNING id`, phone, customerName,
	).Scan(&id)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistence, "failed to create customer profile", err)
	}
	return id, nil
}

// MarkPaid atomically flips the order matching reference to paid/received.
// The payment_status guard makes webhook redelivery a no-op: the second
// delivery matches no row and transitioned reports false.
func (r *OrderRepo) MarkPaid(ctx context.Context, reference string) (order *domain.Order, transitioned bool, err error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE orders
		SET payment_status = $1, order_status = $2
		WHERE payment_reference = $3 AND payment_status = $4
		RETURNING %s`, orderColumns),
		domain.PaymentCompleted, domain.OrderReceived, reference, domain.PaymentPending,
	)
	order, err = scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.KindPersistence, "failed to mark order paid", err)
	}
	return order, true, nil
}

func (r *OrderRepo) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM orders WHERE tracking_id = $1`, orderColumns), trackingID)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("order not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to load order", err)
	}

	order.Items, err = r.ItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM orders WHERE id = $1`, orderColumns), orderID)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("order not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to load order", err)
	}
	return order, nil
}

func (r *OrderRepo) ItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, menu_item_id, menu_item_name, quantity, price, total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to load order items", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.MenuItemName, &it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to scan order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to read order items", err)
	}
	return items, nil
}

// RouteToKitchen puts a freshly paid order onto the kitchen board.
func (r *OrderRepo) RouteToKitchen(ctx context.Context, orderID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET kitchen_status = $1, order_status = $2
		WHERE id = $3`,
		domain.KitchenPending, domain.OrderPreparing, orderID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "failed to route order to kitchen", err)
	}
	return nil
}

func (r *OrderRepo) SetOrderStatus(ctx context.Context, orderID int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET order_status = $1 WHERE id = $2`, status, orderID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order not found")
	}
	return nil
}

// UpdateKitchenStatus persists a kitchen transition. Preparation timestamps
// are set-once: COALESCE keeps an existing stamp if the transition replays.
func (r *OrderRepo) UpdateKitchenStatus(ctx context.Context, orderID int64, status string, now time.Time) (trackingID string, err error) {
	var startedAt, completedAt *time.Time
	switch status {
	case domain.KitchenPreparing:
		startedAt = &now
	case domain.KitchenReady:
		completedAt = &now
	}

	err = r.pool.QueryRow(ctx, `
		UPDATE orders
		SET kitchen_status = $1,
			preparation_started_at = COALESCE(preparation_started_at, $2),
			preparation_completed_at = COALESCE(preparation_completed_at, $3)
		WHERE id = $4
		RETURNING tracking_id`,
		status, startedAt, completedAt, orderID,
	).Scan(&trackingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NotFound("order not found")
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindPersistence, "failed to update kitchen status", err)
	}
	return trackingID, nil
}

// UpdateDeliveryStatus persists a delivery transition and mirrors it into the
// overall order status.
func (r *OrderRepo) UpdateDeliveryStatus(ctx context.Context, orderID int64, status string, estimatedMinutes *int, now time.Time) (trackingID string, err error) {
	var assignedAt, deliveredAt *time.Time
	switch status {
	case domain.OrderOutForDelivery:
		assignedAt = &now
	case domain.OrderDelivered:
		deliveredAt = &now
	}

	err = r.pool.QueryRow(ctx, `
		UPDATE orders
		SET order_status = $1,
			assigned_to_delivery_at = COALESCE(assigned_to_delivery_at, $2),
			delivered_at = COALESCE(delivered_at, $3),
			estimated_delivery_minutes = COALESCE($4, estimated_delivery_minutes)
		WHERE id = $5
		RETURNING tracking_id`,
		status, assignedAt, deliveredAt, estimatedMinutes, orderID,
	).Scan(&trackingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NotFound("order not found")
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindPersistence, "failed to update delivery status", err)
	}
	return trackingID, nil
}

// ListKitchenOrders returns paid orders the kitchen has not finished with,
// oldest first, items included. Used both by the dashboard list and as the
// backfill for late-joining kitchen stream subscribers.
func (r *OrderRepo) ListKitchenOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.list(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE payment_status = $1
		  AND kitchen_status IN ($2, $3, $4)
		ORDER BY created_at ASC`, orderColumns),
		domain.PaymentCompleted, domain.KitchenPending, domain.KitchenPreparing, domain.KitchenReady)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

// ListDeliveryOrders returns orders that are ready to leave or already out.
func (r *OrderRepo) ListDeliveryOrders(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE payment_status = $1
		  AND (kitchen_status = $2 OR order_status = $3)
		  AND order_status <> $4
		ORDER BY created_at ASC`, orderColumns),
		domain.PaymentCompleted, domain.KitchenReady, domain.OrderOutForDelivery, domain.OrderDelivered)
}

// ListRecent returns the newest orders for the admin dashboard.
func (r *OrderRepo) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	return r.list(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		ORDER BY created_at DESC
		LIMIT $1`, orderColumns), limit)
}

// HistoryByPhone returns a customer's orders, newest first.
func (r *OrderRepo) HistoryByPhone(ctx context.Context, phone string) ([]domain.Order, error) {
	orders, err := r.list(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE phone = $1
		ORDER BY created_at DESC`, orderColumns), phone)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *OrderRepo) list(ctx context.Context, sql string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to list orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to scan order", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to read orders", err)
	}
	return orders, nil
}

func (r *OrderRepo) attachItems(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	for i := range orders {
		items, err := r.ItemsByOrderID(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}
