package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msoohome/storefront/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository returns the PostgreSQL implementation of
// domain.OrderRepository. Orders and their lines are written in one
// transaction; the user fields are a snapshot, not a foreign key.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Insert(ctx context.Context, o domain.Order) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(opCtx, `
		INSERT INTO orders (
			id, user_id, user_name, user_email, user_phone,
			total_minor, delivery_location, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		o.ID, o.User.ID, o.User.Name, o.User.Email, o.User.Phone,
		o.TotalMinor, o.DeliveryLocation, string(o.Status), o.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i, line := range o.Lines {
		if _, err = tx.ExecContext(opCtx, `
			INSERT INTO order_lines (
				order_id, position, product_id, product_name, product_description,
				price_minor, image_url, category, quantity
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			o.ID, i, line.Product.ID, line.Product.Name, line.Product.Description,
			line.Product.PriceMinor, line.Product.ImageURL, string(line.Product.Category),
			line.Quantity,
		); err != nil {
			return domain.Order{}, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit insert order: %w", err)
	}

	return o, nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		o      domain.Order
		status string
	)
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, user_id, user_name, user_email, user_phone,
		       total_minor, delivery_location, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&o.ID, &o.User.ID, &o.User.Name, &o.User.Email, &o.User.Phone,
		&o.TotalMinor, &o.DeliveryLocation, &status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	o.Status = domain.OrderStatus(status)

	lines, err := r.loadLines(opCtx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Lines = lines

	return o, nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT id, user_id, user_name, user_email, user_phone,
		       total_minor, delivery_location, status, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(opCtx, rows)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, user_name, user_email, user_phone,
		       total_minor, delivery_location, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(opCtx, query+" LIMIT $2", userID, limit)
	} else {
		rows, err = r.db.QueryContext(opCtx, query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(opCtx, rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `
		UPDATE orders SET status = $1 WHERE id = $2
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err := rows.Scan(
			&o.ID, &o.User.ID, &o.User.Name, &o.User.Email, &o.User.Phone,
			&o.TotalMinor, &o.DeliveryLocation, &status, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		lines, err := r.loadLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}

	return orders, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID string) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, product_description,
		       price_minor, image_url, category, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		var (
			line     domain.CartLine
			category string
		)
		if err := rows.Scan(
			&line.Product.ID, &line.Product.Name, &line.Product.Description,
			&line.Product.PriceMinor, &line.Product.ImageURL, &category, &line.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		line.Product.Category = domain.Category(category)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return lines, nil
}
