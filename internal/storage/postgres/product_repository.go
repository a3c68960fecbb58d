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

const (
	opTimeout = 5 * time.Second
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository returns the PostgreSQL implementation of
// domain.ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Insert(ctx context.Context, p domain.Product) (domain.Product, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.ExecContext(opCtx, `
		INSERT INTO products (
			id, name, description, price_minor, image_url, category, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		p.ID, p.Name, p.Description, p.PriceMinor, p.ImageURL,
		string(p.Category), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return p, nil
}

func (r *productRepository) InsertBatch(ctx context.Context, ps []domain.Product) ([]domain.Product, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	stored := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now

		if _, err = tx.ExecContext(opCtx, `
			INSERT INTO products (
				id, name, description, price_minor, image_url, category, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			p.ID, p.Name, p.Description, p.PriceMinor, p.ImageURL,
			string(p.Category), p.CreatedAt, p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("insert product batch: %w", err)
		}
		stored = append(stored, p)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product batch: %w", err)
	}

	return stored, nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		p        domain.Product
		category string
	)
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, name, description, price_minor, image_url, category, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceMinor, &p.ImageURL,
		&category, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	p.Category = domain.Category(category)

	return p, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT id, name, description, price_minor, image_url, category, created_at, updated_at
		FROM products
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var (
			p        domain.Product
			category string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.PriceMinor, &p.ImageURL,
			&category, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		p.Category = domain.Category(category)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p domain.Product) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `
		UPDATE products
		SET name = $1,
		    description = $2,
		    price_minor = $3,
		    image_url = $4,
		    category = $5,
		    updated_at = NOW()
		WHERE id = $6
	`,
		p.Name, p.Description, p.PriceMinor, p.ImageURL, string(p.Category), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}
