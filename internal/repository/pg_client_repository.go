package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexflow/backend/internal/model"
)

// PgClientRepository は ClientRepository の PostgreSQL 実装
type PgClientRepository struct {
	pool *pgxpool.Pool
}

// NewPgClientRepository は PgClientRepository を生成する
func NewPgClientRepository(pool *pgxpool.Pool) *PgClientRepository {
	return &PgClientRepository{pool: pool}
}

// List はクライアント一覧を取得する
func (r *PgClientRepository) List(ctx context.Context) ([]*model.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, company, default_discount_percent, default_discount_amount
		 FROM clients ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.DefaultDiscountPercent, &c.DefaultDiscountAmount); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

// GetByID は ID でクライアントを取得する
func (r *PgClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, company, default_discount_percent, default_discount_amount
		 FROM clients WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Company, &c.DefaultDiscountPercent, &c.DefaultDiscountAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
