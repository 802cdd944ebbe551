package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexflow/backend/internal/model"
)

// PgTagRepository は TagRepository の PostgreSQL 実装
type PgTagRepository struct {
	pool *pgxpool.Pool
}

// NewPgTagRepository は PgTagRepository を生成する
func NewPgTagRepository(pool *pgxpool.Pool) *PgTagRepository {
	return &PgTagRepository{pool: pool}
}

// List はタグ一覧を取得する
func (r *PgTagRepository) List(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}
