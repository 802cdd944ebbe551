package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexflow/backend/internal/model"
)

// PgProjectRepository は ProjectRepository の PostgreSQL 実装
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgProjectRepository は PgProjectRepository を生成する
func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

// List はクライアントのプロジェクト一覧を取得する（active/completed のみ）。
// clientID が空の場合は全クライアントを対象にする。
func (r *PgProjectRepository) List(ctx context.Context, clientID string) ([]*model.Project, error) {
	query := `SELECT id, client_id, name, status FROM projects
	          WHERE status IN ('active', 'completed')`
	args := []any{}
	if clientID != "" {
		query += ` AND client_id = $1`
		args = append(args, clientID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Status); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}
