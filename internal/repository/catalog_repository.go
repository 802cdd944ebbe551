package repository

import (
	"context"

	"github.com/lexflow/backend/internal/model"
)

// ClientRepository はクライアント台帳（外部コラボレータ）の読み取りインターフェース
type ClientRepository interface {
	List(ctx context.Context) ([]*model.Client, error)
	GetByID(ctx context.Context, id string) (*model.Client, error)
}

// UserRepository は担当者台帳の読み取りインターフェース
type UserRepository interface {
	List(ctx context.Context) ([]*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ProjectRepository is the read interface over the external project list.
// Listings are always filtered to active and completed projects.
type ProjectRepository interface {
	List(ctx context.Context, clientID string) ([]*model.Project, error)
}

// TagRepository is the read interface over the tag catalog.
type TagRepository interface {
	List(ctx context.Context) ([]*model.Tag, error)
}
