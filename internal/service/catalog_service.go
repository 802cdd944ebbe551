package service

import (
	"context"
	"sync"

	"github.com/lexflow/backend/internal/model"
	"github.com/lexflow/backend/internal/repository"
)

// CatalogService serves the reference data the wizard picks from: clients,
// fee earners, projects and tags.
type CatalogService interface {
	Clients(ctx context.Context) ([]*model.Client, error)
	Client(ctx context.Context, id string) (*model.Client, error)
	Users(ctx context.Context) ([]*model.User, error)
	Projects(ctx context.Context, clientID string) ([]*model.Project, error)
	Tags(ctx context.Context) ([]*model.Tag, error)
}

// CatalogServiceImpl は CatalogService の実装
type CatalogServiceImpl struct {
	clients  repository.ClientRepository
	users    repository.UserRepository
	projects repository.ProjectRepository
	tags     repository.TagRepository

	// Project lookups for the same client key race when the user flips the
	// client selector quickly. Each key carries a sequence number; a lookup
	// that finishes after a newer one started is reported superseded so the
	// stale result never reaches the caller.
	mu  sync.Mutex
	seq map[string]uint64
}

// NewCatalogService は CatalogServiceImpl を生成する
func NewCatalogService(
	clients repository.ClientRepository,
	users repository.UserRepository,
	projects repository.ProjectRepository,
	tags repository.TagRepository,
) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		clients:  clients,
		users:    users,
		projects: projects,
		tags:     tags,
		seq:      map[string]uint64{},
	}
}

func (s *CatalogServiceImpl) Clients(ctx context.Context) ([]*model.Client, error) {
	return s.clients.List(ctx)
}

func (s *CatalogServiceImpl) Client(ctx context.Context, id string) (*model.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) Users(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// Projects lists the active and completed projects of a client. When a newer
// lookup for the same client starts before this one returns, the result is
// dropped and ErrSuperseded comes back instead.
func (s *CatalogServiceImpl) Projects(ctx context.Context, clientID string) ([]*model.Project, error) {
	s.mu.Lock()
	s.seq[clientID]++
	ticket := s.seq[clientID]
	s.mu.Unlock()

	list, err := s.projects.List(ctx, clientID)

	s.mu.Lock()
	latest := s.seq[clientID]
	s.mu.Unlock()
	if ticket != latest {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *CatalogServiceImpl) Tags(ctx context.Context) ([]*model.Tag, error) {
	return s.tags.List(ctx)
}
