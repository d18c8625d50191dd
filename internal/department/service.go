package department

import "context"

// Service exposes the department catalog.
type Service interface {
	GetByID(ctx context.Context, id string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Department, error) {
	return s.repo.List(ctx)
}
