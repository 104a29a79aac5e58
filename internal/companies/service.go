package companies

import (
	"context"
	"fmt"
	"strings"

	"github.com/guidepost-hq/guidepost/internal/authz"
	"github.com/guidepost-hq/guidepost/internal/platform/httpx"
)

// RepositoryPort defines data access methods for companies.
type RepositoryPort interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	GetCompany(ctx context.Context, id int64) (Company, error)
	CreateCompany(ctx context.Context, name string) (Company, error)
}

// Service handles company business logic. Provisioning tenants is an
// administrator concern; members may only look up their own company.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListCompanies returns all companies. Administrators only.
func (s *Service) ListCompanies(ctx context.Context, actor authz.Actor) ([]Company, error) {
	if !actor.Role.IsAdministrator() {
		return nil, fmt.Errorf("%w: listing companies requires administrator", httpx.ErrForbidden)
	}
	return s.repo.ListCompanies(ctx)
}

// GetCompany returns one company. Administrators may fetch any company;
// everyone else only their own.
func (s *Service) GetCompany(ctx context.Context, actor authz.Actor, id int64) (Company, error) {
	if !actor.Role.IsAdministrator() && actor.CompanyID != id {
		return Company{}, fmt.Errorf("%w: company belongs to another tenant", httpx.ErrForbidden)
	}
	return s.repo.GetCompany(ctx, id)
}

// CreateCompany provisions a new tenant. Administrators only.
func (s *Service) CreateCompany(ctx context.Context, actor authz.Actor, name string) (Company, error) {
	if !actor.Role.IsAdministrator() {
		return Company{}, fmt.Errorf("%w: creating companies requires administrator", httpx.ErrForbidden)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Company{}, fmt.Errorf("%w: company name required", httpx.ErrValidation)
	}
	return s.repo.CreateCompany(ctx, name)
}
