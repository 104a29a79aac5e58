package companies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidepost-hq/guidepost/internal/authz"
	"github.com/guidepost-hq/guidepost/internal/platform/httpx"
	"github.com/guidepost-hq/guidepost/internal/shared"
)

type stubRepo struct {
	companies map[int64]Company
	nextID    int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{companies: map[int64]Company{}, nextID: 1}
}

func (s *stubRepo) ListCompanies(ctx context.Context) ([]Company, error) {
	out := make([]Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubRepo) GetCompany(ctx context.Context, id int64) (Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return Company{}, shared.ErrNotFound
	}
	return c, nil
}

func (s *stubRepo) CreateCompany(ctx context.Context, name string) (Company, error) {
	c := Company{ID: s.nextID, Name: name}
	s.nextID++
	s.companies[c.ID] = c
	return c, nil
}

func TestCreateCompanyRequiresAdministrator(t *testing.T) {
	svc := NewService(newStubRepo())

	owner := authz.Actor{ID: 2, Role: authz.RoleCompanyOwner, CompanyID: 5}
	_, err := svc.CreateCompany(context.Background(), owner, "Rogue Tours")
	require.ErrorIs(t, err, httpx.ErrForbidden)

	admin := authz.Actor{ID: 1, Role: authz.RoleAdministrator}
	created, err := svc.CreateCompany(context.Background(), admin, "Summit Trails Co")
	require.NoError(t, err)
	assert.Equal(t, "Summit Trails Co", created.Name)
}

func TestCreateCompanyValidatesName(t *testing.T) {
	svc := NewService(newStubRepo())
	admin := authz.Actor{ID: 1, Role: authz.RoleAdministrator}

	_, err := svc.CreateCompany(context.Background(), admin, "   ")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGetCompanyScopedToMembership(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	admin := authz.Actor{ID: 1, Role: authz.RoleAdministrator}
	c, err := svc.CreateCompany(context.Background(), admin, "Summit Trails Co")
	require.NoError(t, err)

	member := authz.Actor{ID: 2, Role: authz.RoleCompanyOwner, CompanyID: c.ID}
	got, err := svc.GetCompany(context.Background(), member, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	outsider := authz.Actor{ID: 3, Role: authz.RoleCompanyOwner, CompanyID: c.ID + 1}
	_, err = svc.GetCompany(context.Background(), outsider, c.ID)
	require.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.GetCompany(context.Background(), admin, c.ID)
	require.NoError(t, err)
}

func TestListCompaniesAdministratorOnly(t *testing.T) {
	svc := NewService(newStubRepo())

	guide := authz.Actor{ID: 4, Role: authz.RoleGuide, CompanyID: 5}
	_, err := svc.ListCompanies(context.Background(), guide)
	require.ErrorIs(t, err, httpx.ErrForbidden)
}
