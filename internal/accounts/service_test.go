package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/guidepost-hq/guidepost/internal/authz"
	"github.com/guidepost-hq/guidepost/internal/companies"
	"github.com/guidepost-hq/guidepost/internal/platform/httpx"
	"github.com/guidepost-hq/guidepost/internal/shared"
)

type mockRepository struct {
	accounts map[int64]*Account
	nextID   int64

	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{accounts: make(map[int64]*Account), nextID: 1}
}

func (m *mockRepository) add(account Account) Account {
	account.ID = m.nextID
	m.nextID++
	m.accounts[account.ID] = &account
	return account
}

func (m *mockRepository) ListByCompanyAndRole(ctx context.Context, companyID int64, role authz.Role) ([]Account, error) {
	var out []Account
	for _, a := range m.accounts {
		if a.CompanyID == companyID && a.Role == role && a.DeletedAt == nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockRepository) FindInCompany(ctx context.Context, companyID, accountID int64) (Account, error) {
	a, ok := m.accounts[accountID]
	if !ok || a.CompanyID != companyID || a.DeletedAt != nil {
		return Account{}, shared.ErrNotFound
	}
	return *a, nil
}

func (m *mockRepository) Create(ctx context.Context, account Account) (Account, error) {
	if m.createErr != nil {
		return Account{}, m.createErr
	}
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return Account{}, shared.ErrDuplicateEmail
		}
	}
	return m.add(account), nil
}

func (m *mockRepository) Update(ctx context.Context, companyID, accountID int64, update AccountUpdate) (Account, error) {
	a, ok := m.accounts[accountID]
	if !ok || a.CompanyID != companyID || a.DeletedAt != nil {
		return Account{}, shared.ErrNotFound
	}
	a.Name = update.Name
	a.Email = update.Email
	return *a, nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, companyID, accountID int64) error {
	a, ok := m.accounts[accountID]
	if !ok || a.CompanyID != companyID || a.DeletedAt != nil {
		return shared.ErrNotFound
	}
	now := a.UpdatedAt
	a.DeletedAt = &now
	return nil
}

type mockCompanies struct {
	known map[int64]string
}

func (m *mockCompanies) GetCompany(ctx context.Context, id int64) (companies.Company, error) {
	name, ok := m.known[id]
	if !ok {
		return companies.Company{}, shared.ErrNotFound
	}
	return companies.Company{ID: id, Name: name}, nil
}

type recordedAudit struct {
	logs []shared.AuditLog
}

func (r *recordedAudit) Record(ctx context.Context, log shared.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func newTestService(t *testing.T) (*Service, *mockRepository, *recordedAudit) {
	t.Helper()
	repo := newMockRepository()
	audit := &recordedAudit{}
	svc := NewService(
		repo,
		&mockCompanies{known: map[int64]string{5: "Summit Trails Co", 9: "Rival Tours"}},
		authz.NewAuthorizer(nil, nil),
		audit,
		nil,
	)
	return svc, repo, audit
}

var (
	adminActor = authz.Actor{ID: 1, Role: authz.RoleAdministrator}
	ownerOf5   = authz.Actor{ID: 2, Role: authz.RoleCompanyOwner, CompanyID: 5}
	guideActor = authz.Actor{ID: 3, Role: authz.RoleGuide, CompanyID: 5}
)

func TestCreateAccountStampsCompanyAndRole(t *testing.T) {
	svc, _, audit := newTestService(t)

	created, err := svc.CreateAccount(context.Background(), ownerOf5, 5, authz.RoleGuide, NewAccount{
		Name:     "New Guide",
		Email:    "guide@summit.local",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), created.CompanyID)
	assert.Equal(t, authz.RoleGuide, created.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))

	require.Len(t, audit.logs, 1)
	assert.Equal(t, "account.create", audit.logs[0].Action)
	assert.Equal(t, ownerOf5.ID, audit.logs[0].ActorID)
}

func TestCreateAccountDeniedOutsideOwnCompany(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), ownerOf5, 9, authz.RoleGuide, NewAccount{
		Name:     "Sneaky",
		Email:    "sneak@rival.local",
		Password: "password123",
	})
	require.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Empty(t, repo.accounts)
}

func TestCreateAccountAdministratorAnywhere(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateAccount(context.Background(), adminActor, 9, authz.RoleCompanyOwner, NewAccount{
		Name:     "Rival Owner",
		Email:    "owner@rival.local",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.CompanyID)
	assert.Equal(t, authz.RoleCompanyOwner, created.Role)
}

func TestCreateAccountUnknownCompanyIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), adminActor, 77, authz.RoleGuide, NewAccount{
		Name:     "Nobody",
		Email:    "nobody@nowhere.local",
		Password: "password123",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.add(Account{CompanyID: 5, Role: authz.RoleGuide, Email: "taken@summit.local"})

	_, err := svc.CreateAccount(context.Background(), ownerOf5, 5, authz.RoleGuide, NewAccount{
		Name:     "Another",
		Email:    "taken@summit.local",
		Password: "password123",
	})
	require.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestListAccountsFiltersByRole(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.add(Account{CompanyID: 5, Role: authz.RoleGuide, Name: "G1", Email: "g1@summit.local"})
	repo.add(Account{CompanyID: 5, Role: authz.RoleCompanyOwner, Name: "O1", Email: "o1@summit.local"})
	repo.add(Account{CompanyID: 9, Role: authz.RoleGuide, Name: "Other", Email: "g@rival.local"})

	guides, err := svc.ListAccounts(context.Background(), ownerOf5, 5, authz.RoleGuide)
	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, "G1", guides[0].Name)

	_, err = svc.ListAccounts(context.Background(), guideActor, 5, authz.RoleGuide)
	require.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestUpdateAccountCrossCompanyTargetIsNotFound(t *testing.T) {
	svc, repo, _ := newTestService(t)
	rival := repo.add(Account{CompanyID: 9, Role: authz.RoleGuide, Name: "Rival Guide", Email: "g@rival.local"})

	// The target resolves only through the company relation, so an
	// out-of-company id never even reaches the engine.
	_, err := svc.UpdateAccount(context.Background(), ownerOf5, 5, rival.ID, AccountUpdate{Name: "Hijack", Email: "h@x.local"})
	require.ErrorIs(t, err, shared.ErrNotFound)

	assert.Equal(t, "Rival Guide", repo.accounts[rival.ID].Name)
}

func TestUpdateAccountWithinCompany(t *testing.T) {
	svc, repo, audit := newTestService(t)
	target := repo.add(Account{CompanyID: 5, Role: authz.RoleGuide, Name: "Old", Email: "old@summit.local"})

	updated, err := svc.UpdateAccount(context.Background(), ownerOf5, 5, target.ID, AccountUpdate{Name: "New", Email: "new@summit.local"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "account.update", audit.logs[0].Action)
}

func TestDeleteAccountSoftDeletes(t *testing.T) {
	svc, repo, audit := newTestService(t)
	target := repo.add(Account{CompanyID: 5, Role: authz.RoleGuide, Name: "Bye", Email: "bye@summit.local"})

	require.NoError(t, svc.DeleteAccount(context.Background(), ownerOf5, 5, target.ID))
	assert.NotNil(t, repo.accounts[target.ID].DeletedAt)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "account.delete", audit.logs[0].Action)

	// Deleting again resolves nothing.
	err := svc.DeleteAccount(context.Background(), ownerOf5, 5, target.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteAccountDeniedForManagedRoles(t *testing.T) {
	svc, repo, _ := newTestService(t)
	target := repo.add(Account{CompanyID: 5, Role: authz.RoleGuide, Name: "Stay", Email: "stay@summit.local"})

	err := svc.DeleteAccount(context.Background(), guideActor, 5, target.ID)
	require.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Nil(t, repo.accounts[target.ID].DeletedAt)
}

func TestPurgeAccountNotImplemented(t *testing.T) {
	svc, repo, _ := newTestService(t)
	target := repo.add(Account{CompanyID: 5, Role: authz.RoleGuide, Name: "Gone", Email: "gone@summit.local"})

	// Even the administrator cannot purge until a policy is decided.
	err := svc.PurgeAccount(context.Background(), adminActor, 5, target.ID)
	require.ErrorIs(t, err, httpx.ErrNotImplemented)

	err = svc.PurgeAccount(context.Background(), ownerOf5, 5, target.ID)
	require.ErrorIs(t, err, httpx.ErrNotImplemented)
}
