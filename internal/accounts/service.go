package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/guidepost-hq/guidepost/internal/authz"
	"github.com/guidepost-hq/guidepost/internal/companies"
	"github.com/guidepost-hq/guidepost/internal/platform/httpx"
	"github.com/guidepost-hq/guidepost/internal/shared"
)

// RepositoryPort defines data access methods for managed accounts.
type RepositoryPort interface {
	ListByCompanyAndRole(ctx context.Context, companyID int64, role authz.Role) ([]Account, error)
	FindInCompany(ctx context.Context, companyID, accountID int64) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	Update(ctx context.Context, companyID, accountID int64, update AccountUpdate) (Account, error)
	SoftDelete(ctx context.Context, companyID, accountID int64) error
}

// CompanyPort resolves the tenant a request is scoped to.
type CompanyPort interface {
	GetCompany(ctx context.Context, id int64) (companies.Company, error)
}

// AuditRecorder persists audit entries for account mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles managed account business logic. Every operation
// resolves the company first (unknown tenant surfaces as not-found
// before any decision is made), then asks the authorization engine, and
// only then touches the roster.
type Service struct {
	repo      RepositoryPort
	companies CompanyPort
	authorize *authz.Authorizer
	audit     AuditRecorder
	logger    *slog.Logger
}

// NewService builds Service instance. The audit recorder is optional.
func NewService(repo RepositoryPort, companyPort CompanyPort, authorizer *authz.Authorizer, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, companies: companyPort, authorize: authorizer, audit: audit, logger: logger}
}

// ListAccounts returns the company roster filtered to one role tag.
func (s *Service) ListAccounts(ctx context.Context, actor authz.Actor, companyID int64, role authz.Role) ([]Account, error) {
	company, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if d := s.authorize.ViewRoster(actor, company); !d.Allowed {
		return nil, forbidden(d)
	}
	return s.repo.ListByCompanyAndRole(ctx, companyID, role)
}

// CreateAccount creates a managed account inside the company. The
// account is stamped with the route's company id and role tag; neither
// is ever taken from caller-supplied field data.
func (s *Service) CreateAccount(ctx context.Context, actor authz.Actor, companyID int64, role authz.Role, input NewAccount) (Account, error) {
	company, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return Account{}, err
	}
	if d := s.authorize.CreateAccount(actor, company); !d.Allowed {
		return Account{}, forbidden(d)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}
	created, err := s.repo.Create(ctx, Account{
		CompanyID:    company.ID,
		Role:         role,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return Account{}, err
	}
	s.recordAudit(ctx, actor, "account.create", created)
	return created, nil
}

// UpdateAccount modifies a managed account. The target is re-derived
// through the company relation, so a cross-company id surfaces as
// not-found before the engine is consulted; the engine then enforces
// the three-way company match on the resolved snapshot.
func (s *Service) UpdateAccount(ctx context.Context, actor authz.Actor, companyID, accountID int64, update AccountUpdate) (Account, error) {
	company, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return Account{}, err
	}
	target, err := s.repo.FindInCompany(ctx, companyID, accountID)
	if err != nil {
		return Account{}, err
	}
	if d := s.authorize.UpdateAccount(actor, company, target.Target()); !d.Allowed {
		return Account{}, forbidden(d)
	}
	updated, err := s.repo.Update(ctx, companyID, accountID, update)
	if err != nil {
		return Account{}, err
	}
	s.recordAudit(ctx, actor, "account.update", updated)
	return updated, nil
}

// DeleteAccount soft-deletes a managed account.
func (s *Service) DeleteAccount(ctx context.Context, actor authz.Actor, companyID, accountID int64) error {
	company, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return err
	}
	target, err := s.repo.FindInCompany(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if d := s.authorize.DeleteAccount(actor, company, target.Target()); !d.Allowed {
		return forbidden(d)
	}
	if err := s.repo.SoftDelete(ctx, companyID, accountID); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "account.delete", target)
	return nil
}

// PurgeAccount would irreversibly remove a soft-deleted account. The
// purge policy is undefined, so this always refuses with a
// not-implemented error until an integrator decides one.
func (s *Service) PurgeAccount(ctx context.Context, actor authz.Actor, companyID, accountID int64) error {
	company, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if _, err := s.authorize.PurgeAccount(actor, company, authz.Account{ID: accountID, CompanyID: companyID}); err != nil {
		return fmt.Errorf("%w: %s", httpx.ErrNotImplemented, err.Error())
	}
	return fmt.Errorf("%w: purge policy undefined", httpx.ErrNotImplemented)
}

func (s *Service) resolveCompany(ctx context.Context, companyID int64) (authz.Company, error) {
	company, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		return authz.Company{}, err
	}
	return authz.Company{ID: company.ID}, nil
}

func (s *Service) recordAudit(ctx context.Context, actor authz.Actor, action string, account Account) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "account",
		EntityID: strconv.FormatInt(account.ID, 10),
		Meta: map[string]any{
			"company_id": account.CompanyID,
			"role":       account.Role.String(),
		},
	})
	if err != nil {
		s.logger.Warn("record audit", slog.String("action", action), slog.Any("error", err))
	}
}

func forbidden(d authz.Decision) error {
	return fmt.Errorf("%w: %s", httpx.ErrForbidden, d.Reason)
}
