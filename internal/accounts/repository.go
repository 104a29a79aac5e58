package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guidepost-hq/guidepost/internal/authz"
	"github.com/guidepost-hq/guidepost/internal/shared"
)

const uniqueViolation = "23505"

const accountColumns = `id, company_id, role_id, name, email, password_hash, created_at, updated_at, deleted_at`

// Repository provides PostgreSQL backed persistence for managed
// accounts. Every lookup is scoped through the company relation, so an
// account id from another company simply does not resolve.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByCompanyAndRole returns the company's live accounts carrying the
// given role tag.
func (r *Repository) ListByCompanyAndRole(ctx context.Context, companyID int64, role authz.Role) ([]Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND role_id = $2 AND deleted_at IS NULL ORDER BY id`,
		companyID, int64(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindInCompany resolves an account through the company relation. An id
// belonging to another company returns shared.ErrNotFound.
func (r *Repository) FindInCompany(ctx context.Context, companyID, accountID int64) (Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`,
		companyID, accountID)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrNotFound
		}
		return Account{}, err
	}
	return account, nil
}

// Create inserts an account stamped with the company and role.
func (r *Repository) Create(ctx context.Context, account Account) (Account, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (company_id, role_id, name, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 RETURNING `+accountColumns,
		account.CompanyID, int64(account.Role), account.Name, account.Email, account.PasswordHash)
	created, err := scanAccount(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Account{}, shared.ErrDuplicateEmail
		}
		return Account{}, err
	}
	return created, nil
}

// Update rewrites mutable fields of an account within its company.
func (r *Repository) Update(ctx context.Context, companyID, accountID int64, update AccountUpdate) (Account, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE accounts SET name = $3, email = $4, updated_at = NOW()
		 WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		 RETURNING `+accountColumns,
		companyID, accountID, update.Name, update.Email)
	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrNotFound
		}
		if isUniqueViolation(err) {
			return Account{}, shared.ErrDuplicateEmail
		}
		return Account{}, err
	}
	return updated, nil
}

// SoftDelete marks the account deleted without removing the row.
func (r *Repository) SoftDelete(ctx context.Context, companyID, accountID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET deleted_at = NOW(), updated_at = NOW()
		 WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`,
		companyID, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		account   Account
		roleID    int64
		deletedAt *time.Time
	)
	if err := row.Scan(&account.ID, &account.CompanyID, &roleID, &account.Name, &account.Email, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt, &deletedAt); err != nil {
		return Account{}, err
	}
	account.Role = authz.ParseRole(roleID)
	account.DeletedAt = deletedAt
	return account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
