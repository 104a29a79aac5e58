package authz

import "log/slog"

// Operation names used for logging and metrics labels.
const (
	OpViewRoster    = "view_roster"
	OpCreateAccount = "create_account"
	OpUpdateAccount = "update_account"
	OpDeleteAccount = "delete_account"
	OpPurgeAccount  = "purge_account"
)

// DecisionObserver counts decision outcomes, typically backed by
// Prometheus.
type DecisionObserver interface {
	ObserveDecision(operation string, allowed bool)
}

// Authorizer wraps the pure decision functions with structured logging
// and metrics. Handlers use it so every decision leaves a trace; the
// underlying functions stay pure and independently testable.
type Authorizer struct {
	logger   *slog.Logger
	observer DecisionObserver
}

// NewAuthorizer constructs an Authorizer. Both dependencies are
// optional; a nil logger falls back to slog.Default.
func NewAuthorizer(logger *slog.Logger, observer DecisionObserver) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{logger: logger, observer: observer}
}

// ViewRoster evaluates CanViewRoster and records the outcome.
func (a *Authorizer) ViewRoster(actor Actor, company Company) Decision {
	d := CanViewRoster(actor, company)
	a.observe(OpViewRoster, actor, company, nil, d)
	return d
}

// CreateAccount evaluates CanCreateAccount and records the outcome.
func (a *Authorizer) CreateAccount(actor Actor, company Company) Decision {
	d := CanCreateAccount(actor, company)
	a.observe(OpCreateAccount, actor, company, nil, d)
	return d
}

// UpdateAccount evaluates CanUpdateAccount and records the outcome.
func (a *Authorizer) UpdateAccount(actor Actor, company Company, target Account) Decision {
	d := CanUpdateAccount(actor, company, target)
	a.observe(OpUpdateAccount, actor, company, &target, d)
	return d
}

// DeleteAccount evaluates CanDeleteAccount and records the outcome.
func (a *Authorizer) DeleteAccount(actor Actor, company Company, target Account) Decision {
	d := CanDeleteAccount(actor, company, target)
	a.observe(OpDeleteAccount, actor, company, &target, d)
	return d
}

// PurgeAccount evaluates CanPurgeAccount and records the outcome.
func (a *Authorizer) PurgeAccount(actor Actor, company Company, target Account) (Decision, error) {
	d, err := CanPurgeAccount(actor, company, target)
	a.observe(OpPurgeAccount, actor, company, &target, d)
	return d, err
}

func (a *Authorizer) observe(op string, actor Actor, company Company, target *Account, d Decision) {
	if a.observer != nil {
		a.observer.ObserveDecision(op, d.Allowed)
	}
	attrs := []any{
		slog.String("operation", op),
		slog.Int64("actor_id", actor.ID),
		slog.String("actor_role", actor.Role.String()),
		slog.Int64("company_id", company.ID),
		slog.Bool("allowed", d.Allowed),
	}
	if target != nil {
		attrs = append(attrs, slog.Int64("target_id", target.ID), slog.Int64("target_company_id", target.CompanyID))
	}
	if !d.Allowed {
		attrs = append(attrs, slog.String("reason", d.Reason))
	}
	a.logger.Info("authorization decision", attrs...)
}
