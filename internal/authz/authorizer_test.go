package authz

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubObserver struct {
	ops     []string
	allowed []bool
}

func (s *stubObserver) ObserveDecision(op string, allowed bool) {
	s.ops = append(s.ops, op)
	s.allowed = append(s.allowed, allowed)
}

func TestAuthorizerObservesDecisions(t *testing.T) {
	obs := &stubObserver{}
	az := NewAuthorizer(slog.Default(), obs)

	assert.True(t, az.ViewRoster(admin, company5).Allowed)
	assert.False(t, az.UpdateAccount(ownerOf5, company5, targetIn9).Allowed)
	_, err := az.PurgeAccount(admin, company5, targetIn5)
	require.ErrorIs(t, err, ErrPurgePolicyUndefined)

	assert.Equal(t, []string{OpViewRoster, OpUpdateAccount, OpPurgeAccount}, obs.ops)
	assert.Equal(t, []bool{true, false, false}, obs.allowed)
}

func TestAuthorizerMatchesPureFunctions(t *testing.T) {
	az := NewAuthorizer(nil, nil)

	assert.Equal(t, CanViewRoster(guideOf5, company5), az.ViewRoster(guideOf5, company5))
	assert.Equal(t, CanCreateAccount(ownerOf5, company9), az.CreateAccount(ownerOf5, company9))
	assert.Equal(t, CanDeleteAccount(ownerOf5, company5, targetIn5), az.DeleteAccount(ownerOf5, company5, targetIn5))
}
