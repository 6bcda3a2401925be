package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/service"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestTokenOffline(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "cli-secret")
	t.Setenv("JWT_ISSUER", "notes-saas-api")

	token, err := execute(t, "token", "--user-id", "u-1", "--email", "Admin@Acme.test", "--tenant", "acme", "--role", "admin", "--exp", "5m")
	require.NoError(t, err)

	claims, err := service.NewTokenManager("cli-secret", "notes-saas-api", time.Minute).Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@acme.test", claims.Email)
	assert.Equal(t, "acme", claims.TenantSlug)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenOffline_InvalidRole(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "cli-secret")

	_, err := execute(t, "token", "--user-id", "u-1", "--tenant", "acme", "--role", "owner")
	assert.ErrorContains(t, err, "invalid role")
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := execute(t, "token", "--user-id", "u-1", "--tenant", "acme")
	assert.Error(t, err)
}

func TestTokenLookupRequiresEmailAndTenant(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "cli-secret")

	_, err := execute(t, "token", "--email", "admin@acme.test")
	assert.ErrorContains(t, err, "--email and --tenant are required")
}

func TestTenantCreateFixture(t *testing.T) {
	fixture, err := tenantCreateOptions{
		name:          "Initech",
		slug:          "initech",
		plan:          "pro",
		adminEmail:    "bill@initech.test",
		adminPassword: "password123",
		adminFirst:    "Bill",
		adminLast:     "Lumbergh",
	}.fixture()
	require.NoError(t, err)
	require.Len(t, fixture.Tenants, 1)

	tenant := fixture.Tenants[0]
	assert.Equal(t, domain.PlanPro, tenant.Plan)
	require.Len(t, tenant.Users, 1)
	assert.Equal(t, domain.RoleAdmin, tenant.Users[0].Role)
	assert.Equal(t, "bill@initech.test", tenant.Users[0].Email)
}

func TestTenantCreateFixture_Validation(t *testing.T) {
	_, err := tenantCreateOptions{slug: "initech", plan: "FREE"}.fixture()
	assert.ErrorContains(t, err, "--name and --slug are required")

	_, err = tenantCreateOptions{name: "Initech", slug: "initech", plan: "GOLD"}.fixture()
	assert.ErrorContains(t, err, "invalid plan")

	_, err = tenantCreateOptions{name: "Initech", slug: "initech", plan: "FREE", adminEmail: "a@b.test", adminPassword: "short"}.fixture()
	assert.Error(t, err)

	fixture, err := tenantCreateOptions{name: "Initech", slug: "initech", plan: "free"}.fixture()
	require.NoError(t, err)
	assert.Empty(t, fixture.Tenants[0].Users)
}
