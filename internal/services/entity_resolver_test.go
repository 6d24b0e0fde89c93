package services

import (
	"testing"

	"easybuk_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveClient(t *testing.T) {
	f := newTestFixture(t)
	accountID, clientID := f.seedClient(t, "client@test.com", "Ama")

	res := f.resolver.Resolve(accountID, models.UserRoleClient)
	assert.True(t, res.Resolved)
	assert.Equal(t, clientID, res.EntityID)
}

func TestResolveProvider(t *testing.T) {
	f := newTestFixture(t)
	accountID, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	res := f.resolver.Resolve(accountID, models.UserRoleProvider)
	assert.True(t, res.Resolved)
	assert.Equal(t, providerID, res.EntityID)
}

func TestResolveMissingProfile(t *testing.T) {
	f := newTestFixture(t)
	accountID, _ := f.seedClient(t, "client@test.com", "Ama")

	// Client account has no provider record.
	res := f.resolver.Resolve(accountID, models.UserRoleProvider)
	assert.False(t, res.Resolved)
	assert.Empty(t, res.EntityID)
}

func TestResolveUnknownAccount(t *testing.T) {
	f := newTestFixture(t)

	res := f.resolver.Resolve("no-such-account", models.UserRoleClient)
	assert.False(t, res.Resolved)
}

func TestResolveEmptyAccountID(t *testing.T) {
	f := newTestFixture(t)

	res := f.resolver.Resolve("", models.UserRoleClient)
	assert.False(t, res.Resolved)
}

func TestResolveUnknownRole(t *testing.T) {
	f := newTestFixture(t)
	accountID, _ := f.seedClient(t, "client@test.com", "Ama")

	res := f.resolver.Resolve(accountID, models.UserRole("SUPERVISOR"))
	assert.False(t, res.Resolved)
}

func TestResolveAllSingleRole(t *testing.T) {
	f := newTestFixture(t)
	accountID, clientID := f.seedClient(t, "client@test.com", "Ama")

	ids := f.resolver.ResolveAll(accountID)
	assert.Equal(t, []string{clientID}, ids)
}

func TestResolveAllMultiRole(t *testing.T) {
	f := newTestFixture(t)

	// One account holding both a client and a provider record.
	user := seedBareUser(t, f, "both@test.com")
	client := &models.Client{UserID: user, Name: "Ama"}
	provider := &models.ServiceProvider{UserID: user, Name: "Ama", Category: "creative"}
	assert.NoError(t, f.db.Create(client).Error)
	assert.NoError(t, f.db.Create(provider).Error)

	ids := f.resolver.ResolveAll(user)
	assert.Equal(t, []string{client.ID, provider.ID}, ids)
}

func TestResolveAllNoProfiles(t *testing.T) {
	f := newTestFixture(t)
	user := seedBareUser(t, f, "bare@test.com")

	assert.Empty(t, f.resolver.ResolveAll(user))
}

func seedBareUser(t *testing.T, f *testFixture, email string) string {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.UserRoleClient,
		Status:       models.UserStatusActive,
	}
	assert.NoError(t, f.db.Create(user).Error)
	return user.ID
}
