package profile

import (
	"context"
	"testing"

	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDefaults(t *testing.T) {
	p := Defaults(120)
	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, DefaultAvatar, p.Avatar)
	assert.Empty(t, p.Phone)
	assert.Empty(t, p.Email)
	assert.NotNil(t, p.Preferences)
	assert.Equal(t, 120, p.LoyaltyPoints)
}

func TestApplyPartialUpdate(t *testing.T) {
	p := Defaults(120)
	require.NoError(t, p.Apply(Update{Name: strPtr(" Grace "), Email: strPtr("grace@example.cg")}))

	assert.Equal(t, "Grace", p.Name)
	assert.Equal(t, "grace@example.cg", p.Email)
	assert.Equal(t, DefaultAvatar, p.Avatar, "untouched fields keep their value")
	assert.Equal(t, 120, p.LoyaltyPoints)
}

func TestApplyRejectsInvalidInputWithoutWriting(t *testing.T) {
	p := Defaults(0)
	err := p.Apply(Update{Phone: strPtr("+242 06 000 0000"), Email: strPtr("not-an-email")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, p.Phone)

	err = p.Apply(Update{Name: strPtr("  ")})
	require.Error(t, err)
	assert.Equal(t, DefaultName, p.Name)
}

func TestSetPreferencesNormalizes(t *testing.T) {
	p := Defaults(0)
	p.SetPreferences([]string{"Africaine", " ", "burgers", "africaine", "Pizza "})
	assert.Equal(t, []string{"Africaine", "burgers", "Pizza"}, p.Preferences)
}

func TestIncrementLoyaltyPoints(t *testing.T) {
	p := Defaults(120)
	require.NoError(t, p.IncrementLoyaltyPoints(50))
	assert.Equal(t, 170, p.LoyaltyPoints)
	require.Error(t, p.IncrementLoyaltyPoints(-5))
	assert.Equal(t, 170, p.LoyaltyPoints)
}

func TestLoginAndLogout(t *testing.T) {
	a := NewAccount(120)
	require.NoError(t, a.Login(Update{Name: strPtr("Grace"), Phone: strPtr("+242060000000")}))
	assert.True(t, a.LoggedIn)
	assert.Equal(t, "Grace", a.Profile.Name)
	assert.Equal(t, 120, a.Profile.LoyaltyPoints)

	a.Logout()
	assert.False(t, a.LoggedIn)
	assert.Equal(t, DefaultName, a.Profile.Name)
	assert.Empty(t, a.Profile.Phone)
	assert.Equal(t, 0, a.Profile.LoyaltyPoints)
}

func TestLoginFailureKeepsAccountLoggedOut(t *testing.T) {
	a := NewAccount(120)
	require.Error(t, a.Login(Update{Email: strPtr("broken")}))
	assert.False(t, a.LoggedIn)
}

type fakeAccounts struct {
	accounts map[string]Account
}

func (f *fakeAccounts) UpdateAccount(_ context.Context, id string, fn func(*Account) error) error {
	a, ok := f.accounts[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	working := a.Snapshot()
	if err := fn(&working); err != nil {
		return err
	}
	f.accounts[id] = working
	return nil
}

func (f *fakeAccounts) ViewAccount(_ context.Context, id string, fn func(*Account) error) error {
	a, ok := f.accounts[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return fn(&a)
}

func TestServiceFlow(t *testing.T) {
	ctx := context.Background()
	store := &fakeAccounts{accounts: map[string]Account{"s1": NewAccount(120)}}
	svc, err := NewService(store)
	require.NoError(t, err)

	acc, err := svc.SetPreferences(ctx, "s1", []string{"Africaine"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Africaine"}, acc.Profile.Preferences)

	acc, err = svc.Login(ctx, "s1", Update{Name: strPtr("Grace")})
	require.NoError(t, err)
	assert.True(t, acc.LoggedIn)

	_, err = svc.Update(ctx, "s1", Update{Email: strPtr("nope")})
	require.Error(t, err)

	acc, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Grace", acc.Profile.Name)
	assert.Equal(t, []string{"Africaine"}, acc.Profile.Preferences)

	acc, err = svc.Logout(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, acc.LoggedIn)
	assert.Equal(t, 0, acc.Profile.LoyaltyPoints)
}
