package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adinsights/internal/domain/entity"
)

type fakeLinkedAccountRepo struct {
	accounts []entity.LinkedAccount
}

func (f *fakeLinkedAccountRepo) Upsert(_ context.Context, account *entity.LinkedAccount) error {
	f.accounts = append(f.accounts, *account)
	return nil
}

func (f *fakeLinkedAccountRepo) ListByUser(_ context.Context, userID, platform string) ([]entity.LinkedAccount, error) {
	var out []entity.LinkedAccount
	for _, a := range f.accounts {
		if a.UserID == userID && (platform == "" || a.Platform == platform) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePreferenceRepo struct {
	prefs map[string]*entity.AccountPreference
}

func prefKey(userID, platform string) string { return userID + "|" + platform }

func (f *fakePreferenceRepo) GetSelectedAccount(_ context.Context, userID, platform string) (*entity.AccountPreference, error) {
	return f.prefs[prefKey(userID, platform)], nil
}

func (f *fakePreferenceRepo) SetSelectedAccount(_ context.Context, pref *entity.AccountPreference) error {
	f.prefs[prefKey(pref.UserID, pref.Platform)] = pref
	return nil
}

func newAccountFixture() (AccountUsecase, *fakeLinkedAccountRepo, *fakePreferenceRepo) {
	accounts := &fakeLinkedAccountRepo{}
	prefs := &fakePreferenceRepo{prefs: map[string]*entity.AccountPreference{}}
	return NewAccountUsecase(accounts, prefs, zap.NewNop()), accounts, prefs
}

func TestListAccountsFiltersByPlatform(t *testing.T) {
	uc, repo, _ := newAccountFixture()
	repo.accounts = []entity.LinkedAccount{
		{UserID: "user-1", Platform: "search_console", AccountID: "https://example.com/"},
		{UserID: "user-1", Platform: "meta", AccountID: "act_1"},
		{UserID: "user-2", Platform: "meta", AccountID: "act_2"},
	}

	all, err := uc.ListAccounts(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	meta, err := uc.ListAccounts(context.Background(), "user-1", "meta")
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "act_1", meta[0].AccountID)
}

func TestSelectAccountReplacesPreviousChoice(t *testing.T) {
	uc, _, prefs := newAccountFixture()
	ctx := context.Background()

	require.NoError(t, uc.SelectAccount(ctx, "user-1", "meta", "act_1"))
	require.NoError(t, uc.SelectAccount(ctx, "user-1", "meta", "act_2"))

	pref, err := uc.SelectedAccount(ctx, "user-1", "meta")
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "act_2", pref.AccountID)
	assert.Len(t, prefs.prefs, 1)
}

func TestSelectedAccountIsNilBeforeAnyChoice(t *testing.T) {
	uc, _, _ := newAccountFixture()

	pref, err := uc.SelectedAccount(context.Background(), "user-1", "meta")
	require.NoError(t, err)
	assert.Nil(t, pref)
}

func TestSelectAccountValidatesInput(t *testing.T) {
	uc, _, _ := newAccountFixture()
	ctx := context.Background()

	require.Error(t, uc.SelectAccount(ctx, "user-1", "", "act_1"))
	require.Error(t, uc.SelectAccount(ctx, "user-1", "meta", ""))

	_, err := uc.SelectedAccount(ctx, "user-1", "")
	require.Error(t, err)
}
