package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/legacykeep/legacykeep-client/internal/preferences/domain"
	"github.com/legacykeep/legacykeep-client/internal/preferences/repository"
	"github.com/legacykeep/legacykeep-client/internal/preferences/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_LoadDefaults(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRepository)
	repo.On("Get", ctx, domain.KeyTheme).Return("", repository.ErrPreferenceNotFound).Once()
	repo.On("Get", ctx, domain.KeyLanguage).Return("", repository.ErrPreferenceNotFound).Once()
	svc := NewService(repo)

	prefs, err := svc.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.Defaults(), prefs)
	assert.Equal(t, domain.ThemeSystem, prefs.Theme)
	assert.Equal(t, "en", prefs.Language)
	repo.AssertExpectations(t)
}

func TestService_LoadIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRepository)
	repo.On("Get", ctx, domain.KeyTheme).Return("neon", nil).Once()
	repo.On("Get", ctx, domain.KeyLanguage).Return("klingon", nil).Once()

	prefs, err := NewService(repo).Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.Defaults(), prefs)
}

func TestService_LoadPropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRepository)
	storeErr := errors.New("disk on fire")
	repo.On("Get", ctx, domain.KeyTheme).Return("", storeErr).Once()

	_, err := NewService(repo).Load(ctx)

	assert.ErrorIs(t, err, storeErr)
	repo.AssertNotCalled(t, "Get", ctx, domain.KeyLanguage)
}

func TestService_SetTheme(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRepository)
	svc := NewService(repo)

	t.Run("Valid theme is written through", func(t *testing.T) {
		repo.On("Set", ctx, domain.KeyTheme, "dark").Return(nil).Once()

		require.NoError(t, svc.SetTheme(ctx, " Dark "))
		assert.Equal(t, domain.ThemeDark, svc.Current().Theme)
		assert.Equal(t, domain.ThemeDark, svc.ResolveTheme(false))
	})

	t.Run("Unknown theme is rejected", func(t *testing.T) {
		err := svc.SetTheme(ctx, "sepia")

		assert.ErrorIs(t, err, ErrInvalidTheme)
		repo.AssertNotCalled(t, "Set", ctx, domain.KeyTheme, "sepia")
	})
}

func TestService_SetLanguage(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRepository)
	repo.On("Set", ctx, domain.KeyLanguage, mock.AnythingOfType("string")).Return(nil)
	svc := NewService(repo)

	require.NoError(t, svc.SetLanguage(ctx, "pt-BR"))
	assert.Equal(t, "pt-BR", svc.Current().Language)

	require.NoError(t, svc.SetLanguage(ctx, "fr"))
	assert.Equal(t, "fr", svc.Current().Language)

	assert.ErrorIs(t, svc.SetLanguage(ctx, "portuguese"), ErrInvalidLanguage)
	assert.ErrorIs(t, svc.SetLanguage(ctx, "ja"), ErrUnsupportedLanguage)
	assert.Equal(t, "fr", svc.Current().Language)
}

func TestService_ResolveTheme(t *testing.T) {
	svc := NewService(new(mocks.MockRepository))

	assert.Equal(t, domain.ThemeDark, svc.ResolveTheme(true))
	assert.Equal(t, domain.ThemeLight, svc.ResolveTheme(false))
}

func TestService_MatchLanguage(t *testing.T) {
	svc := NewService(new(mocks.MockRepository))

	assert.Equal(t, "de", svc.MatchLanguage("ja-JP", "de-AT"))
	assert.Equal(t, "hi", svc.MatchLanguage("hi"))
	assert.Equal(t, "en", svc.MatchLanguage("!!", "ja"))
	assert.Equal(t, "en", svc.MatchLanguage())
}

func TestService_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preferences.json")

	first := NewService(repository.NewFileRepository(path))
	require.NoError(t, first.SetTheme(ctx, "light"))
	require.NoError(t, first.SetLanguage(ctx, "es"))

	second := NewService(repository.NewFileRepository(path))
	prefs, err := second.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{Theme: domain.ThemeLight, Language: "es"}, prefs)
}
