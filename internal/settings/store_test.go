package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidcomitra/mitra-api/config"
	apperrors "github.com/cidcomitra/mitra-api/pkg/errors"
	"github.com/cidcomitra/mitra-api/pkg/logger"
)

func init() {
	logger.Initialize(logger.Config{Level: "error", Environment: "test"})
}

func newTestStore() *Store {
	return NewStore(config.SiteConfig{
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en", "mr", "hi"},
		DefaultTheme:       "light",
	})
}

func TestStore_LanguageSwitch(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, "en", s.Language())

	require.NoError(t, s.SetLanguage("mr"))
	assert.Equal(t, "mr", s.Language())
}

func TestStore_RejectsUnsupportedLanguage(t *testing.T) {
	s := newTestStore()

	err := s.SetLanguage("fr")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, "en", s.Language())
}

func TestStore_ThemeToggle(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, ThemeLight, s.Theme())

	assert.Equal(t, ThemeDark, s.ToggleTheme())
	assert.Equal(t, ThemeLight, s.ToggleTheme())

	require.NoError(t, s.SetTheme(ThemeDark))
	assert.Equal(t, ThemeDark, s.Theme())
	assert.Error(t, s.SetTheme(Theme("sepia")))
}
