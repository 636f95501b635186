// Package settings holds the process-wide presentation preferences: the
// active content language and the colour theme. Both are plain values read
// far more often than they change.
package settings

import (
	"sync"

	"github.com/cidcomitra/mitra-api/config"
	apperrors "github.com/cidcomitra/mitra-api/pkg/errors"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"go.uber.org/zap"
)

// Theme is a colour scheme name.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Store is a concurrency-safe holder for the active language and theme.
// Selections apply immediately and globally; there is no per-request
// override.
type Store struct {
	mu        sync.RWMutex
	language  string
	theme     Theme
	supported map[string]struct{}
}

// NewStore seeds a Store from the site configuration.
func NewStore(cfg config.SiteConfig) *Store {
	supported := make(map[string]struct{}, len(cfg.SupportedLanguages))
	for _, lang := range cfg.SupportedLanguages {
		supported[lang] = struct{}{}
	}

	theme := ThemeLight
	if Theme(cfg.DefaultTheme) == ThemeDark {
		theme = ThemeDark
	}

	return &Store{
		language:  cfg.DefaultLanguage,
		theme:     theme,
		supported: supported,
	}
}

// Language returns the active content language code.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage switches the active language. Unknown codes are rejected so a
// typo cannot blank every localized field at once.
func (s *Store) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.supported[lang]; !ok {
		return apperrors.InvalidInputError("language", "unsupported language code")
	}
	if lang != s.language {
		logger.Info("Language changed",
			zap.String("from", s.language),
			zap.String("to", lang))
	}
	s.language = lang
	return nil
}

// SupportedLanguages returns the configured language codes.
func (s *Store) SupportedLanguages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.supported))
	for lang := range s.supported {
		out = append(out, lang)
	}
	return out
}

// Theme returns the active theme.
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme switches the active theme.
func (s *Store) SetTheme(theme Theme) error {
	if theme != ThemeLight && theme != ThemeDark {
		return apperrors.InvalidInputError("theme", "unsupported theme")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Store) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeLight {
		s.theme = ThemeDark
	} else {
		s.theme = ThemeLight
	}
	return s.theme
}
