package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
	"github.com/legacykeep/legacykeep-client/internal/preferences/domain"
	"github.com/legacykeep/legacykeep-client/internal/preferences/repository"
	"github.com/legacykeep/legacykeep-client/internal/validation"
	"golang.org/x/text/language"
)

var (
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrInvalidLanguage     = errors.New("invalid language code")
	ErrUnsupportedLanguage = errors.New("language is not supported")
)

// Service reads preferences once at startup and writes every change through.
type Service struct {
	repo    repository.Repository
	matcher language.Matcher

	mu    sync.RWMutex
	prefs domain.Preferences
}

func NewService(repo repository.Repository) *Service {
	return &Service{
		repo:    repo,
		matcher: language.NewMatcher(domain.SupportedLanguages),
		prefs:   domain.Defaults(),
	}
}

// Load replaces the in-memory preferences with the stored ones. Missing or
// unreadable values fall back to defaults.
func (s *Service) Load(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.Defaults()

	theme, err := s.repo.Get(ctx, domain.KeyTheme)
	switch {
	case err == nil:
		if t, parseErr := domain.ParseTheme(theme); parseErr == nil {
			prefs.Theme = t
		} else {
			logger.Warn("Ignoring stored theme %q: %v", theme, parseErr)
		}
	case !errors.Is(err, repository.ErrPreferenceNotFound):
		return prefs, fmt.Errorf("loading theme: %w", err)
	}

	lang, err := s.repo.Get(ctx, domain.KeyLanguage)
	switch {
	case err == nil:
		if matched, ok := s.supported(lang); ok {
			prefs.Language = matched
		} else {
			logger.Warn("Ignoring stored language %q", lang)
		}
	case !errors.Is(err, repository.ErrPreferenceNotFound):
		return prefs, fmt.Errorf("loading language: %w", err)
	}

	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()
	return prefs, nil
}

func (s *Service) Current() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *Service) SetTheme(ctx context.Context, value string) error {
	theme, err := domain.ParseTheme(value)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, value)
	}
	if err := s.repo.Set(ctx, domain.KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	s.mu.Lock()
	s.prefs.Theme = theme
	s.mu.Unlock()
	return nil
}

// SetLanguage stores the closest supported translation for code.
func (s *Service) SetLanguage(ctx context.Context, code string) error {
	if r := validation.ValidateLanguageCode(code); !r.IsValid {
		return fmt.Errorf("%w: %s", ErrInvalidLanguage, r.Error)
	}
	matched, ok := s.supported(code)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, code)
	}
	if err := s.repo.Set(ctx, domain.KeyLanguage, matched); err != nil {
		return fmt.Errorf("saving language: %w", err)
	}
	s.mu.Lock()
	s.prefs.Language = matched
	s.mu.Unlock()
	return nil
}

// ResolveTheme turns the system preference into a concrete theme.
func (s *Service) ResolveTheme(systemDark bool) domain.Theme {
	switch t := s.Current().Theme; t {
	case domain.ThemeLight, domain.ThemeDark:
		return t
	default:
		if systemDark {
			return domain.ThemeDark
		}
		return domain.ThemeLight
	}
}

// MatchLanguage picks the best supported translation for the device's
// preferred locales, in order. Unparseable tags are skipped.
func (s *Service) MatchLanguage(tags ...string) string {
	var parsed []language.Tag
	for _, t := range tags {
		if tag, err := language.Parse(t); err == nil {
			parsed = append(parsed, tag)
		}
	}
	_, idx, conf := s.matcher.Match(parsed...)
	if conf == language.No {
		return domain.SupportedLanguages[0].String()
	}
	return domain.SupportedLanguages[idx].String()
}

func (s *Service) supported(code string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	_, idx, conf := s.matcher.Match(tag)
	if conf < language.High {
		return "", false
	}
	return domain.SupportedLanguages[idx].String(), true
}
