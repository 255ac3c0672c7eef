package services

import (
	"context"
	"strings"

	"pg-portal/storage"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// ThemeService persists the portal theme preference.
type ThemeService struct {
	kv storage.KVStore
}

func NewThemeService(kv storage.KVStore) *ThemeService {
	return &ThemeService{kv: kv}
}

// Get returns the stored theme, or "system" when none is stored or the stored value is unknown.
func (s *ThemeService) Get(ctx context.Context) (string, error) {
	value, ok, err := s.kv.Get(ctx, storage.KeyTheme)
	if err != nil {
		return "", err
	}
	if !ok || (value != ThemeLight && value != ThemeDark) {
		return ThemeSystem, nil
	}
	return value, nil
}

// Set stores light or dark; system removes the stored preference.
func (s *ThemeService) Set(ctx context.Context, theme string) (string, error) {
	theme = strings.ToLower(strings.TrimSpace(theme))
	switch theme {
	case ThemeLight, ThemeDark:
		return theme, s.kv.Set(ctx, storage.KeyTheme, theme)
	case ThemeSystem:
		return theme, s.kv.Delete(ctx, storage.KeyTheme)
	default:
		return "", invalid("Theme must be light, dark or system.")
	}
}
