package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	KeyTheme    = "legacykeep.theme"
	KeyLanguage = "legacykeep.language"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// SupportedLanguages are the UI translations that ship with the app. The
// first entry is the fallback.
var SupportedLanguages = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.German,
	language.BrazilianPortuguese,
	language.Hindi,
}

type Preferences struct {
	Theme    Theme  `json:"theme"`
	Language string `json:"language"`
}

func Defaults() Preferences {
	return Preferences{Theme: ThemeSystem, Language: SupportedLanguages[0].String()}
}
