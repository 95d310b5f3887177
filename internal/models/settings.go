package models

import (
	"github.com/starford/syndic/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ThemeVariant selects the accent palette of the presentation layer.
type ThemeVariant string

const (
	ThemeCyan   ThemeVariant = "cyan"
	ThemePink   ThemeVariant = "pink"
	ThemePurple ThemeVariant = "purple"
)

// Default settings row values.
const (
	DefaultDisplayName         = "Agent"
	DefaultMonthlyQuotaMinutes = 2100
	DefaultThemeVariant        = ThemeCyan
)

// Theme is the colour palette bound to a ThemeVariant.
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Glow      string `json:"glow"`
}

const (
	colorCyan   = "#00f2ff"
	colorPink   = "#ff00ff"
	colorPurple = "#bc13fe"
)

var themes = map[ThemeVariant]Theme{
	ThemeCyan:   {Primary: colorCyan, Secondary: colorPurple, Accent: colorCyan, Glow: "rgba(0, 242, 255, 0.5)"},
	ThemePink:   {Primary: colorPink, Secondary: colorCyan, Accent: colorPink, Glow: "rgba(255, 0, 255, 0.5)"},
	ThemePurple: {Primary: colorPurple, Secondary: colorPink, Accent: colorPurple, Glow: "rgba(188, 19, 254, 0.5)"},
}

// Palette returns the palette of v, falling back to the default variant.
func (v ThemeVariant) Palette() Theme {
	if t, ok := themes[v]; ok {
		return t
	}
	return themes[DefaultThemeVariant]
}

// Settings is the singleton preferences row (id 1).
type Settings struct {
	DisplayName         string       `json:"display_name"`
	MonthlyQuotaMinutes int          `json:"monthly_quota_minutes"`
	ThemeVariant        ThemeVariant `json:"theme_variant"`
}

// DefaultSettings returns the values the singleton row is created with.
func DefaultSettings() Settings {
	return Settings{
		DisplayName:         DefaultDisplayName,
		MonthlyQuotaMinutes: DefaultMonthlyQuotaMinutes,
		ThemeVariant:        DefaultThemeVariant,
	}
}

// SettingsPatch carries the settings fields to change; nil fields are kept.
type SettingsPatch struct {
	DisplayName         *string       `json:"display_name,omitempty"`
	MonthlyQuotaMinutes *int          `json:"monthly_quota_minutes,omitempty"`
	ThemeVariant        *ThemeVariant `json:"theme_variant,omitempty"`
}

// Validate checks the provided fields.
func (p SettingsPatch) Validate() error {
	return apperr.Invalid("settings", validation.ValidateStruct(&p,
		validation.Field(&p.DisplayName, notBlankPtr),
		validation.Field(&p.MonthlyQuotaMinutes, validation.Min(0)),
		validation.Field(&p.ThemeVariant, validation.In(ThemeCyan, ThemePink, ThemePurple)),
	))
}

// Apply returns s with the patch merged in.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DisplayName != nil {
		s.DisplayName = *p.DisplayName
	}
	if p.MonthlyQuotaMinutes != nil {
		s.MonthlyQuotaMinutes = *p.MonthlyQuotaMinutes
	}
	if p.ThemeVariant != nil {
		s.ThemeVariant = *p.ThemeVariant
	}
	return s
}
