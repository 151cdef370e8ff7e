// Package theme manages the light/dark display preference.
package theme

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// SettingKey is the settings key the mode is stored under.
const SettingKey = "theme"

// Mode is a display theme.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// ParseMode parses "dark" or "light", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return "", fmt.Errorf("invalid theme %q, must be one of: dark, light", s)
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Settings persists string preferences.
type Settings interface {
	Setting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDefault sets the mode used when nothing has been saved yet. An empty
// value leaves detection to the terminal background.
func WithDefault(mode Mode) Option {
	return func(m *Manager) {
		m.fallback = mode
	}
}

// WithDetector overrides the terminal background probe.
func WithDetector(hasDarkBackground func() bool) Option {
	return func(m *Manager) {
		if hasDarkBackground != nil {
			m.detect = hasDarkBackground
		}
	}
}

// Manager resolves, toggles and persists the theme.
type Manager struct {
	settings Settings
	logger   *log.Logger
	fallback Mode
	detect   func() bool
	mode     Mode
}

// NewManager creates a manager backed by settings. The mode is Dark until
// Resolve is called.
func NewManager(settings Settings, opts ...Option) *Manager {
	m := &Manager{
		settings: settings,
		logger:   log.New(io.Discard),
		detect:   lipgloss.HasDarkBackground,
		mode:     Dark,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve determines the starting mode: the saved setting, else the
// configured default, else the terminal background.
func (m *Manager) Resolve(ctx context.Context) Mode {
	m.mode = m.initial(ctx)
	return m.mode
}

func (m *Manager) initial(ctx context.Context) Mode {
	saved, ok, err := m.settings.Setting(ctx, SettingKey)
	if err != nil {
		m.logger.Warn("Failed to read theme", "err", err)
	}
	if ok {
		if mode, err := ParseMode(saved); err == nil {
			return mode
		}
		m.logger.Warn("Ignoring saved theme", "value", saved)
	}
	if m.fallback != "" {
		return m.fallback
	}
	if m.detect() {
		return Dark
	}
	return Light
}

// Mode returns the current mode.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Toggle flips the mode and saves it.
func (m *Manager) Toggle(ctx context.Context) Mode {
	return m.Set(ctx, m.mode.Opposite())
}

// Set switches to mode and saves it. A failed save is logged; the mode
// still changes for the running session.
func (m *Manager) Set(ctx context.Context, mode Mode) Mode {
	m.mode = mode
	if err := m.settings.SetSetting(ctx, SettingKey, string(mode)); err != nil {
		m.logger.Error("Failed to save theme", "theme", mode, "err", err)
	}
	return m.mode
}
