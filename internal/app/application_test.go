package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/DocPilot/internal/config"
	"github.com/Rorical/DocPilot/internal/logger"
	"github.com/Rorical/DocPilot/internal/transport"
)

func loadTestConfig(t *testing.T, p config.Profile) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfigFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	cfg.Profiles["work"] = p
	cfg.ActiveProfile = "work"
	require.NoError(t, cfg.Save())
	return cfg
}

func TestInitialModelShowsWelcome(t *testing.T) {
	cfg := loadTestConfig(t, config.Profile{BackendURL: "http://localhost:8000", Token: "t"})

	m := createInitialAppModel(cfg)
	assert.Contains(t, m.Banner, welcomeText)
	assert.Contains(t, m.Banner, "Active Profile: work [OK]")
	assert.Empty(t, m.Turns)
	assert.Nil(t, m.Pending)
	assert.True(t, m.SessionValid)
}

func TestInitialModelUnconfigured(t *testing.T) {
	cfg := loadTestConfig(t, config.Profile{BackendURL: "http://localhost:8000"})

	m := createInitialAppModel(cfg)
	assert.Contains(t, m.Banner, "Active Profile: work [NOT CONFIGURED]")
	assert.False(t, m.SessionValid)
}

func TestNewClientPicksGuard(t *testing.T) {
	bearer := loadTestConfig(t, config.Profile{BackendURL: "http://localhost:8000", Token: "t"})
	_, guard, err := NewClient(bearer, logger.Nop(), nil)
	require.NoError(t, err)
	assert.IsType(t, &transport.BearerGuard{}, guard)

	cookie := loadTestConfig(t, config.Profile{BackendURL: "http://localhost:8000", AuthMode: config.AuthCookie, Token: "c"})
	_, guard, err = NewClient(cookie, logger.Nop(), nil)
	require.NoError(t, err)
	assert.IsType(t, &transport.CookieGuard{}, guard)
}
