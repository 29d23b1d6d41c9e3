package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: pitchbook
  environment: test
database:
  path: /tmp/pitchbook.db
owner:
  email: owner@example.com
  password: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Booking.OpenHour)
	assert.Equal(t, 23, cfg.Booking.CloseHour)
	assert.Equal(t, "18:00", cfg.Booking.BoundaryTime)
	assert.Equal(t, int64(400), cfg.Booking.DayRate)
	assert.Equal(t, int64(500), cfg.Booking.NightRate)
	assert.Equal(t, 14, cfg.Booking.WindowDays)
	assert.Equal(t, 24*60*60, cfg.Owner.SessionTTL)
	assert.Equal(t, "exports", cfg.Exports.Path)
	assert.Equal(t, float64(10), cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/pitchbook.db
booking:
  open_hour: 8
  close_hour: 22
  boundary_time: "17:00"
  day_rate: 350
  night_rate: 450
  window_days: 7
owner:
  email: owner@example.com
  password: secret
server:
  port: 9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Booking.OpenHour)
	assert.Equal(t, 22, cfg.Booking.CloseHour)
	assert.Equal(t, "17:00", cfg.Booking.BoundaryTime)
	assert.Equal(t, int64(350), cfg.Booking.DayRate)
	assert.Equal(t, int64(450), cfg.Booking.NightRate)
	assert.Equal(t, 7, cfg.Booking.WindowDays)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("PITCHBOOK_DB_PATH", "/tmp/env.db")

	path := writeConfig(t, `
database:
  path: ${PITCHBOOK_DB_PATH}
owner:
  email: owner@example.com
  password: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			"missing database path",
			`
owner:
  email: owner@example.com
  password: secret
`,
		},
		{
			"missing owner credentials",
			`
database:
  path: /tmp/pitchbook.db
`,
		},
		{
			"inverted hours",
			`
database:
  path: /tmp/pitchbook.db
booking:
  open_hour: 20
  close_hour: 8
owner:
  email: owner@example.com
  password: secret
`,
		},
		{
			"negative rate",
			`
database:
  path: /tmp/pitchbook.db
booking:
  open_hour: 6
  close_hour: 23
  day_rate: -5
owner:
  email: owner@example.com
  password: secret
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
