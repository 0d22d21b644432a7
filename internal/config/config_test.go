package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 8090

[scheduler]
url = "https://scheduler.example.com/api"
timeout = 5

[business_hours]
timezone = "UTC"
start_hour = 11
end_hour = 20
interval_minutes = 30
excluded_weekdays = ["Sunday"]

[wizard]
submission_mode = "optimistic"
time_mode = "dropdown"
contact_variant = "phone"
confirm_delay_ms = 1500
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "defaults survive partial files")
	assert.Equal(t, "https://scheduler.example.com/api", cfg.Scheduler.URL)

	hours, err := cfg.Hours()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, hours.Location)
	assert.Equal(t, 11, hours.StartHour)
	assert.Equal(t, 20, hours.EndHour)
	assert.Equal(t, 30, hours.IntervalMinutes)
	assert.Equal(t, []time.Weekday{time.Sunday}, hours.ExcludedWeekdays)
	assert.Equal(t, domain.DefaultCutoffHour, hours.CutoffHour)

	settings, err := cfg.WizardSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionOptimistic, settings.SubmissionMode)
	assert.Equal(t, domain.TimeFromDropdown, settings.TimeMode)
	assert.Equal(t, contact_form.VariantPhone, settings.ContactVariant)
	assert.Equal(t, 1500*time.Millisecond, settings.ConfirmDelay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[scheduler]
url = "https://file.example.com"
`)
	t.Setenv("SCHEDULER_URL", "https://env.example.com")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SUBMISSION_MODE", "optimistic")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Scheduler.URL)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "optimistic", cfg.Wizard.SubmissionMode)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing scheduler url", content: `[server]
http_port = 8080`},
		{name: "unknown submission mode", content: `[scheduler]
url = "http://x"
[wizard]
submission_mode = "eventually"`},
		{name: "unknown weekday", content: `[scheduler]
url = "http://x"
[business_hours]
excluded_weekdays = ["funday"]`},
		{name: "end before start", content: `[scheduler]
url = "http://x"
[business_hours]
start_hour = 18
end_hour = 9`},
		{name: "bad timezone", content: `[scheduler]
url = "http://x"
[business_hours]
timezone = "Mars/Olympus"`},
		{name: "diagnostics without database", content: `[scheduler]
url = "http://x"
[diagnostics]
enabled = true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", Port: 5432, User: "wizard", Password: "secret", DBName: "diagnostics", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5432 user=wizard password=secret dbname=diagnostics sslmode=disable", db.DSN())
}
