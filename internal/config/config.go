package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
	BusinessHours BusinessHoursConfig `toml:"business_hours"`
	Wizard        WizardConfig        `toml:"wizard"`
	Diagnostics   DiagnosticsConfig   `toml:"diagnostics"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulerConfig настройки бэкенда расписания
type SchedulerConfig struct {
	URL               string  `toml:"url"`
	Timeout           int     `toml:"timeout"` // секунды
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// BusinessHoursConfig рабочие часы развертывания
type BusinessHoursConfig struct {
	Timezone             string   `toml:"timezone"`
	StartHour            int      `toml:"start_hour"`
	EndHour              int      `toml:"end_hour"`
	IntervalMinutes      int      `toml:"interval_minutes"`
	ExcludedWeekdays     []string `toml:"excluded_weekdays"`
	CutoffHour           int      `toml:"cutoff_hour"`
	NavigationWindowDays int      `toml:"navigation_window_days"`
	SlotDurationMinutes  int      `toml:"slot_duration_minutes"`
}

// WizardConfig поведение визарда
type WizardConfig struct {
	SubmissionMode     string `toml:"submission_mode"`
	TimeMode           string `toml:"time_mode"`
	ContactVariant     string `toml:"contact_variant"`
	ConfirmDelayMillis int    `toml:"confirm_delay_ms"`
	SessionIdleMinutes int    `toml:"session_idle_minutes"`
	SweepSchedule      string `toml:"sweep_schedule"`
}

// DiagnosticsConfig журнал фоновых ошибок бронирования.
// Если выключен, ошибки только пишутся в лог.
type DiagnosticsConfig struct {
	Enabled           bool           `toml:"enabled"`
	RetentionDays     int            `toml:"retention_days"`
	RetentionSchedule string         `toml:"retention_schedule"`
	Database          DatabaseConfig `toml:"database"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Load читает конфигурацию из TOML-файла, затем применяет переменные окружения.
// Переменные из .env (если файл есть) подхватываются автоматически.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию, которые перекрываются файлом
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "booking_wizard",
		},
		Scheduler: SchedulerConfig{
			Timeout: 10,
			Burst:   1,
		},
		BusinessHours: BusinessHoursConfig{
			Timezone:             domain.DefaultTimezone,
			StartHour:            domain.DefaultStartHour,
			EndHour:              domain.DefaultEndHour,
			IntervalMinutes:      domain.DefaultIntervalMinutes,
			ExcludedWeekdays:     []string{"saturday", "sunday"},
			CutoffHour:           domain.DefaultCutoffHour,
			NavigationWindowDays: domain.DefaultNavigationWindowDays,
			SlotDurationMinutes:  domain.DefaultSlotDurationMinutes,
		},
		Wizard: WizardConfig{
			SubmissionMode:     string(domain.SubmissionBlocking),
			TimeMode:           string(domain.TimeFromSlots),
			ContactVariant:     string(contact_form.VariantEmail),
			ConfirmDelayMillis: domain.DefaultConfirmDelayMillis,
			SessionIdleMinutes: 30,
			SweepSchedule:      "@every 1m",
		},
		Diagnostics: DiagnosticsConfig{
			RetentionDays:     30,
			RetentionSchedule: "@daily",
			Database: DatabaseConfig{
				Port:            5432,
				SSLMode:         "disable",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
	}
}

// applyEnv перекрывает значения переменными окружения
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("SCHEDULER_URL"); ok {
		c.Scheduler.URL = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Logs.Level = v
	}
	if v, ok := os.LookupEnv("SUBMISSION_MODE"); ok {
		c.Wizard.SubmissionMode = v
	}
	if v, ok := os.LookupEnv("DIAGNOSTICS_DB_PASSWORD"); ok {
		c.Diagnostics.Database.Password = v
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Server.HTTPPort = port
	}
	if v, ok := os.LookupEnv("DIAGNOSTICS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: DIAGNOSTICS_ENABLED=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Diagnostics.Enabled = enabled
	}
	return nil
}

// Validate проверяет значения, которые нельзя исправить значениями по умолчанию
func (c *Config) Validate() error {
	if c.Scheduler.URL == "" {
		return fmt.Errorf("%w: scheduler.url is required", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if _, err := c.Hours(); err != nil {
		return err
	}
	if _, err := c.WizardSettings(); err != nil {
		return err
	}
	if c.Wizard.SessionIdleMinutes < 0 {
		return fmt.Errorf("%w: wizard.session_idle_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Diagnostics.Enabled {
		if c.Diagnostics.Database.Host == "" || c.Diagnostics.Database.DBName == "" {
			return fmt.Errorf("%w: diagnostics.database host and dbname are required", ErrInvalidConfig)
		}
		if c.Diagnostics.RetentionDays <= 0 {
			return fmt.Errorf("%w: diagnostics.retention_days must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

// Hours рабочие часы в доменном виде
func (c *Config) Hours() (domain.BusinessHours, error) {
	bh := c.BusinessHours

	loc, err := time.LoadLocation(bh.Timezone)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: business_hours.timezone %q: %v", ErrInvalidConfig, bh.Timezone, err)
	}

	excluded := make([]time.Weekday, 0, len(bh.ExcludedWeekdays))
	for _, name := range bh.ExcludedWeekdays {
		day, err := parseWeekday(name)
		if err != nil {
			return domain.BusinessHours{}, err
		}
		excluded = append(excluded, day)
	}

	hours := domain.BusinessHours{
		Location:             loc,
		StartHour:            bh.StartHour,
		EndHour:              bh.EndHour,
		IntervalMinutes:      bh.IntervalMinutes,
		ExcludedWeekdays:     excluded,
		CutoffHour:           bh.CutoffHour,
		NavigationWindowDays: bh.NavigationWindowDays,
		SlotDurationMinutes:  bh.SlotDurationMinutes,
	}
	if err := hours.Validate(); err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return hours, nil
}

// WizardSettings режимы визарда в доменном виде
func (c *Config) WizardSettings() (WizardSettings, error) {
	var s WizardSettings

	switch mode := domain.SubmissionMode(c.Wizard.SubmissionMode); mode {
	case domain.SubmissionBlocking, domain.SubmissionOptimistic:
		s.SubmissionMode = mode
	default:
		return s, fmt.Errorf("%w: wizard.submission_mode %q", ErrInvalidConfig, c.Wizard.SubmissionMode)
	}

	switch mode := domain.TimeSelectionMode(c.Wizard.TimeMode); mode {
	case domain.TimeFromSlots, domain.TimeFromDropdown:
		s.TimeMode = mode
	default:
		return s, fmt.Errorf("%w: wizard.time_mode %q", ErrInvalidConfig, c.Wizard.TimeMode)
	}

	variant, err := contact_form.ParseVariant(c.Wizard.ContactVariant)
	if err != nil {
		return s, fmt.Errorf("%w: wizard.contact_variant: %v", ErrInvalidConfig, err)
	}
	s.ContactVariant = variant

	if c.Wizard.ConfirmDelayMillis < 0 {
		return s, fmt.Errorf("%w: wizard.confirm_delay_ms must not be negative", ErrInvalidConfig)
	}
	s.ConfirmDelay = time.Duration(c.Wizard.ConfirmDelayMillis) * time.Millisecond
	return s, nil
}

// WizardSettings разобранные режимы визарда
type WizardSettings struct {
	SubmissionMode domain.SubmissionMode
	TimeMode       domain.TimeSelectionMode
	ContactVariant contact_form.Variant
	ConfirmDelay   time.Duration
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, name)
	}
	return day, nil
}
