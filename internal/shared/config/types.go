package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost          string `mapstructure:"smtp_host"`
	SMTPPort          int    `mapstructure:"smtp_port"`
	SMTPUser          string `mapstructure:"smtp_user"`
	SMTPPassword      string `mapstructure:"smtp_password"`
	FromAddress       string `mapstructure:"from_address"`
	FromName          string `mapstructure:"from_name"`
	BaseURL           string `mapstructure:"base_url"`
	RecipientTemplate string `mapstructure:"recipient_template"`
}

// SubscriptionConfig holds subscription lifecycle tuning knobs.
// TrialDays and WarningWindowDays are whole days; SweepIntervalHours
// controls how often the in-process scheduler runs the expiry sweep.
type SubscriptionConfig struct {
	TrialDays          int `mapstructure:"trial_days"`
	WarningWindowDays  int `mapstructure:"warning_window_days"`
	SweepIntervalHours int `mapstructure:"sweep_interval_hours"`
	SubmitRateLimit    int `mapstructure:"submit_rate_limit"`
	SubmitRateWindowS  int `mapstructure:"submit_rate_window_seconds"`
}

type TimezoneConfig struct {
	Business string `mapstructure:"business"`
}
