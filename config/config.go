package config

import (
	"fmt"
	"os"
	"strings"
)

// Config carries every named value the services and jobs consume. All values
// come from the environment with sensible defaults; validation failures are
// fatal at startup.
type Config struct {
	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	SubmitEndpoint string
	HandledFamily  string

	ReminderDays       int
	ReassignDays       int
	MaxRetries         int
	CacheExpiryMinutes int
	DrainWorkers       int

	FailureAlertRecipients []string
	OpsContact             string

	DrainSchedule      string
	RetrySchedule      string
	EscalationSchedule string

	SMTPAddr string
	SMTPFrom string

	JWTSecret string
}

func Load() Config {
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),

		SubmitEndpoint: os.Getenv("SUBMIT_ENDPOINT"),
		HandledFamily:  getEnv("HANDLED_FAMILY", "civil"),

		ReminderDays:       getEnvInt("REMINDER_DAYS", 5),
		ReassignDays:       getEnvInt("REASSIGN_DAYS", 10),
		MaxRetries:         getEnvInt("MAX_RETRIES", 9),
		CacheExpiryMinutes: getEnvInt("CACHE_EXPIRY_MINUTES", 60),
		DrainWorkers:       getEnvInt("DRAIN_WORKERS", 4),

		FailureAlertRecipients: splitList(os.Getenv("FAILURE_ALERT_RECIPIENTS")),
		OpsContact:             os.Getenv("OPS_CONTACT"),

		DrainSchedule:      getEnv("DRAIN_SCHEDULE", "@every 1m"),
		RetrySchedule:      getEnv("RETRY_SCHEDULE", "@every 15m"),
		EscalationSchedule: getEnv("ESCALATION_SCHEDULE", "0 6 * * *"),

		SMTPAddr: os.Getenv("SMTP_ADDR"),
		SMTPFrom: getEnv("SMTP_FROM", "courtflow@localhost"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
	}
}

// Validate rejects configurations the jobs cannot run under.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	if c.ReassignDays <= c.ReminderDays {
		return fmt.Errorf("config: REASSIGN_DAYS (%d) must exceed REMINDER_DAYS (%d)", c.ReassignDays, c.ReminderDays)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: MAX_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
