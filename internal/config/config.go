package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the DayFlow server.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string // empty selects the in-memory store with fixtures
	ReminderTime    string // HH:MM local time of the daily reminder sweep
	SimulateLatency bool
	TelegramToken   string // optional notification transport
	TelegramChatID  int64
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReminderTime:    strings.TrimSpace(os.Getenv("REMINDER_TIME")),
		SimulateLatency: parseBool(os.Getenv("SIMULATE_LATENCY")),
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.ReminderTime == "" {
		cfg.ReminderTime = "09:00"
	}
	if err := validateClock(cfg.ReminderTime); err != nil {
		return cfg, err
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required with TELEGRAM_TOKEN")
	}

	return cfg, nil
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func validateClock(timeStr string) error {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return fmt.Errorf("REMINDER_TIME %q: expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("REMINDER_TIME %q: invalid hour", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("REMINDER_TIME %q: invalid minute", timeStr)
	}
	return nil
}
